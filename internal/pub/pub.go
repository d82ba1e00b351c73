package pub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"

	"github.com/redis/go-redis/v9"
)

const TransactionEventsChannel = "transaction_events"

// TransactionEventPublisher fans transaction lifecycle events out over
// Redis pub/sub for downstream consumers (receipts, notifications).
type TransactionEventPublisher struct {
	rdb *redis.Client
}

func NewTransactionEventPublisher(rdb *redis.Client) *TransactionEventPublisher {
	return &TransactionEventPublisher{rdb: rdb}
}

type TransactionEvent struct {
	EventType       string    `json:"event_type"` // transaction.created, transaction.completed
	UserID          string    `json:"user_id"`
	TransactionID   string    `json:"transaction_id"`
	TransactionType string    `json:"transaction_type"`
	Status          string    `json:"status"`
	Amount          string    `json:"amount"`
	Currency        string    `json:"currency"`
	ReceivedAmount  string    `json:"received_amount,omitempty"`
	Fee             string    `json:"fee,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

func (p *TransactionEventPublisher) publish(ctx context.Context, event *TransactionEvent) error {
	event.Timestamp = time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.rdb.Publish(ctx, TransactionEventsChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *TransactionEventPublisher) emit(ctx context.Context, eventType string, t *domain.Transaction) {
	err := p.publish(ctx, &TransactionEvent{
		EventType:       eventType,
		UserID:          t.UserID,
		TransactionID:   t.ID,
		TransactionType: string(t.Type),
		Status:          string(t.Status),
		Amount:          t.SentAmount.String(),
		Currency:        string(t.SentCurrency),
		ReceivedAmount:  t.ReceivedAmount.String(),
		Fee:             t.Fee.String(),
	})
	if err != nil {
		log.Printf("[TransactionEvent] publish failed for %s: %v", t.ID, err)
	}
}

func (p *TransactionEventPublisher) TransactionCreated(ctx context.Context, t *domain.Transaction) {
	p.emit(ctx, "transaction.created", t)
}

func (p *TransactionEventPublisher) TransactionCompleted(ctx context.Context, t *domain.Transaction) {
	p.emit(ctx, "transaction.completed", t)
}
