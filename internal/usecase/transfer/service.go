package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/ids"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/xerrors"
	"github.com/shahmubaruk05/wallet-exchange/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Events receives post-commit notifications. Implementations must not
// block; failures are logged, never surfaced to the caller.
type Events interface {
	TransactionCompleted(ctx context.Context, t *domain.Transaction)
}

// BalanceNotifier pushes fresh balances to connected clients.
type BalanceNotifier interface {
	NotifyBalance(userID string, balance decimal.Decimal)
}

// Pair is the two mirrored records written for one transfer.
type Pair struct {
	Sender    *domain.Transaction `json:"sender"`
	Recipient *domain.Transaction `json:"recipient"`
}

type Service struct {
	users        repository.UserRepository
	transactions repository.TransactionRepository
	ids          *ids.Generator
	events       Events
	notifier     BalanceNotifier
	log          *zap.Logger
}

func New(users repository.UserRepository, transactions repository.TransactionRepository, gen *ids.Generator, events Events, notifier BalanceNotifier, log *zap.Logger) *Service {
	return &Service{
		users:        users,
		transactions: transactions,
		ids:          gen,
		events:       events,
		notifier:     notifier,
		log:          log,
	}
}

// Submit moves amount USD from the caller's wallet to the recipient's.
// The recipient identifier is an email (case-insensitive exact match) or a
// raw user id. Debit, credit and both ledger records commit atomically;
// any failure leaves both balances untouched.
func (s *Service) Submit(ctx context.Context, callerID, recipientIdentifier string, amount decimal.Decimal) (*Pair, error) {
	if !amount.IsPositive() {
		return nil, xerrors.ErrInvalidAmount
	}

	ident := strings.TrimSpace(recipientIdentifier)
	if ident == "" {
		return nil, xerrors.ErrInvalidRequest
	}

	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	// Self-transfer is rejected before any recipient lookup.
	if ident == callerID || strings.EqualFold(ident, caller.Email) {
		return nil, xerrors.ErrSelfTransfer
	}

	recipient, err := s.resolveRecipient(ctx, ident)
	if err != nil {
		return nil, err
	}
	if recipient.ID == callerID {
		return nil, xerrors.ErrSelfTransfer
	}

	// Optimistic check; the authoritative one happens under the row lock.
	if caller.Balance.LessThan(amount) {
		return nil, xerrors.ErrInsufficientFunds
	}

	pair, senderBalance, recipientBalance, err := s.commit(ctx, caller, recipient, amount)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.TransactionCompleted(ctx, pair.Sender)
	}
	if s.notifier != nil {
		s.notifier.NotifyBalance(caller.ID, senderBalance)
		s.notifier.NotifyBalance(recipient.ID, recipientBalance)
	}

	return pair, nil
}

func (s *Service) resolveRecipient(ctx context.Context, ident string) (*domain.User, error) {
	var (
		recipient *domain.User
		err       error
	)
	if strings.Contains(ident, "@") {
		recipient, err = s.users.GetByEmail(ctx, ident)
	} else {
		recipient, err = s.users.GetByID(ctx, ident)
	}
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrRecipientNotFound
		}
		return nil, err
	}
	return recipient, nil
}

func (s *Service) commit(ctx context.Context, sender, recipient *domain.User, amount decimal.Decimal) (*Pair, decimal.Decimal, decimal.Decimal, error) {
	tx, err := s.users.BeginTx(ctx)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, fmt.Errorf("failed to begin transfer: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock both rows in stable id order so two opposite concurrent
	// transfers cannot deadlock.
	first, second := sender.ID, recipient.ID
	if second < first {
		first, second = second, first
	}
	balances := make(map[string]decimal.Decimal, 2)
	for _, id := range []string{first, second} {
		bal, err := s.users.GetBalanceForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, xerrors.ErrNotFound) && id == recipient.ID {
				return nil, decimal.Zero, decimal.Zero, xerrors.ErrRecipientNotFound
			}
			return nil, decimal.Zero, decimal.Zero, err
		}
		balances[id] = bal
	}

	senderBalance := balances[sender.ID]
	if senderBalance.LessThan(amount) {
		return nil, decimal.Zero, decimal.Zero, xerrors.ErrInsufficientFunds
	}

	newSenderBalance := senderBalance.Sub(amount)
	newRecipientBalance := balances[recipient.ID].Add(amount)

	if err := s.users.SetBalance(ctx, tx, sender.ID, newSenderBalance); err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	if err := s.users.SetBalance(ctx, tx, recipient.ID, newRecipientBalance); err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}

	now := time.Now()
	parties := domain.TransferParties{
		SenderID:       sender.ID,
		SenderEmail:    sender.Email,
		RecipientID:    recipient.ID,
		RecipientEmail: recipient.Email,
	}
	pair := &Pair{
		Sender:    domain.NewWalletTransfer(s.ids.New(), sender.ID, amount, parties, now),
		Recipient: domain.NewWalletTransfer(s.ids.New(), recipient.ID, amount, parties, now),
	}

	if err := s.transactions.CreateInTx(ctx, tx, pair.Sender); err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	if err := s.transactions.CreateInTx(ctx, tx, pair.Recipient); err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		if xerrors.IsSerializationFailure(err) {
			s.log.Warn("transfer hit write conflict",
				zap.String("sender", sender.ID), zap.String("recipient", recipient.ID))
		}
		return nil, decimal.Zero, decimal.Zero, fmt.Errorf("failed to commit transfer: %w", err)
	}

	return pair, newSenderBalance, newRecipientBalance, nil
}
