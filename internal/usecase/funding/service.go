package funding

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
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/exchange"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Events interface {
	TransactionCreated(ctx context.Context, t *domain.Transaction)
}

type BalanceNotifier interface {
	NotifyBalance(userID string, balance decimal.Decimal)
}

// ExternalRef is the user's attestation of an external payment: the
// account the money was sent from and the provider's transaction id.
type ExternalRef struct {
	SendingAccount string
	ExternalTxID   string
}

type Service struct {
	users        repository.UserRepository
	transactions repository.TransactionRepository
	exchange     *exchange.Service
	ids          *ids.Generator
	events       Events
	notifier     BalanceNotifier
	log          *zap.Logger
}

func New(users repository.UserRepository, transactions repository.TransactionRepository, ex *exchange.Service, gen *ids.Generator, events Events, notifier BalanceNotifier, log *zap.Logger) *Service {
	return &Service{
		users:        users,
		transactions: transactions,
		exchange:     ex,
		ids:          gen,
		events:       events,
		notifier:     notifier,
		log:          log,
	}
}

// SubmitFunding records an external-method deposit in Pending state. The
// fee and received amount are recomputed here; client-cached values are
// never trusted. No balance moves until an admin settles the record.
func (s *Service) SubmitFunding(ctx context.Context, callerID, sourceMethod string, amount decimal.Decimal, ref ExternalRef) (*domain.Transaction, error) {
	method, ok := domain.MethodByID(sourceMethod)
	if !ok {
		return nil, xerrors.ErrUnknownMethod
	}
	if method.Category == domain.CategoryInternal || method.Category == domain.CategoryCard {
		return nil, xerrors.ErrInvalidRequest
	}
	if !amount.IsPositive() {
		return nil, xerrors.ErrInvalidAmount
	}
	if strings.TrimSpace(ref.SendingAccount) == "" || strings.TrimSpace(ref.ExternalTxID) == "" {
		return nil, xerrors.ErrMissingReference
	}

	if _, err := s.users.GetByID(ctx, callerID); err != nil {
		return nil, err
	}

	quote, err := s.exchange.Quote(ctx, sourceMethod, domain.MethodWallet, amount, domain.EditedSource)
	if err != nil {
		return nil, err
	}

	if err := s.gateLimit(ctx, sourceMethod, domain.MethodWallet, amount, quote.CounterAmount); err != nil {
		return nil, err
	}

	rec := domain.NewAddFunds(s.ids.New(), callerID, sourceMethod, quote, method.Currency,
		strings.TrimSpace(ref.SendingAccount), strings.TrimSpace(ref.ExternalTxID), time.Now())

	if err := s.transactions.Create(ctx, rec); err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.TransactionCreated(ctx, rec)
	}
	return rec, nil
}

// SubmitWalletTopUp debits the caller's wallet and records a Pending card
// top-up. The debit and the record commit atomically; a concurrent
// transfer cannot race the funds check past a stale balance.
func (s *Service) SubmitWalletTopUp(ctx context.Context, callerID string, amount decimal.Decimal) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, xerrors.ErrInvalidAmount
	}

	quote, err := s.exchange.Quote(ctx, domain.MethodWallet, domain.MethodCard, amount, domain.EditedSource)
	if err != nil {
		return nil, err
	}

	if err := s.gateLimit(ctx, domain.MethodWallet, domain.MethodCard, amount, quote.CounterAmount); err != nil {
		return nil, err
	}

	tx, err := s.users.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin top-up: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	balance, err := s.users.GetBalanceForUpdate(ctx, tx, callerID)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(amount) {
		return nil, xerrors.ErrInsufficientFunds
	}

	newBalance := balance.Sub(amount)
	if err := s.users.SetBalance(ctx, tx, callerID, newBalance); err != nil {
		return nil, err
	}

	rec := domain.NewCardTopUp(s.ids.New(), callerID, quote, time.Now())
	if err := s.transactions.CreateInTx(ctx, tx, rec); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		if xerrors.IsSerializationFailure(err) {
			s.log.Warn("top-up hit write conflict", zap.String("user", callerID))
		}
		return nil, fmt.Errorf("failed to commit top-up: %w", err)
	}

	if s.events != nil {
		s.events.TransactionCreated(ctx, rec)
	}
	if s.notifier != nil {
		s.notifier.NotifyBalance(callerID, newBalance)
	}
	return rec, nil
}

// gateLimit enforces the configured bounds for the pair using the raw
// source-currency amount. When no row is configured, the one shared
// fallback applies: the received USD amount must clear the default
// minimum.
func (s *Service) gateLimit(ctx context.Context, fromMethod, toMethod string, amount, receivedUSD decimal.Decimal) error {
	check, err := s.exchange.CheckLimit(ctx, fromMethod, toMethod, amount)
	if err != nil {
		return err
	}
	if check.Status == domain.LimitNoneConfigured {
		check = s.exchange.CheckDefaultReceive(receivedUSD)
	}
	if check.Status == domain.LimitBelowMin || check.Status == domain.LimitAboveMax {
		return &xerrors.LimitViolationError{Status: string(check.Status), Bound: check.Bound.String()}
	}
	return nil
}

// IsLimitViolation lets handlers distinguish limit failures from other
// validation errors.
func IsLimitViolation(err error) (*xerrors.LimitViolationError, bool) {
	var lv *xerrors.LimitViolationError
	if errors.As(err, &lv) {
		return lv, true
	}
	return nil, false
}
