package admin

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/xerrors"
	"github.com/shahmubaruk05/wallet-exchange/internal/repository"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/exchange"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Events interface {
	TransactionCompleted(ctx context.Context, t *domain.Transaction)
}

type BalanceNotifier interface {
	NotifyBalance(userID string, balance decimal.Decimal)
}

type Service struct {
	users        repository.UserRepository
	transactions repository.TransactionRepository
	rates        repository.RateRepository
	limits       repository.LimitRepository
	cards        repository.CardRepository

	rateCache  *exchange.CachedRates
	limitCache *exchange.CachedLimits

	events   Events
	notifier BalanceNotifier
	log      *zap.Logger
}

func New(
	users repository.UserRepository,
	transactions repository.TransactionRepository,
	rates repository.RateRepository,
	limits repository.LimitRepository,
	cards repository.CardRepository,
	rateCache *exchange.CachedRates,
	limitCache *exchange.CachedLimits,
	events Events,
	notifier BalanceNotifier,
	log *zap.Logger,
) *Service {
	return &Service{
		users:        users,
		transactions: transactions,
		rates:        rates,
		limits:       limits,
		cards:        cards,
		rateCache:    rateCache,
		limitCache:   limitCache,
		events:       events,
		notifier:     notifier,
		log:          log,
	}
}

func (s *Service) requireAdmin(ctx context.Context, adminID string) error {
	u, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if u.Role != domain.RoleAdmin {
		return xerrors.ErrForbidden
	}
	return nil
}

// SetTransactionStatus moves a transaction through the status lattice.
// Completing an ADD_FUNDS record credits the owner's wallet in the same
// database transaction as the status flip, so settlement and credit
// cannot diverge.
func (s *Service) SetTransactionStatus(ctx context.Context, adminID, txID string, newStatus domain.TransactionStatus, note *string) (*domain.Transaction, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	tx, err := s.transactions.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin status update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rec, err := s.transactions.GetByIDForUpdate(ctx, tx, txID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(rec.Status, newStatus) {
		return nil, xerrors.ErrInvalidTransition
	}

	if err := s.transactions.UpdateStatus(ctx, tx, txID, newStatus, note); err != nil {
		return nil, err
	}

	var creditedBalance *decimal.Decimal
	if newStatus == domain.StatusCompleted && rec.Type == domain.TxAddFunds {
		balance, err := s.users.GetBalanceForUpdate(ctx, tx, rec.UserID)
		if err != nil {
			return nil, err
		}
		updated := balance.Add(rec.ReceivedAmount)
		if err := s.users.SetBalance(ctx, tx, rec.UserID, updated); err != nil {
			return nil, err
		}
		creditedBalance = &updated
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}

	rec.Status = newStatus
	if note != nil {
		rec.AdminNote = note
	}

	if newStatus == domain.StatusCompleted && s.events != nil {
		s.events.TransactionCompleted(ctx, rec)
	}
	if creditedBalance != nil && s.notifier != nil {
		s.notifier.NotifyBalance(rec.UserID, *creditedBalance)
	}

	s.log.Info("transaction status updated",
		zap.String("transaction", txID),
		zap.String("status", string(newStatus)),
		zap.String("admin", adminID))

	return rec, nil
}

// SetRate replaces the directional rate row and drops the cached copy.
func (s *Service) SetRate(ctx context.Context, adminID string, base, quote domain.Currency, rate decimal.Decimal) (*domain.ExchangeRate, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if !rate.IsPositive() {
		return nil, xerrors.ErrInvalidAmount
	}

	row, err := s.rates.UpsertRate(ctx, base, quote, rate)
	if err != nil {
		return nil, err
	}
	if s.rateCache != nil {
		s.rateCache.Invalidate(ctx, base, quote)
	}
	return row, nil
}

// SetLimit replaces the bounds for a directional method pair.
func (s *Service) SetLimit(ctx context.Context, adminID, fromMethod, toMethod string, min, max decimal.Decimal) (*domain.ExchangeLimit, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if _, ok := domain.MethodByID(fromMethod); !ok {
		return nil, xerrors.ErrUnknownMethod
	}
	if _, ok := domain.MethodByID(toMethod); !ok {
		return nil, xerrors.ErrUnknownMethod
	}
	if min.IsNegative() || max.LessThan(min) {
		return nil, xerrors.ErrInvalidRequest
	}

	row, err := s.limits.UpsertLimit(ctx, fromMethod, toMethod, min, max)
	if err != nil {
		return nil, err
	}
	if s.limitCache != nil {
		s.limitCache.Invalidate(ctx, fromMethod, toMethod)
	}
	return row, nil
}

// ListTransactions is the global admin view of the ledger.
func (s *Service) ListTransactions(ctx context.Context, adminID string, limit int) ([]*domain.Transaction, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.transactions.ListAll(ctx, limit)
}

// DecideCardApplication approves or rejects a pending application.
// Approval issues the card fields.
func (s *Service) DecideCardApplication(ctx context.Context, adminID, applicationID string, approve bool) (*domain.CardApplication, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	app, err := s.cards.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.CardPending {
		return nil, xerrors.ErrApplicationDecided
	}

	if approve {
		app.Status = domain.CardApproved
		number := generateCardNumber()
		expiry := time.Now().AddDate(3, 0, 0).Format("01/06")
		cvc := randomDigits(3)
		suffix := number[len(number)-4:]
		app.CardNumber = &number
		app.CardExpiry = &expiry
		app.CardCVC = &cvc
		app.IssuerSuffix = &suffix
	} else {
		app.Status = domain.CardRejected
	}

	if err := s.cards.Decide(ctx, app); err != nil {
		return nil, err
	}

	s.log.Info("card application decided",
		zap.String("application", applicationID),
		zap.String("status", string(app.Status)),
		zap.String("admin", adminID))

	return app, nil
}

func generateCardNumber() string {
	return randomDigits(16)
}

func randomDigits(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = '0' + b[i]%10
	}
	return string(b)
}
