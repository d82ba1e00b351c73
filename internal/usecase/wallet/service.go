package wallet

import (
	"context"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"
	"github.com/shahmubaruk05/wallet-exchange/internal/repository"
)

// Service serves read-side wallet queries: the current balance and the
// per-user transaction history.
type Service struct {
	users        repository.UserRepository
	transactions repository.TransactionRepository
	Notifier     *Notifier
}

func New(users repository.UserRepository, transactions repository.TransactionRepository, notifier *Notifier) *Service {
	return &Service{
		users:        users,
		transactions: transactions,
		Notifier:     notifier,
	}
}

func (s *Service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) ListTransactions(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	return s.transactions.ListByUser(ctx, userID)
}
