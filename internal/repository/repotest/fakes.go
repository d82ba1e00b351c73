// Package repotest provides in-memory fakes of the repository interfaces
// with commit/rollback semantics, so usecase tests can exercise the
// atomic-commit paths without a database.
package repotest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Ledger is the shared in-memory state. UserRepo and TxRepo are views
// over the same ledger so a transfer's debit, credit and record inserts
// land in one staged transaction, exactly like the real pgx repos.
type Ledger struct {
	mu           sync.Mutex
	Users        map[string]*domain.User
	Transactions []*domain.Transaction

	// BeforeLock runs before a locked balance read; tests use it to
	// mutate state between the optimistic and authoritative checks.
	BeforeLock func(userID string)
}

func NewLedger(users ...*domain.User) *Ledger {
	l := &Ledger{Users: make(map[string]*domain.User)}
	for _, u := range users {
		l.Users[u.ID] = u
	}
	return l
}

func (l *Ledger) UserRepo() *UserRepo { return &UserRepo{l} }
func (l *Ledger) TxRepo() *TxRepo     { return &TxRepo{l} }

func (l *Ledger) Balance(userID string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Users[userID].Balance
}

func (l *Ledger) RecordsFor(userID string) []*domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*domain.Transaction
	for _, t := range l.Transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

// fakeTx stages mutations until Commit. The embedded pgx.Tx is nil; only
// Commit and Rollback are ever invoked on it by the usecases.
type fakeTx struct {
	pgx.Tx
	ledger   *Ledger
	balances map[string]decimal.Decimal
	inserts  []*domain.Transaction
	statuses map[string]statusChange
	done     bool
}

type statusChange struct {
	status domain.TransactionStatus
	note   *string
}

func (l *Ledger) newTx() *fakeTx {
	return &fakeTx{
		ledger:   l,
		balances: make(map[string]decimal.Decimal),
		statuses: make(map[string]statusChange),
	}
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.ledger.mu.Lock()
	defer t.ledger.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	for id, bal := range t.balances {
		t.ledger.Users[id].Balance = bal
	}
	t.ledger.Transactions = append(t.ledger.Transactions, t.inserts...)
	for id, ch := range t.statuses {
		for _, rec := range t.ledger.Transactions {
			if rec.ID == id {
				rec.Status = ch.status
				if ch.note != nil {
					rec.AdminNote = ch.note
				}
				rec.UpdatedAt = time.Now()
			}
		}
	}
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.done = true
	return nil
}

// UserRepo implements repository.UserRepository.
type UserRepo struct {
	l *Ledger
}

func (r *UserRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.l.newTx(), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	u, ok := r.l.Users[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	for _, u := range r.l.Users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *UserRepo) GetBalanceForUpdate(ctx context.Context, tx pgx.Tx, userID string) (decimal.Decimal, error) {
	if r.l.BeforeLock != nil {
		r.l.BeforeLock(userID)
	}
	ft := tx.(*fakeTx)
	if bal, ok := ft.balances[userID]; ok {
		return bal, nil
	}
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	u, ok := r.l.Users[userID]
	if !ok {
		return decimal.Zero, xerrors.ErrNotFound
	}
	return u.Balance, nil
}

func (r *UserRepo) SetBalance(ctx context.Context, tx pgx.Tx, userID string, balance decimal.Decimal) error {
	if balance.IsNegative() {
		return xerrors.ErrInsufficientFunds
	}
	r.l.mu.Lock()
	_, ok := r.l.Users[userID]
	r.l.mu.Unlock()
	if !ok {
		return xerrors.ErrNotFound
	}
	tx.(*fakeTx).balances[userID] = balance
	return nil
}

// TxRepo implements repository.TransactionRepository.
type TxRepo struct {
	l *Ledger
}

func (r *TxRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.l.newTx(), nil
}

func (r *TxRepo) Create(ctx context.Context, t *domain.Transaction) error {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	r.l.Transactions = append(r.l.Transactions, t)
	return nil
}

func (r *TxRepo) CreateInTx(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	ft := tx.(*fakeTx)
	ft.inserts = append(ft.inserts, t)
	return nil
}

func (r *TxRepo) lookupLocked(id string) (*domain.Transaction, error) {
	for _, t := range r.l.Transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, xerrors.ErrTransactionNotFound
}

func (r *TxRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	t, err := r.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	cp := *t
	return &cp, nil
}

func (r *TxRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r *TxRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	return r.l.RecordsFor(userID), nil
}

func (r *TxRepo) ListAll(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	out := make([]*domain.Transaction, len(r.l.Transactions))
	copy(out, r.l.Transactions)
	return out, nil
}

func (r *TxRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status domain.TransactionStatus, note *string) error {
	r.l.mu.Lock()
	_, err := r.lookupLocked(id)
	r.l.mu.Unlock()
	if err != nil {
		return err
	}
	tx.(*fakeTx).statuses[id] = statusChange{status: status, note: note}
	return nil
}
