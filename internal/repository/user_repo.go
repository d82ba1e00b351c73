package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetBalanceForUpdate reads a balance under SELECT FOR UPDATE. Must be
	// called inside a transaction; concurrent operations on the same user
	// serialize on the row lock.
	GetBalanceForUpdate(ctx context.Context, tx pgx.Tx, userID string) (decimal.Decimal, error)
	SetBalance(ctx context.Context, tx pgx.Tx, userID string, balance decimal.Decimal) error

	BeginTx(ctx context.Context) (pgx.Tx, error)
}

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.db.BeginTx(ctx, pgx.TxOptions{})
}

const userColumns = `id, email, first_name, last_name, role, balance, created_at, updated_at`

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role,
		&u.Balance, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *userRepo) GetBalanceForUpdate(ctx context.Context, tx pgx.Tx, userID string) (decimal.Decimal, error) {
	if tx == nil {
		return decimal.Zero, errors.New("transaction cannot be nil for locked query")
	}

	var balance decimal.Decimal
	err := tx.QueryRow(ctx,
		`SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, xerrors.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to get balance with lock: %w", err)
	}
	return balance, nil
}

func (r *userRepo) SetBalance(ctx context.Context, tx pgx.Tx, userID string, balance decimal.Decimal) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}
	if balance.IsNegative() {
		return xerrors.ErrInsufficientFunds
	}

	tag, err := tx.Exec(ctx,
		`UPDATE users SET balance = $1, updated_at = NOW() WHERE id = $2`,
		balance, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
