package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type LimitRepository interface {
	// GetLimit looks up the unique row for the exact directional pair.
	GetLimit(ctx context.Context, fromMethod, toMethod string) (*domain.ExchangeLimit, error)
	UpsertLimit(ctx context.Context, fromMethod, toMethod string, min, max decimal.Decimal) (*domain.ExchangeLimit, error)
	ListLimits(ctx context.Context) ([]*domain.ExchangeLimit, error)
}

type limitRepo struct {
	db *pgxpool.Pool
}

func NewLimitRepo(db *pgxpool.Pool) LimitRepository {
	return &limitRepo{db: db}
}

func (r *limitRepo) GetLimit(ctx context.Context, fromMethod, toMethod string) (*domain.ExchangeLimit, error) {
	var l domain.ExchangeLimit
	err := r.db.QueryRow(ctx, `
		SELECT from_method, to_method, min_amount, max_amount, updated_at
		FROM exchange_limits
		WHERE from_method = $1 AND to_method = $2`,
		fromMethod, toMethod).Scan(&l.FromMethod, &l.ToMethod, &l.MinAmount, &l.MaxAmount, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get exchange limit: %w", err)
	}
	return &l, nil
}

func (r *limitRepo) UpsertLimit(ctx context.Context, fromMethod, toMethod string, min, max decimal.Decimal) (*domain.ExchangeLimit, error) {
	var l domain.ExchangeLimit
	err := r.db.QueryRow(ctx, `
		INSERT INTO exchange_limits (from_method, to_method, min_amount, max_amount, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (from_method, to_method) DO UPDATE
		SET min_amount = EXCLUDED.min_amount,
		    max_amount = EXCLUDED.max_amount,
		    updated_at = EXCLUDED.updated_at
		RETURNING from_method, to_method, min_amount, max_amount, updated_at`,
		fromMethod, toMethod, min, max).Scan(&l.FromMethod, &l.ToMethod, &l.MinAmount, &l.MaxAmount, &l.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert exchange limit: %w", err)
	}
	return &l, nil
}

func (r *limitRepo) ListLimits(ctx context.Context) ([]*domain.ExchangeLimit, error) {
	rows, err := r.db.Query(ctx, `
		SELECT from_method, to_method, min_amount, max_amount, updated_at
		FROM exchange_limits
		ORDER BY from_method, to_method`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var limits []*domain.ExchangeLimit
	for rows.Next() {
		var l domain.ExchangeLimit
		if err := rows.Scan(&l.FromMethod, &l.ToMethod, &l.MinAmount, &l.MaxAmount, &l.UpdatedAt); err != nil {
			return nil, err
		}
		limits = append(limits, &l)
	}
	return limits, rows.Err()
}
