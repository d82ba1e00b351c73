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

type RateRepository interface {
	GetRate(ctx context.Context, base, quote domain.Currency) (*domain.ExchangeRate, error)
	UpsertRate(ctx context.Context, base, quote domain.Currency, rate decimal.Decimal) (*domain.ExchangeRate, error)
	ListRates(ctx context.Context) ([]*domain.ExchangeRate, error)
}

type rateRepo struct {
	db *pgxpool.Pool
}

func NewRateRepo(db *pgxpool.Pool) RateRepository {
	return &rateRepo{db: db}
}

func (r *rateRepo) GetRate(ctx context.Context, base, quote domain.Currency) (*domain.ExchangeRate, error) {
	var rate domain.ExchangeRate
	err := r.db.QueryRow(ctx, `
		SELECT base_currency, quote_currency, rate, updated_at
		FROM exchange_rates
		WHERE base_currency = $1 AND quote_currency = $2`,
		base, quote).Scan(&rate.BaseCurrency, &rate.QuoteCurrency, &rate.Rate, &rate.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get exchange rate: %w", err)
	}
	return &rate, nil
}

func (r *rateRepo) UpsertRate(ctx context.Context, base, quote domain.Currency, value decimal.Decimal) (*domain.ExchangeRate, error) {
	var rate domain.ExchangeRate
	err := r.db.QueryRow(ctx, `
		INSERT INTO exchange_rates (base_currency, quote_currency, rate, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (base_currency, quote_currency) DO UPDATE
		SET rate = EXCLUDED.rate,
		    updated_at = EXCLUDED.updated_at
		RETURNING base_currency, quote_currency, rate, updated_at`,
		base, quote, value).Scan(&rate.BaseCurrency, &rate.QuoteCurrency, &rate.Rate, &rate.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert exchange rate: %w", err)
	}
	return &rate, nil
}

func (r *rateRepo) ListRates(ctx context.Context) ([]*domain.ExchangeRate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT base_currency, quote_currency, rate, updated_at
		FROM exchange_rates
		ORDER BY base_currency, quote_currency`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []*domain.ExchangeRate
	for rows.Next() {
		var rate domain.ExchangeRate
		if err := rows.Scan(&rate.BaseCurrency, &rate.QuoteCurrency, &rate.Rate, &rate.UpdatedAt); err != nil {
			return nil, err
		}
		rates = append(rates, &rate)
	}
	return rates, rows.Err()
}
