package exchange

import (
	"context"
	"errors"
	"fmt"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/xerrors"

	"github.com/shopspring/decimal"
)

// RateSource and LimitSource are satisfied by the repositories (optionally
// wrapped in the Redis cache, see cache.go).
type RateSource interface {
	GetRate(ctx context.Context, base, quote domain.Currency) (*domain.ExchangeRate, error)
}

type LimitSource interface {
	GetLimit(ctx context.Context, fromMethod, toMethod string) (*domain.ExchangeLimit, error)
}

// Defaults carries the fallback configuration. Injected explicitly; the
// resolver holds no package-level state.
type Defaults struct {
	USDToBDT      decimal.Decimal
	BDTToUSD      decimal.Decimal
	MinReceiveUSD decimal.Decimal
}

type Service struct {
	rates    RateSource
	limits   LimitSource
	defaults Defaults
}

func New(rates RateSource, limits LimitSource, defaults Defaults) *Service {
	return &Service{rates: rates, limits: limits, defaults: defaults}
}

var oneHundred = decimal.NewFromInt(100)

// Quote resolves the paired amount, fee and effective rate for an
// exchange. amount is the value of whichever side was edited; the other
// side is always derived. Non-positive amounts resolve to a zero quote,
// not an error.
func (s *Service) Quote(ctx context.Context, sourceMethod, destMethod string, amount decimal.Decimal, edited domain.EditedSide) (domain.Quote, error) {
	src, ok := domain.MethodByID(sourceMethod)
	if !ok {
		return domain.Quote{}, xerrors.ErrUnknownMethod
	}
	dst, ok := domain.MethodByID(destMethod)
	if !ok {
		return domain.Quote{}, xerrors.ErrUnknownMethod
	}

	if !amount.IsPositive() {
		return domain.Quote{}, nil
	}

	feePct := src.FeePercent.Div(oneHundred)

	if edited == domain.EditedDestination {
		// Invert: the edited value is the destination amount.
		gross, rate, err := s.convert(ctx, amount, dst.Currency, src.Currency)
		if err != nil {
			return domain.Quote{}, err
		}
		sourceAmount := gross.Div(decimal.NewFromInt(1).Sub(feePct))
		fee := sourceAmount.Mul(feePct)
		return domain.Quote{
			Amount:        sourceAmount.Round(2),
			CounterAmount: amount.Round(2),
			Fee:           fee.Round(2),
			Rate:          rate,
			RateText:      rateText(src.Currency, dst.Currency, rate),
		}, nil
	}

	fee := amount.Mul(feePct)
	net := amount.Sub(fee)
	counter, rate, err := s.convert(ctx, net, src.Currency, dst.Currency)
	if err != nil {
		return domain.Quote{}, err
	}
	return domain.Quote{
		Amount:        amount.Round(2),
		CounterAmount: counter.Round(2),
		Fee:           fee.Round(2),
		Rate:          rate,
		RateText:      rateText(src.Currency, dst.Currency, rate),
	}, nil
}

// convert applies the directional conversion table: USD->BDT multiplies by
// the USD_TO_BDT rate, BDT->USD divides by the BDT_TO_USD rate. The two
// rates are independently configured, not reciprocals. Returns the rate
// used alongside the converted value.
func (s *Service) convert(ctx context.Context, v decimal.Decimal, from, to domain.Currency) (decimal.Decimal, decimal.Decimal, error) {
	if from == to {
		return v, decimal.NewFromInt(1), nil
	}

	switch {
	case from == domain.CurrencyUSD && to == domain.CurrencyBDT:
		rate, err := s.lookupRate(ctx, domain.CurrencyUSD, domain.CurrencyBDT, s.defaults.USDToBDT)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		return v.Mul(rate), rate, nil
	case from == domain.CurrencyBDT && to == domain.CurrencyUSD:
		rate, err := s.lookupRate(ctx, domain.CurrencyBDT, domain.CurrencyUSD, s.defaults.BDTToUSD)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		return v.Div(rate), rate, nil
	}
	return decimal.Zero, decimal.Zero, fmt.Errorf("unsupported currency pair %s->%s", from, to)
}

func (s *Service) lookupRate(ctx context.Context, base, quote domain.Currency, fallback decimal.Decimal) (decimal.Decimal, error) {
	row, err := s.rates.GetRate(ctx, base, quote)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return fallback, nil
		}
		return decimal.Zero, err
	}
	return row.Rate, nil
}

// rateText renders the admin-facing description of the rate used. Cross
// rates are always expressed as BDT per USD, matching how they are
// configured.
func rateText(from, to domain.Currency, rate decimal.Decimal) string {
	if from == to {
		return fmt.Sprintf("1 %s = 1 %s", from, to)
	}
	return fmt.Sprintf("1 USD = %s BDT", rate.String())
}
