package exchange

import (
	"context"
	"errors"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/xerrors"

	"github.com/shopspring/decimal"
)

// CheckLimit gates an amount against the configured bounds for the exact
// directional method pair. The comparison always uses the raw
// source-currency amount. An absent row yields NO_LIMIT_CONFIGURED; the
// engines apply one shared fallback policy (see CheckDefaultReceive).
func (s *Service) CheckLimit(ctx context.Context, fromMethod, toMethod string, amount decimal.Decimal) (domain.LimitCheck, error) {
	if _, ok := domain.MethodByID(fromMethod); !ok {
		return domain.LimitCheck{}, xerrors.ErrUnknownMethod
	}
	if _, ok := domain.MethodByID(toMethod); !ok {
		return domain.LimitCheck{}, xerrors.ErrUnknownMethod
	}

	limit, err := s.limits.GetLimit(ctx, fromMethod, toMethod)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return domain.LimitCheck{Status: domain.LimitNoneConfigured}, nil
		}
		return domain.LimitCheck{}, err
	}

	if amount.LessThan(limit.MinAmount) {
		return domain.LimitCheck{Status: domain.LimitBelowMin, Bound: limit.MinAmount}, nil
	}
	if limit.MaxAmount.IsPositive() && amount.GreaterThan(limit.MaxAmount) {
		return domain.LimitCheck{Status: domain.LimitAboveMax, Bound: limit.MaxAmount}, nil
	}
	return domain.LimitCheck{Status: domain.LimitOK}, nil
}

// CheckDefaultReceive is the unified no-limit-configured policy for
// funding flows: the received amount must be at least the configured USD
// minimum. Returns BELOW_MIN with the bound when violated.
func (s *Service) CheckDefaultReceive(receivedUSD decimal.Decimal) domain.LimitCheck {
	if receivedUSD.LessThan(s.defaults.MinReceiveUSD) {
		return domain.LimitCheck{Status: domain.LimitBelowMin, Bound: s.defaults.MinReceiveUSD}
	}
	return domain.LimitCheck{Status: domain.LimitOK}
}
