package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a directional conversion rate. USD->BDT and BDT->USD are
// two independent admin-set rows, not reciprocals.
type ExchangeRate struct {
	BaseCurrency  Currency        `json:"base_currency"`
	QuoteCurrency Currency        `json:"quote_currency"`
	Rate          decimal.Decimal `json:"rate"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ExchangeLimit bounds the amount for an exact directional method pair,
// expressed in the source method's currency.
type ExchangeLimit struct {
	FromMethod string          `json:"from_method"`
	ToMethod   string          `json:"to_method"`
	MinAmount  decimal.Decimal `json:"min_amount"`
	MaxAmount  decimal.Decimal `json:"max_amount"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type EditedSide string

const (
	EditedSource      EditedSide = "source"
	EditedDestination EditedSide = "destination"
)

// Quote is the resolved pair of amounts for an exchange. Amount is always
// the source-side amount and CounterAmount the destination-side amount,
// whichever side was edited.
type Quote struct {
	Amount        decimal.Decimal `json:"amount"`
	CounterAmount decimal.Decimal `json:"counter_amount"`
	Fee           decimal.Decimal `json:"fee"`
	Rate          decimal.Decimal `json:"rate"`
	RateText      string          `json:"rate_text"`
}

// IsZero reports whether the quote degraded to empty output
// (non-positive or unparseable input).
func (q Quote) IsZero() bool {
	return q.Amount.IsZero() && q.CounterAmount.IsZero() && q.Fee.IsZero()
}

type LimitStatus string

const (
	LimitOK             LimitStatus = "OK"
	LimitBelowMin       LimitStatus = "BELOW_MIN"
	LimitAboveMax       LimitStatus = "ABOVE_MAX"
	LimitNoneConfigured LimitStatus = "NO_LIMIT_CONFIGURED"
)

// LimitCheck carries the violated bound so callers can render a precise
// message.
type LimitCheck struct {
	Status LimitStatus     `json:"status"`
	Bound  decimal.Decimal `json:"bound,omitempty"`
}

func (c LimitCheck) OK() bool {
	return c.Status == LimitOK || c.Status == LimitNoneConfigured
}
