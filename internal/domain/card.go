package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CardApplicationStatus string

const (
	CardPending  CardApplicationStatus = "Pending"
	CardApproved CardApplicationStatus = "Approved"
	CardRejected CardApplicationStatus = "Rejected"
)

// CardApplication is one-per-user. Card fields are set only on approval.
type CardApplication struct {
	ID        string                `json:"id"`
	UserID    string                `json:"user_id"`
	Status    CardApplicationStatus `json:"status"`
	FullName  string                `json:"full_name"`
	Phone     string                `json:"phone"`
	Address   string                `json:"address"`

	CardNumber   *string `json:"card_number,omitempty"`
	CardExpiry   *string `json:"card_expiry,omitempty"`
	CardCVC      *string `json:"card_cvc,omitempty"`
	IssuerSuffix *string `json:"issuer_suffix,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}

// CardTransaction is one row of the external card-transactions feed.
// Read-only; never written by this service.
type CardTransaction struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Merchant string          `json:"merchant"`
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
	Status   string          `json:"status"`
}
