package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxWalletTransfer TransactionType = "WALLET_TRANSFER"
	TxAddFunds       TransactionType = "ADD_FUNDS"
	TxCardTopUp      TransactionType = "CARD_TOP_UP"
	TxExchange       TransactionType = "EXCHANGE"
)

type TransactionStatus string

const (
	StatusPending    TransactionStatus = "Pending"
	StatusProcessing TransactionStatus = "Processing"
	StatusPaid       TransactionStatus = "Paid"
	StatusCompleted  TransactionStatus = "Completed"
	StatusCancelled  TransactionStatus = "Cancelled"
	StatusRejected   TransactionStatus = "Rejected"
)

// statusTransitions is the allowed status lattice. Completed, Cancelled and
// Rejected are terminal.
var statusTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:    {StatusProcessing, StatusPaid, StatusCompleted, StatusCancelled, StatusRejected},
	StatusProcessing: {StatusPaid, StatusCompleted, StatusCancelled, StatusRejected},
	StatusPaid:       {StatusCompleted, StatusCancelled, StatusRejected},
}

func CanTransition(from, to TransactionStatus) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transaction is one append-only ledger entry. Only Status and AdminNote
// change after creation. Variant fields are pointers; the typed
// constructors below are the only creation sites and enforce the fields
// each variant requires.
type Transaction struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	Type           TransactionType   `json:"type"`
	Method         string            `json:"method"`
	DestMethod     string            `json:"dest_method"`
	SentAmount     decimal.Decimal   `json:"sent_amount"`
	SentCurrency   Currency          `json:"sent_currency"`
	ReceivedAmount decimal.Decimal   `json:"received_amount"`
	Fee            decimal.Decimal   `json:"fee"`
	Status         TransactionStatus `json:"status"`

	// External attestation, funding variants only.
	SendingAccount *string `json:"sending_account,omitempty"`
	ExternalTxID   *string `json:"external_tx_id,omitempty"`

	// Transfer variants only; mirrored on both records of a pair.
	SenderID       *string `json:"sender_id,omitempty"`
	SenderEmail    *string `json:"sender_email,omitempty"`
	RecipientID    *string `json:"recipient_id,omitempty"`
	RecipientEmail *string `json:"recipient_email,omitempty"`

	AdminNote *string   `json:"admin_note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransferParties identifies both sides of a wallet transfer.
type TransferParties struct {
	SenderID       string
	SenderEmail    string
	RecipientID    string
	RecipientEmail string
}

// NewWalletTransfer builds one side of a transfer pair. Transfers move
// funds within the ledger, so they are created directly Completed.
func NewWalletTransfer(id, ownerID string, amount decimal.Decimal, p TransferParties, now time.Time) *Transaction {
	return &Transaction{
		ID:             id,
		UserID:         ownerID,
		Type:           TxWalletTransfer,
		Method:         MethodWallet,
		DestMethod:     MethodWallet,
		SentAmount:     amount,
		SentCurrency:   CurrencyUSD,
		ReceivedAmount: amount,
		Fee:            decimal.Zero,
		Status:         StatusCompleted,
		SenderID:       &p.SenderID,
		SenderEmail:    &p.SenderEmail,
		RecipientID:    &p.RecipientID,
		RecipientEmail: &p.RecipientEmail,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NewAddFunds builds an external-method funding record. It stays Pending
// until an admin settles it manually.
func NewAddFunds(id, ownerID, sourceMethod string, q Quote, sourceCurrency Currency, sendingAccount, externalTxID string, now time.Time) *Transaction {
	return &Transaction{
		ID:             id,
		UserID:         ownerID,
		Type:           TxAddFunds,
		Method:         sourceMethod,
		DestMethod:     MethodWallet,
		SentAmount:     q.Amount,
		SentCurrency:   sourceCurrency,
		ReceivedAmount: q.CounterAmount,
		Fee:            q.Fee,
		Status:         StatusPending,
		SendingAccount: &sendingAccount,
		ExternalTxID:   &externalTxID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NewCardTopUp builds a wallet-sourced card top-up record. The wallet is
// debited atomically with the insert; the record stays Pending until an
// admin marks the card funded.
func NewCardTopUp(id, ownerID string, q Quote, now time.Time) *Transaction {
	return &Transaction{
		ID:             id,
		UserID:         ownerID,
		Type:           TxCardTopUp,
		Method:         MethodWallet,
		DestMethod:     MethodCard,
		SentAmount:     q.Amount,
		SentCurrency:   CurrencyUSD,
		ReceivedAmount: q.CounterAmount,
		Fee:            q.Fee,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
