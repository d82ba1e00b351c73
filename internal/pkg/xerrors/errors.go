package xerrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
)

// Ledger / transfer
var (
	ErrInvalidAmount     = errors.New("amount must be a positive number")
	ErrSelfTransfer      = errors.New("cannot transfer to your own wallet")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownMethod     = errors.New("unknown payment method")
	ErrMissingReference  = errors.New("external reference required")
)

// Transaction lifecycle
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransition   = errors.New("status transition not allowed")
)

// Card applications
var (
	ErrApplicationExists   = errors.New("card application already submitted")
	ErrApplicationNotFound = errors.New("card application not found")
	ErrApplicationDecided  = errors.New("card application already decided")
)

// LimitViolationError carries the violated bound so callers can render a
// precise message.
type LimitViolationError struct {
	Status string
	Bound  string
}

func (e *LimitViolationError) Error() string {
	if e.Status == "BELOW_MIN" {
		return "amount is below the minimum of " + e.Bound
	}
	return "amount is above the maximum of " + e.Bound
}

func ParsePGErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code // e.g. 23505 for unique_violation
	}
	return "unknown"
}

// IsSerializationFailure reports whether err is a transient write conflict
// the caller may retry (40001 serialization_failure, 40P01 deadlock).
func IsSerializationFailure(err error) bool {
	code := ParsePGErrorCode(err)
	return code == "40001" || code == "40P01"
}
