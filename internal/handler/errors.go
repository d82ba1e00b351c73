package handler

import (
	"errors"
	"net/http"

	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/response"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/xerrors"
)

// writeError maps the error taxonomy onto HTTP statuses. Anything
// unrecognized is reported as a generic failure; transient store errors
// are retried at the caller's discretion, never automatically here.
func writeError(w http.ResponseWriter, err error) {
	var lv *xerrors.LimitViolationError
	if errors.As(err, &lv) {
		response.Error(w, http.StatusUnprocessableEntity, lv.Error())
		return
	}

	switch {
	case errors.Is(err, xerrors.ErrInvalidAmount),
		errors.Is(err, xerrors.ErrInvalidRequest),
		errors.Is(err, xerrors.ErrSelfTransfer),
		errors.Is(err, xerrors.ErrMissingReference),
		errors.Is(err, xerrors.ErrUnknownMethod),
		errors.Is(err, xerrors.ErrInvalidTransition):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, xerrors.ErrInsufficientFunds):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, xerrors.ErrRecipientNotFound),
		errors.Is(err, xerrors.ErrTransactionNotFound),
		errors.Is(err, xerrors.ErrApplicationNotFound),
		errors.Is(err, xerrors.ErrNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, xerrors.ErrApplicationExists),
		errors.Is(err, xerrors.ErrApplicationDecided):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, xerrors.ErrForbidden):
		response.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, xerrors.ErrUnauthorized):
		response.Error(w, http.StatusUnauthorized, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "operation failed, please try again")
	}
}
