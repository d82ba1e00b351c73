package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/response"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/exchange"

	"github.com/shopspring/decimal"
)

func QuoteHandler(uc *exchange.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SourceMethod string `json:"source_method"`
			DestMethod   string `json:"dest_method"`
			Amount       string `json:"amount"`
			EditedSide   string `json:"edited_side"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		edited := domain.EditedSource
		if body.EditedSide == string(domain.EditedDestination) {
			edited = domain.EditedDestination
		}

		// Bad numeric input degrades to an empty quote, not an error.
		amount, err := decimal.NewFromString(body.Amount)
		if err != nil {
			response.JSON(w, http.StatusOK, domain.Quote{})
			return
		}

		quote, err := uc.Quote(r.Context(), body.SourceMethod, body.DestMethod, amount, edited)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, quote)
	}
}

func ValidateLimitHandler(uc *exchange.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SourceMethod string `json:"source_method"`
			DestMethod   string `json:"dest_method"`
			Amount       string `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		amount, err := decimal.NewFromString(body.Amount)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "amount must be a number")
			return
		}

		check, err := uc.CheckLimit(r.Context(), body.SourceMethod, body.DestMethod, amount)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, check)
	}
}

func ListMethodsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, domain.ListMethods())
	}
}
