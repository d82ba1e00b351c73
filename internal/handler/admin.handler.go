package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/middleware"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/response"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/admin"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func AdminListTransactionsHandler(uc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		txs, err := uc.ListTransactions(r.Context(), middleware.UserID(r.Context()), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, txs)
	}
}

func AdminSetStatusHandler(uc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txID := chi.URLParam(r, "id")

		var body struct {
			Status string  `json:"status"`
			Note   *string `json:"note,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		rec, err := uc.SetTransactionStatus(r.Context(), middleware.UserID(r.Context()), txID,
			domain.TransactionStatus(body.Status), body.Note)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, rec)
	}
}

func AdminSetRateHandler(uc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			BaseCurrency  string `json:"base_currency"`
			QuoteCurrency string `json:"quote_currency"`
			Rate          string `json:"rate"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		rate, err := decimal.NewFromString(body.Rate)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "rate must be a number")
			return
		}

		row, err := uc.SetRate(r.Context(), middleware.UserID(r.Context()),
			domain.Currency(body.BaseCurrency), domain.Currency(body.QuoteCurrency), rate)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, row)
	}
}

func AdminSetLimitHandler(uc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			FromMethod string `json:"from_method"`
			ToMethod   string `json:"to_method"`
			MinAmount  string `json:"min_amount"`
			MaxAmount  string `json:"max_amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		min, err := decimal.NewFromString(body.MinAmount)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "min_amount must be a number")
			return
		}
		max, err := decimal.NewFromString(body.MaxAmount)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "max_amount must be a number")
			return
		}

		row, err := uc.SetLimit(r.Context(), middleware.UserID(r.Context()), body.FromMethod, body.ToMethod, min, max)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, row)
	}
}

func AdminDecideCardHandler(uc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appID := chi.URLParam(r, "id")

		var body struct {
			Approve bool `json:"approve"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		app, err := uc.DecideCardApplication(r.Context(), middleware.UserID(r.Context()), appID, body.Approve)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, app)
	}
}
