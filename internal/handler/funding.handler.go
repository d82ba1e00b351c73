package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/middleware"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/response"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/funding"

	"github.com/shopspring/decimal"
)

func FundingHandler(uc *funding.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SourceMethod   string `json:"source_method"`
			Amount         string `json:"amount"`
			SendingAccount string `json:"sending_account"`
			ExternalTxID   string `json:"external_tx_id"`
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

		rec, err := uc.SubmitFunding(r.Context(), middleware.UserID(r.Context()), body.SourceMethod, amount, funding.ExternalRef{
			SendingAccount: body.SendingAccount,
			ExternalTxID:   body.ExternalTxID,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusCreated, rec)
	}
}

func WalletTopUpHandler(uc *funding.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Amount string `json:"amount"`
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

		rec, err := uc.SubmitWalletTopUp(r.Context(), middleware.UserID(r.Context()), amount)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusCreated, rec)
	}
}
