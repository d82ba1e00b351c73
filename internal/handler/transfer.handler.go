package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/middleware"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/response"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/transfer"

	"github.com/shopspring/decimal"
)

func TransferHandler(uc *transfer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Recipient string `json:"recipient"`
			Amount    string `json:"amount"`
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

		pair, err := uc.Submit(r.Context(), middleware.UserID(r.Context()), body.Recipient, amount)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusCreated, pair)
	}
}
