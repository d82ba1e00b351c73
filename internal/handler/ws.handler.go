package handler

import (
	"log"
	"net/http"

	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/response"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/wallet"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WalletWSHandler streams balance updates for one user. The connection
// receives the current balance on open and a balance_update message
// after every committed mutation.
func WalletWSHandler(uc *wallet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "WebSocket upgrade failed")
			return
		}

		uc.Notifier.RegisterConnection(userID, conn)
		defer uc.Notifier.UnregisterConnection(userID, conn)

		if user, err := uc.GetUser(r.Context(), userID); err == nil {
			uc.Notifier.NotifyBalance(user.ID, user.Balance)
		} else {
			log.Printf("Error loading wallet for %s: %v", userID, err)
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.Printf("Client %s disconnected: %v", userID, err)
				break
			}
		}
	}
}
