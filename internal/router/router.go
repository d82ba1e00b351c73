package router

import (
	"github.com/shahmubaruk05/wallet-exchange/internal/cardfeed"
	"github.com/shahmubaruk05/wallet-exchange/internal/handler"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/middleware"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/admin"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/cards"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/exchange"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/funding"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/transfer"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/wallet"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Deps struct {
	Auth     *middleware.Auth
	Exchange *exchange.Service
	Transfer *transfer.Service
	Funding  *funding.Service
	Wallet   *wallet.Service
	Cards    *cards.Service
	Admin    *admin.Service
	CardFeed *cardfeed.Client
}

func New(d Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		// Quotes and limit checks are read-only and unauthenticated; the
		// forms recompute them on every input change.
		r.Get("/methods", handler.ListMethodsHandler())
		r.Post("/exchange/quote", handler.QuoteHandler(d.Exchange))
		r.Post("/exchange/validate", handler.ValidateLimitHandler(d.Exchange))

		r.Group(func(r chi.Router) {
			r.Use(d.Auth.Require)

			r.Get("/wallet", handler.WalletHandler(d.Wallet))
			r.Get("/transactions", handler.TransactionHistoryHandler(d.Wallet))

			r.Post("/transfers", handler.TransferHandler(d.Transfer))
			r.Post("/funding", handler.FundingHandler(d.Funding))
			r.Post("/topup/wallet", handler.WalletTopUpHandler(d.Funding))

			r.Post("/card/applications", handler.CardApplyHandler(d.Cards))
			r.Get("/card/applications/me", handler.CardApplicationHandler(d.Cards))
			r.Get("/card/transactions", handler.CardTransactionsHandler(d.CardFeed))
		})

		r.Group(func(r chi.Router) {
			r.Use(d.Auth.RequireAdmin)

			r.Get("/admin/transactions", handler.AdminListTransactionsHandler(d.Admin))
			r.Patch("/admin/transactions/{id}/status", handler.AdminSetStatusHandler(d.Admin))
			r.Put("/admin/rates", handler.AdminSetRateHandler(d.Admin))
			r.Put("/admin/limits", handler.AdminSetLimitHandler(d.Admin))
			r.Post("/admin/card-applications/{id}/decision", handler.AdminDecideCardHandler(d.Admin))
		})
	})

	r.Get("/ws/wallet/{userID}", handler.WalletWSHandler(d.Wallet))

	return r
}
