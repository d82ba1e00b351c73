package server

import (
	"context"
	"net/http"
	"time"

	"github.com/shahmubaruk05/wallet-exchange/internal/cardfeed"
	"github.com/shahmubaruk05/wallet-exchange/internal/config"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/ids"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/middleware"
	"github.com/shahmubaruk05/wallet-exchange/internal/pub"
	"github.com/shahmubaruk05/wallet-exchange/internal/repository"
	"github.com/shahmubaruk05/wallet-exchange/internal/router"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/admin"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/cards"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/exchange"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/funding"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/transfer"
	"github.com/shahmubaruk05/wallet-exchange/internal/usecase/wallet"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	httpServer *http.Server
	db         *pgxpool.Pool
	rdb        *redis.Client
}

func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	db, err := config.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	rdb, err := config.ConnectRedis(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	userRepo := repository.NewUserRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	rateRepo := repository.NewRateRepo(db)
	limitRepo := repository.NewLimitRepo(db)
	cardRepo := repository.NewCardRepo(db)

	rateCache := exchange.NewCachedRates(rateRepo, rdb)
	limitCache := exchange.NewCachedLimits(limitRepo, rdb)

	defaults := exchange.Defaults{
		USDToBDT:      cfg.DefaultUSDToBDT,
		BDTToUSD:      cfg.DefaultBDTToUSD,
		MinReceiveUSD: cfg.DefaultMinReceiveUSD,
	}
	exchangeUC := exchange.New(rateCache, limitCache, defaults)

	gen := ids.NewGenerator()
	events := pub.NewTransactionEventPublisher(rdb)
	notifier := wallet.NewNotifier()

	transferUC := transfer.New(userRepo, txRepo, gen, events, notifier, log)
	fundingUC := funding.New(userRepo, txRepo, exchangeUC, gen, events, notifier, log)
	walletUC := wallet.New(userRepo, txRepo, notifier)
	cardsUC := cards.New(cardRepo, gen)
	adminUC := admin.New(userRepo, txRepo, rateRepo, limitRepo, cardRepo,
		rateCache, limitCache, events, notifier, log)

	r := router.New(router.Deps{
		Auth:     middleware.NewAuth(cfg.JWTSecret),
		Exchange: exchangeUC,
		Transfer: transferUC,
		Funding:  fundingUC,
		Wallet:   walletUC,
		Cards:    cardsUC,
		Admin:    adminUC,
		CardFeed: cardfeed.New(cfg.CardFeedURL, cfg.CardFeedToken),
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		db:  db,
		rdb: rdb,
	}, nil
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	defer s.db.Close()
	defer func() { _ = s.rdb.Close() }()
	return s.httpServer.Shutdown(ctx)
}
