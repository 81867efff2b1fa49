package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Vaishnavi024/escrow-marketplace/internal/config"
	"github.com/Vaishnavi024/escrow-marketplace/internal/database"
	"github.com/Vaishnavi024/escrow-marketplace/internal/escrow"
	"github.com/Vaishnavi024/escrow-marketplace/internal/handler"
	"github.com/Vaishnavi024/escrow-marketplace/internal/payout"
	"github.com/Vaishnavi024/escrow-marketplace/internal/queue"
	"github.com/Vaishnavi024/escrow-marketplace/internal/repository"
	"github.com/Vaishnavi024/escrow-marketplace/internal/router"
	"github.com/Vaishnavi024/escrow-marketplace/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	e := echo.New()

	router.RegisterRoutes(e)

	var market *handler.MarketHandler
	switch cfg.StoreDriver {
	case "memory":
		// Volatile single-process mode for local development.
		engine := escrow.New(store.NewMemory(), payout.LogOnly{})
		market = handler.NewMarketHandler(engine, nil)
		log.Printf("using in-memory store; auth endpoints disabled")
	default:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("mysql: %v", err)
		}
		defer db.Close()

		transfers := repository.NewTransferRepo(db)
		engine := escrow.New(repository.NewMySQLStore(db), payout.NewRecorder(transfers))
		market = handler.NewMarketHandler(engine, transfers)

		auth := handler.NewAuthHandler(cfg, repository.NewAccountRepo(db), repository.NewTokenRepo(db))
		router.RegisterAuth(e, auth, cfg.JWTSecret)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}
	router.RegisterMarket(e, market, cfg.JWTSecret, rdb)

	// Audit consumer runs for the life of the process, reconnecting on
	// broker failures.
	go func() {
		if err := queue.StartEscrowConsumer(); err != nil {
			log.Printf("escrow consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreDriver)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
