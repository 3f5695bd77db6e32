package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/BagwellTbag/quantumsol-backend/internal/api"
	"github.com/BagwellTbag/quantumsol-backend/internal/arbitrage"
	"github.com/BagwellTbag/quantumsol-backend/internal/config"
	"github.com/BagwellTbag/quantumsol-backend/internal/quote"
	"github.com/BagwellTbag/quantumsol-backend/internal/solana"
	"github.com/BagwellTbag/quantumsol-backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env vars")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// An invalid administrative address is a deployment error; refuse to start.
	if err := solana.ValidateAddress(cfg.Admin.WalletAddress); err != nil {
		log.Fatalf("invalid admin wallet address: %v", err)
	}

	st, err := openStore(&cfg)
	if err != nil {
		log.Fatalf("cannot open record store: %v", err)
	}

	client := quote.NewJupiterClient(logger, cfg.Quotes)
	fetcher := quote.NewFetcher(logger, client, cfg.Quotes.Sources)
	detector := arbitrage.NewDetector(logger, cfg.Quotes.Baseline, cfg.Quotes.ThresholdPercent)

	srv := api.NewServer(logger, &cfg, st, fetcher, detector)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", cfg.Server.Addr, "storage", cfg.Storage.Driver)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down gracefully")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	case err := <-errCh:
		log.Fatal(err)
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return store.NewPostgresStore(ctx, cfg.Storage.Database)
	default:
		return store.OpenFileStore(cfg.Storage.FilePath)
	}
}
