package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/BagwellTbag/quantumsol-backend/internal/arbitrage"
	"github.com/BagwellTbag/quantumsol-backend/internal/config"
	"github.com/BagwellTbag/quantumsol-backend/internal/store"
)

// Server bundles the HTTP server, the record store and the price
// broadcaster behind one lifecycle.
type Server struct {
	httpServer  *http.Server
	store       store.Store
	broadcaster *Broadcaster
	cancel      context.CancelFunc
}

// NewServer wires handlers, router and broadcaster from the configuration.
func NewServer(logger *slog.Logger, cfg *config.Config, st store.Store, fetcher PriceFetcher, detector *arbitrage.Detector) *Server {
	interval := time.Duration(cfg.Quotes.StreamIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = 10 * time.Second
	}
	broadcaster := NewBroadcaster(logger, fetcher, detector, interval)
	handlers := NewHandlers(logger, cfg, st, fetcher, detector)
	router := NewRouter(handlers, broadcaster, cfg.Server.AllowedOrigins)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		store:       st,
		broadcaster: broadcaster,
	}
}

// ListenAndServe starts the broadcaster and serves HTTP until Shutdown.
func (s *Server) ListenAndServe() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.broadcaster.Run(ctx)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests, stops the broadcaster and closes the
// record store.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	defer s.store.Close()
	return s.httpServer.Shutdown(ctx)
}
