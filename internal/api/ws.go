package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/BagwellTbag/quantumsol-backend/internal/arbitrage"
)

// Broadcaster pushes the current prices and opportunities to connected
// dashboard clients at a fixed interval.
type Broadcaster struct {
	logger   *slog.Logger
	fetcher  PriceFetcher
	detector *arbitrage.Detector
	interval time.Duration

	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
}

// NewBroadcaster creates a Broadcaster publishing every interval.
func NewBroadcaster(logger *slog.Logger, fetcher PriceFetcher, detector *arbitrage.Detector, interval time.Duration) *Broadcaster {
	return &Broadcaster{
		logger:   logger,
		fetcher:  fetcher,
		detector: detector,
		interval: interval,
		clients:  make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Run fetches and broadcasts until ctx is cancelled. It only fetches while
// at least one client is connected.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.closeAll()
			return
		case <-ticker.C:
			if b.clientCount() == 0 {
				continue
			}
			prices := b.fetcher.FetchPrices(ctx)
			b.broadcast(pricesPayload{
				Prices:        prices,
				Opportunities: b.detector.Detect(prices),
			})
		}
	}
}

// Handler returns an http.HandlerFunc accepting websocket connections.
func (b *Broadcaster) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			b.logger.Error("Websocket upgrade failed", "error", err)
			return
		}
		b.mu.Lock()
		b.clients[conn] = struct{}{}
		b.mu.Unlock()

		// Read loop detects client disconnects; inbound messages are ignored.
		go func() {
			defer func() {
				b.mu.Lock()
				delete(b.clients, conn)
				b.mu.Unlock()
				conn.Close()
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}

func (b *Broadcaster) broadcast(payload pricesPayload) {
	msg, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("Failed to marshal price payload", "error", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			b.logger.Warn("Websocket write failed, dropping client", "error", err)
			conn.Close()
			delete(b.clients, conn)
		}
	}
}

func (b *Broadcaster) clientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

func (b *Broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		conn.Close()
		delete(b.clients, conn)
	}
}
