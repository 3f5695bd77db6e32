package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the endpoints onto a chi router. The dashboard frontend is
// served from another origin, so CORS is always on.
func NewRouter(h *Handlers, b *Broadcaster, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/prices", h.Prices)
	r.Get("/wallet", h.Wallet)
	r.Get("/profits/{userId}", h.GetProfits)
	r.Post("/update-profits", h.UpdateProfits)
	r.Get("/transactions/{userId}", h.Transactions)
	r.Post("/withdraw", h.Withdraw)
	r.Post("/log-deposit", h.LogDeposit)
	r.Get("/deposits/{userId}", h.Deposits)
	r.Get("/health", h.Health)
	r.Get("/ws/prices", b.Handler())

	return r
}
