package quote

import (
	"context"
	"log/slog"
	"strings"
)

// Fetcher aggregates per-source quotes into a complete price mapping for the
// configured set of liquidity sources.
type Fetcher struct {
	logger  *slog.Logger
	client  Client
	sources []string
}

// NewFetcher creates a new Fetcher over the given client and source names.
func NewFetcher(logger *slog.Logger, client Client, sources []string) *Fetcher {
	return &Fetcher{logger: logger, client: client, sources: sources}
}

// FetchPrices queries every configured source in turn. A failure on one
// source never aborts the others: that source's price degrades to 0 and the
// error is logged. The returned map always has an entry for every source,
// keyed by the lowercased source name.
func (f *Fetcher) FetchPrices(ctx context.Context) map[string]float64 {
	prices := make(map[string]float64, len(f.sources))
	for _, source := range f.sources {
		key := strings.ToLower(source)
		price, err := f.client.OutAmount(ctx, source)
		if err != nil {
			f.logger.Error("Failed to fetch quote", "source", source, "error", err)
			prices[key] = 0
			continue
		}
		prices[key] = price
	}
	return prices
}
