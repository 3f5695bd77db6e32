package arbitrage

import (
	"log/slog"
	"math"
	"sort"

	"github.com/BagwellTbag/quantumsol-backend/internal/model"
)

// Detector holds the logic for identifying arbitrage opportunities against a
// fixed baseline liquidity source.
type Detector struct {
	logger           *slog.Logger
	baseline         string
	thresholdPercent float64
}

// NewDetector creates a new Detector. baseline is the lowercased source name
// every other quoted price is compared against.
func NewDetector(logger *slog.Logger, baseline string, thresholdPercent float64) *Detector {
	return &Detector{
		logger:           logger,
		baseline:         baseline,
		thresholdPercent: thresholdPercent,
	}
}

// Detect computes profit margins for every quoted source against the
// baseline and returns those clearing the threshold.
//
// A non-positive baseline price yields no opportunities (never divide by a
// zero or negative baseline). Sources with non-positive prices are skipped.
// Margins are compared against the threshold at full precision and rounded
// to two decimals only on the emitted opportunity. Output order follows the
// sorted source names so repeated calls over equal inputs are identical.
func (d *Detector) Detect(prices map[string]float64) []model.Opportunity {
	opportunities := []model.Opportunity{}

	basePrice, ok := prices[d.baseline]
	if !ok || basePrice <= 0 {
		return opportunities
	}

	sources := make([]string, 0, len(prices))
	for source := range prices {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		price := prices[source]
		if price <= 0 {
			continue
		}
		margin := (price - basePrice) / basePrice * 100
		if margin < d.thresholdPercent {
			continue
		}

		d.logger.Info("Arbitrage opportunity found",
			"buySource", d.baseline,
			"sellSource", source,
			"buyPrice", basePrice,
			"sellPrice", price,
			"profitMargin", margin,
		)

		opportunities = append(opportunities, model.Opportunity{
			BuySource:           d.baseline,
			BuyPrice:            basePrice,
			SellSource:          source,
			SellPrice:           price,
			ProfitMarginPercent: math.Round(margin*100) / 100,
		})
	}

	return opportunities
}
