package quote

import (
	"context"
)

// Client quotes the fixed trading pair on a single named liquidity source,
// returning the output amount in output-asset units for the configured
// notional input amount.
type Client interface {
	OutAmount(ctx context.Context, source string) (float64, error)
}
