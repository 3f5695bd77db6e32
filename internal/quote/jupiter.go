package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/BagwellTbag/quantumsol-backend/internal/config"
)

// JupiterClient implements the Client interface against the Jupiter v6
// quote API. A single client serves every source: Jupiter restricts routing
// to one venue via the dexes parameter.
type JupiterClient struct {
	logger     *slog.Logger
	httpClient *http.Client
	cfg        config.QuotesConfig
}

// NewJupiterClient creates a new JupiterClient with the per-call timeout
// from the configuration.
func NewJupiterClient(logger *slog.Logger, cfg config.QuotesConfig) *JupiterClient {
	return &JupiterClient{
		logger: logger,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		cfg: cfg,
	}
}

// jupiterQuoteResponse is the subset of the Jupiter quote payload we read.
// outAmount is a stringified integer in the output mint's smallest unit.
type jupiterQuoteResponse struct {
	OutAmount string `json:"outAmount"`
}

// OutAmount requests a quote routed exclusively through the given source and
// returns the output amount converted to whole output-asset units.
func (c *JupiterClient) OutAmount(ctx context.Context, source string) (float64, error) {
	params := url.Values{}
	params.Set("inputMint", c.cfg.InputMint)
	params.Set("outputMint", c.cfg.OutputMint)
	params.Set("amount", strconv.FormatInt(c.cfg.Amount, 10))
	params.Set("swapMode", "ExactIn")
	params.Set("onlyDirectRoutes", "false")
	params.Set("platformFeeBps", "0")
	params.Set("dexes", source)

	reqURL := c.cfg.BaseURL + "/quote?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build quote request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("quote request for %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("quote request for %s: unexpected status %d", source, resp.StatusCode)
	}

	var body jupiterQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode quote for %s: %w", source, err)
	}

	raw, err := strconv.ParseFloat(body.OutAmount, 64)
	if err != nil {
		return 0, fmt.Errorf("parse outAmount %q for %s: %w", body.OutAmount, source, err)
	}

	price := raw / math.Pow10(c.cfg.OutputDecimals)
	c.logger.Debug("Quote fetched", "source", source, "price", price)
	return price, nil
}
