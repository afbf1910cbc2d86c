// Package exchange fetches the conversion rate between the configured currency pair.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/personal-finance-ledger/internal/config"
	"github.com/personal-finance-ledger/internal/domain/shared"
)

const (
	serviceName = "exchange_rate"
	userAgent   = "finance-ledger.exchange-rate"

	// maxResponseBytes caps how much of the upstream body is read
	maxResponseBytes = 2000
)

// Client calls the exchange rate API. At most one upstream request per currency pair
// is in flight; concurrent callers share its result.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
	to         string
	cache      RateCache
	cacheTTL   time.Duration
	group      singleflight.Group
	logger     *slog.Logger
}

// NewClient creates a new exchange rate client. cache may be nil.
func NewClient(cfg config.ExchangeRateConfig, cache RateCache, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		from:       strings.ToUpper(cfg.From),
		to:         strings.ToUpper(cfg.To),
		cache:      cache,
		cacheTTL:   cfg.CacheTTL,
		logger:     logger,
	}
}

// Pair returns the source and target currency codes
func (c *Client) Pair() (string, string) {
	return c.from, c.to
}

// Rate returns the current conversion rate, from cache when a fresh value is stored
func (c *Client) Rate(ctx context.Context) (float64, error) {
	key := c.cacheKey()

	if c.cache != nil {
		rate, found, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("Rate cache lookup failed, fetching upstream", "key", key, "error", err)
		} else if found {
			return rate, nil
		}
	}

	// the fetch outlives the caller that started it
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		rate, err := c.fetch(fetchCtx)
		if err != nil {
			return 0.0, err
		}
		if c.cache != nil {
			if err := c.cache.Set(fetchCtx, key, rate, c.cacheTTL); err != nil {
				c.logger.Warn("Failed to cache rate", "key", key, "error", err)
			}
		}
		return rate, nil
	})

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		c.logger.Debug("Fetched exchange rate", "from", c.from, "to", c.to, "coalesced", res.Shared)
		return res.Val.(float64), nil
	}
}

func (c *Client) cacheKey() string {
	return fmt.Sprintf("exchange_rate:%s:%s", c.from, c.to)
}

func (c *Client) fetch(ctx context.Context) (float64, error) {
	url := fmt.Sprintf("%s/v6/%s/pair/%s/%s", c.baseURL, c.apiKey, c.from, c.to)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &shared.ExternalServiceError{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, &shared.ExternalServiceError{Service: serviceName, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &shared.ExternalServiceError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	return parseRate(body)
}

// parseRate extracts conversion_rate from an upstream body
func parseRate(body []byte) (float64, error) {
	if !utf8.Valid(body) {
		return 0, &shared.DecodeError{Service: serviceName, Message: "Failed to decode response body"}
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, &shared.DecodeError{Service: serviceName, Message: "Failed to parse JSON", Err: err}
	}

	rate, ok := payload["conversion_rate"].(float64)
	if !ok {
		return 0, &shared.DecodeError{Service: serviceName, Message: "No conversion_rate in response"}
	}
	return rate, nil
}

// Convert multiplies amount by rate and rounds half away from zero to two decimals
func Convert(amount, rate float64) float64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(rate)).Round(2).InexactFloat64()
}
