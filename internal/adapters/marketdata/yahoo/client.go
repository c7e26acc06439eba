package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"finadvisor/internal/adapters/ratelimit"
	"finadvisor/internal/domain/market_data"
	"finadvisor/internal/metrics"
	"finadvisor/pkg/errors"
	"finadvisor/pkg/logger"
)

const (
	defaultBaseURL     = "https://query1.finance.yahoo.com"
	defaultHTTPTimeout = 10 * time.Second
	userAgent          = "Mozilla/5.0 (compatible; finadvisor/1.0)"

	endpointChart   = "chart"
	endpointSummary = "quote_summary"

	summaryModules = "assetProfile,summaryDetail,price,defaultKeyStatistics"
)

// Config configures the Yahoo Finance client.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int

	HTTPClient *http.Client
}

// Client reads daily closes and company profiles from Yahoo Finance's public
// chart and quoteSummary endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	log        *logger.Logger
}

var _ market_data.Provider = (*Client)(nil)

// NewClient creates a new Yahoo Finance adapter.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHTTPTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    ratelimit.NewLimiter("yahoo", cfg.RequestsPerMinute),
		log:        logger.Get().With("component", "yahoo_client"),
	}
}

// LastClose returns the last non-null daily close of the current session.
// A symbol Yahoo does not know, or a session with no closes yet, yields nil.
func (c *Client) LastClose(ctx context.Context, symbol string) (*market_data.Quote, error) {
	params := url.Values{}
	params.Set("range", "1d")
	params.Set("interval", "1d")

	data, err := c.get(ctx, endpointChart, "/v8/finance/chart/"+url.PathEscape(symbol), params)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(data, "chart.result.0")
	if !result.Exists() {
		return nil, nil
	}

	closes := result.Get("indicators.quote.0.close").Array()
	stamps := result.Get("timestamp").Array()
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i].Type != gjson.Number {
			continue
		}

		q := &market_data.Quote{
			Symbol:   symbol,
			Close:    closes[i].Float(),
			Currency: result.Get("meta.currency").String(),
		}
		if i < len(stamps) {
			q.CloseTime = time.Unix(stamps[i].Int(), 0).UTC()
		}
		return q, nil
	}

	return nil, nil
}

// Profile returns sector, valuation and beta fields. Fields Yahoo omits are nil.
func (c *Client) Profile(ctx context.Context, symbol string) (*market_data.Profile, error) {
	params := url.Values{}
	params.Set("modules", summaryModules)

	data, err := c.get(ctx, endpointSummary, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), params)
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(data, "quoteSummary.result.0")
	if !result.Exists() {
		return nil, errors.Wrapf(errors.ErrNotFound, "quote summary for %s", symbol)
	}

	p := &market_data.Profile{
		Symbol:        symbol,
		Name:          firstString(result, "price.longName", "price.shortName"),
		Sector:        firstString(result, "assetProfile.sector"),
		Industry:      firstString(result, "assetProfile.industry"),
		Currency:      firstString(result, "summaryDetail.currency", "price.currency"),
		MarketCap:     firstRaw(result, "price.marketCap", "summaryDetail.marketCap"),
		TrailingPE:    firstRaw(result, "summaryDetail.trailingPE"),
		DividendYield: firstRaw(result, "summaryDetail.dividendYield"),
		Beta:          firstRaw(result, "summaryDetail.beta", "defaultKeyStatistics.beta"),
	}
	return p, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build market data request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordMarketDataRequest(endpoint, "error", time.Since(start))
		return nil, errors.Wrapf(errors.ErrUnavailable, "%s request: %v", endpoint, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	latency := time.Since(start)
	if err != nil {
		metrics.RecordMarketDataRequest(endpoint, "error", latency)
		return nil, errors.Wrapf(errors.ErrUnavailable, "%s response: %v", endpoint, err)
	}

	if resp.StatusCode >= 400 {
		apiErr := parseAPIError(resp.StatusCode, payload)
		status := "error"
		if errors.Is(apiErr, errors.ErrNotFound) {
			status = "not_found"
		}
		metrics.RecordMarketDataRequest(endpoint, status, latency)
		c.log.Debugw("Market data request failed", "endpoint", endpoint, "status", resp.StatusCode, "error", apiErr)
		return nil, apiErr
	}

	metrics.RecordMarketDataRequest(endpoint, "success", latency)
	return payload, nil
}

// parseAPIError reads the {"<root>":{"error":{"code","description"}}} envelope
// both endpoints use.
func parseAPIError(status int, payload []byte) error {
	desc := gjson.GetBytes(payload, "*.error.description").String()
	if desc == "" {
		desc = strings.TrimSpace(string(payload))
		if len(desc) > 200 {
			desc = desc[:200]
		}
	}

	if status == http.StatusNotFound {
		return errors.Wrapf(errors.ErrNotFound, "yahoo: %s", desc)
	}
	return errors.Wrap(errors.ErrExternal, fmt.Sprintf("yahoo: HTTP %d: %s", status, desc))
}

func firstString(result gjson.Result, paths ...string) *string {
	for _, p := range paths {
		v := result.Get(p)
		if v.Type == gjson.String && v.String() != "" {
			s := v.String()
			return &s
		}
	}
	return nil
}

// firstRaw reads Yahoo's {"raw": n, "fmt": "..."} number objects.
func firstRaw(result gjson.Result, paths ...string) *float64 {
	for _, p := range paths {
		v := result.Get(p + ".raw")
		if v.Type == gjson.Number {
			f := v.Float()
			return &f
		}
	}
	return nil
}
