package quoteapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SwingPull/internal/domain/models"
	drepo "SwingPull/internal/domain/repository"
	"SwingPull/internal/service/ratelimit"
	"SwingPull/pkg/cache"
	xhttp "SwingPull/pkg/http"
)

// Client implements a QuoteProvider backed by a Yahoo-style quote REST API.
// Responses are cached with a short TTL so back-to-back refresh triggers do
// not hammer the upstream, and a token bucket bounds the request rate.
type Client struct {
	baseURL string
	apiKey  string
	http    *xhttp.Client

	limiter    *ratelimit.Limiter
	ratePerSec float64
	burst      float64

	cache    cache.Service
	quoteTTL time.Duration
}

// Option configures Client.
type Option func(*Client)

// New creates a new quote API client.
func New(baseURL, apiKey string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		http:       xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter:    ratelimit.New(),
		ratePerSec: 5,
		burst:      10,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithCache enables quote caching with the given TTL.
func WithCache(c cache.Service, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.quoteTTL = ttl
	}
}

// WithRate sets the upstream request budget.
func WithRate(perSec, burst float64) Option {
	return func(cl *Client) {
		cl.ratePerSec = perSec
		cl.burst = burst
	}
}

type quoteResult struct {
	Symbol                   string  `json:"symbol"`
	ShortName                string  `json:"shortName"`
	RegularMarketPrice       float64 `json:"regularMarketPrice"`
	RegularMarketPrevClose   float64 `json:"regularMarketPreviousClose"`
	RegularMarketDayHigh     float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow      float64 `json:"regularMarketDayLow"`
	RegularMarketVolume      float64 `json:"regularMarketVolume"`
	AverageDailyVolume3Month float64 `json:"averageDailyVolume3Month"`
	MarketCap                float64 `json:"marketCap"`
	FiftyTwoWeekHigh         float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow          float64 `json:"fiftyTwoWeekLow"`
}

type quoteEnvelope struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// FetchQuote returns the latest quote for one watchlist symbol.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (*models.InstrumentQuote, error) {
	if c.cache != nil {
		if q, ok := c.cachedQuote(ctx, symbol); ok {
			return q, nil
		}
	}

	res, err := c.query(ctx, symbol)
	if err != nil {
		return nil, err
	}

	q := &models.InstrumentQuote{
		Symbol:     symbol,
		Company:    res.ShortName,
		Last:       res.RegularMarketPrice,
		PrevClose:  res.RegularMarketPrevClose,
		DayHigh:    res.RegularMarketDayHigh,
		DayLow:     res.RegularMarketDayLow,
		Volume:     res.RegularMarketVolume,
		AvgVolume:  res.AverageDailyVolume3Month,
		MarketCap:  res.MarketCap,
		Week52High: res.FiftyTwoWeekHigh,
		Week52Low:  res.FiftyTwoWeekLow,
		FetchedAt:  time.Now(),
	}
	if q.Company == "" {
		q.Company = symbol
	}

	if c.cache != nil {
		if b, err := json.Marshal(q); err == nil {
			_ = c.cache.Set(ctx, quoteKey(symbol), string(b), c.quoteTTL)
		}
	}
	return q, nil
}

// FetchIndex returns the bare level/previous-close pair for a macro symbol.
func (c *Client) FetchIndex(ctx context.Context, symbol string) (*drepo.IndexQuote, error) {
	res, err := c.query(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &drepo.IndexQuote{
		Symbol:    symbol,
		Level:     res.RegularMarketPrice,
		PrevClose: res.RegularMarketPrevClose,
	}, nil
}

func (c *Client) query(ctx context.Context, symbol string) (*quoteResult, error) {
	if err := c.waitForBudget(ctx); err != nil {
		return nil, err
	}

	var env quoteEnvelope
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v7/finance/quote",
		QueryParams: map[string][]string{
			"symbols": {symbol},
		},
		Headers: c.headers(),
	}, &env)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}

	if e := env.QuoteResponse.Error; e != nil {
		return nil, fmt.Errorf("quote %s: upstream %s: %s", symbol, e.Code, e.Description)
	}
	if len(env.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("quote %s: empty result", symbol)
	}
	return &env.QuoteResponse.Result[0], nil
}

func (c *Client) headers() map[string]string {
	h := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		h["X-Api-Key"] = c.apiKey
	}
	return h
}

// waitForBudget blocks until a request token is available or ctx expires.
func (c *Client) waitForBudget(ctx context.Context) error {
	for !c.limiter.Allow("quoteapi", c.burst, c.ratePerSec) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	return nil
}

func (c *Client) cachedQuote(ctx context.Context, symbol string) (*models.InstrumentQuote, bool) {
	var raw string
	if err := c.cache.Get(ctx, quoteKey(symbol), &raw); err != nil {
		return nil, false
	}
	var q models.InstrumentQuote
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, false
	}
	return &q, true
}

func quoteKey(symbol string) string { return "quote:" + symbol }

var _ drepo.QuoteProvider = (*Client)(nil)
