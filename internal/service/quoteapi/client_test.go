package quoteapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SwingPull/pkg/cache"
)

func quoteBody(symbol string, price float64) string {
	return fmt.Sprintf(`{"quoteResponse":{"result":[{
		"symbol":%q,"shortName":"Test Corp",
		"regularMarketPrice":%f,"regularMarketPreviousClose":100,
		"regularMarketDayHigh":112,"regularMarketDayLow":98,
		"regularMarketVolume":2000000,"averageDailyVolume3Month":1000000,
		"marketCap":1500000000,"fiftyTwoWeekHigh":150,"fiftyTwoWeekLow":80}]}}`, symbol, price)
}

func TestFetchQuoteParsesFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/finance/quote", r.URL.Path)
		assert.Equal(t, "NVDA", r.URL.Query().Get("symbols"))
		fmt.Fprint(w, quoteBody("NVDA", 110))
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	q, err := c.FetchQuote(context.Background(), "NVDA")
	require.NoError(t, err)

	assert.Equal(t, "NVDA", q.Symbol)
	assert.Equal(t, "Test Corp", q.Company)
	assert.Equal(t, 110.0, q.Last)
	assert.Equal(t, 100.0, q.PrevClose)
	assert.Equal(t, 2_000_000.0, q.Volume)
	assert.Equal(t, 1_000_000.0, q.AvgVolume)
	assert.False(t, q.FetchedAt.IsZero())
}

func TestFetchQuoteEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"quoteResponse":{"result":[]}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	_, err := c.FetchQuote(context.Background(), "ZZZ")
	assert.Error(t, err)
}

func TestFetchQuoteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	_, err := c.FetchQuote(context.Background(), "NVDA")
	assert.Error(t, err)
}

func TestFetchQuoteUsesCache(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, quoteBody("AMD", 120))
	}))
	defer srv.Close()

	mem := cache.NewMemoryCache()
	defer mem.Close()

	c := New(srv.URL, "", time.Second, WithCache(mem, time.Minute))

	for i := 0; i < 3; i++ {
		q, err := c.FetchQuote(context.Background(), "AMD")
		require.NoError(t, err)
		assert.Equal(t, 120.0, q.Last)
	}
	assert.Equal(t, int64(1), hits.Load())
}

func TestFetchIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"quoteResponse":{"result":[{"symbol":"ES=F","regularMarketPrice":5100,"regularMarketPreviousClose":5050}]}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	q, err := c.FetchIndex(context.Background(), "ES=F")
	require.NoError(t, err)
	assert.Equal(t, 5100.0, q.Level)
	assert.Equal(t, 5050.0, q.PrevClose)
}
