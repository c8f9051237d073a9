package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SwingPull/internal/domain/models"
	drepo "SwingPull/internal/domain/repository"
	"SwingPull/internal/services/macro"
	"SwingPull/internal/services/scoring"
	"SwingPull/pkg/config"
	"SwingPull/pkg/logger"
)

type stubProvider struct {
	mu     sync.Mutex
	quotes map[string]*models.InstrumentQuote
	calls  atomic.Int64
	delay  time.Duration
}

func (p *stubProvider) FetchQuote(ctx context.Context, symbol string) (*models.InstrumentQuote, error) {
	p.calls.Add(1)
	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.delay):
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	q, ok := p.quotes[symbol]
	if !ok {
		return nil, errors.New("provider down")
	}
	cp := *q
	return &cp, nil
}

func (p *stubProvider) FetchIndex(context.Context, string) (*drepo.IndexQuote, error) {
	return nil, errors.New("macro upstream down")
}

type nopMetrics struct{}

func (nopMetrics) RecordRefresh(string)            {}
func (nopMetrics) RecordFetchError(string)         {}
func (nopMetrics) RecordComposite(string, float64) {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordCycleDuration(float64)     {}
func (nopMetrics) RecordEmail(string)              {}

func quote(symbol string, last float64) *models.InstrumentQuote {
	return &models.InstrumentQuote{
		Symbol: symbol, Last: last, PrevClose: 100,
		DayHigh: last + 2, DayLow: 98,
		Volume: 2_000_000, AvgVolume: 1_000_000,
	}
}

func newTestRefresher(t *testing.T, provider *stubProvider, symbols ...string) *Refresher {
	t.Helper()
	cfg := &config.Config{}
	cfg.Watchlist.Symbols = symbols
	cfg.Watchlist.Sectors = map[string]string{"AAA": "Semiconductors"}
	cfg.Provider.Timeout = 200 * time.Millisecond
	cfg.Schedule.Timezone = "UTC"

	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)

	macroSvc := macro.New(cfg, provider, log)
	return NewRefresher(cfg, provider, scoring.NewEngine(), macroSvc, NewSnapshotCache(), nil, nopMetrics{}, log)
}

func TestRefreshPartialFailure(t *testing.T) {
	provider := &stubProvider{quotes: map[string]*models.InstrumentQuote{
		"AAA": quote("AAA", 110),
		"BBB": quote("BBB", 100),
		"CCC": quote("CCC", 105),
		"DDD": quote("DDD", 102),
		// EEE missing: that fetch fails
	}}
	r := newTestRefresher(t, provider, "AAA", "BBB", "CCC", "DDD", "EEE")

	snap, err := r.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Instruments, 4)
	assert.Equal(t, []string{"EEE"}, snap.Failed)
	assert.Same(t, snap, r.cache.Read())
	assert.Equal(t, "Semiconductors", findScore(t, snap, "AAA").Sector)
}

func TestRefreshAllFailedLeavesCacheUntouched(t *testing.T) {
	ok := &stubProvider{quotes: map[string]*models.InstrumentQuote{"AAA": quote("AAA", 110)}}
	r := newTestRefresher(t, ok, "AAA")

	first, err := r.Refresh(context.Background())
	require.NoError(t, err)

	// provider loses everything for the second cycle
	ok.mu.Lock()
	ok.quotes = map[string]*models.InstrumentQuote{}
	ok.mu.Unlock()

	snap, err := r.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrAllSymbolsFailed)
	assert.Nil(t, snap)
	assert.Same(t, first, r.cache.Read())
}

func TestRefreshAllFailedFirstRunKeepsCacheEmpty(t *testing.T) {
	r := newTestRefresher(t, &stubProvider{}, "AAA", "BBB")
	_, err := r.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrAllSymbolsFailed)
	assert.Nil(t, r.cache.Read())
}

func TestRefreshRankingAndTopFlags(t *testing.T) {
	provider := &stubProvider{quotes: map[string]*models.InstrumentQuote{
		"AAA": quote("AAA", 110),
		"BBB": quote("BBB", 100),
	}}
	r := newTestRefresher(t, provider, "BBB", "AAA")

	snap, err := r.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Instruments, 2)
	assert.Equal(t, "AAA", snap.Instruments[0].Symbol)
	assert.Equal(t, 1, snap.Instruments[0].Rank)
	assert.True(t, snap.Instruments[0].Top)
	assert.Equal(t, "BBB", snap.Instruments[1].Symbol)
}

func TestRefreshSingleFlight(t *testing.T) {
	provider := &stubProvider{
		quotes: map[string]*models.InstrumentQuote{"AAA": quote("AAA", 110)},
		delay:  100 * time.Millisecond,
	}
	r := newTestRefresher(t, provider, "AAA")

	var wg sync.WaitGroup
	var okCount, busyCount atomic.Int64
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Refresh(context.Background())
			switch {
			case err == nil:
				okCount.Add(1)
			case errors.Is(err, ErrRefreshInProgress):
				busyCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), okCount.Load())
	assert.Equal(t, int64(1), busyCount.Load())
	// exactly one fetch burst reached the provider
	assert.Equal(t, int64(1), provider.calls.Load())
}

func TestRefreshGateReleasedAfterFailure(t *testing.T) {
	provider := &stubProvider{quotes: map[string]*models.InstrumentQuote{}}
	r := newTestRefresher(t, provider, "AAA")

	_, err := r.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrAllSymbolsFailed)

	// gate must be free again
	provider.mu.Lock()
	provider.quotes["AAA"] = quote("AAA", 110)
	provider.mu.Unlock()
	_, err = r.Refresh(context.Background())
	assert.NoError(t, err)
}

func findScore(t *testing.T, snap *models.MarketSnapshot, symbol string) models.InstrumentScore {
	t.Helper()
	for _, s := range snap.Instruments {
		if s.Symbol == symbol {
			return s
		}
	}
	t.Fatalf("symbol %s not found", symbol)
	return models.InstrumentScore{}
}
