package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SwingPull/internal/domain/models"
	drepo "SwingPull/internal/domain/repository"
	macrosvc "SwingPull/internal/services/macro"
	"SwingPull/internal/services/scoring"
	"SwingPull/internal/usecase"
	"SwingPull/pkg/config"
	xlogger "SwingPull/pkg/logger"
)

type slowProvider struct {
	delay time.Duration
}

func (p *slowProvider) FetchQuote(ctx context.Context, symbol string) (*models.InstrumentQuote, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(p.delay):
	}
	return &models.InstrumentQuote{
		Symbol: symbol, Company: symbol, Last: 100, PrevClose: 99,
		DayHigh: 101, DayLow: 99, Volume: 1e6, AvgVolume: 1e6,
	}, nil
}

func (p *slowProvider) FetchIndex(context.Context, string) (*drepo.IndexQuote, error) {
	return nil, errors.New("no macro in tests")
}

type nopExporter struct{}

func (nopExporter) Export(*models.MarketSnapshot) (string, error) { return "dash.xlsx", nil }

type nopMetrics struct{}

func (nopMetrics) RecordRefresh(string)            {}
func (nopMetrics) RecordFetchError(string)         {}
func (nopMetrics) RecordComposite(string, float64) {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordCycleDuration(float64)     {}
func (nopMetrics) RecordEmail(string)              {}

func newTestHandler(t *testing.T, delay time.Duration) (*DashboardHandler, *usecase.SnapshotCache) {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Watchlist.Symbols = []string{"AAA", "BBB"}
	cfg.Provider.Timeout = 2 * time.Second
	cfg.Schedule.Timezone = "UTC"

	provider := &slowProvider{delay: delay}
	cache := usecase.NewSnapshotCache()
	refresher := usecase.NewRefresher(cfg, provider, scoring.NewEngine(),
		macrosvc.New(cfg, provider, log), cache, nil, nopMetrics{}, log)
	job := usecase.NewDashboardJob(refresher, nopExporter{}, nil, nopMetrics{}, log)

	h := NewDashboardHandler(log, job, cache, NewWSHub(log), func() string { return "missing.xlsx" })
	return h, cache
}

func doRequest(h *DashboardHandler, method, target string) *httptest.ResponseRecorder {
	e := echo.New()
	h.RegisterRoutes(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestDataBeforeFirstSnapshot(t *testing.T) {
	h, _ := newTestHandler(t, 0)

	rec := doRequest(h, http.MethodGet, "/api/data")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDataAfterPublish(t *testing.T) {
	h, cache := newTestHandler(t, 0)
	cache.Publish(&models.MarketSnapshot{
		GeneratedAt: time.Now(),
		Instruments: []models.InstrumentScore{{Symbol: "AAA", Rank: 1, Top: true}},
	})

	rec := doRequest(h, http.MethodGet, "/api/data")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status int                   `json:"status"`
		Data   models.MarketSnapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, body.Status)
	require.Len(t, body.Data.Instruments, 1)
	assert.Equal(t, "AAA", body.Data.Instruments[0].Symbol)
}

func TestRefreshConflictWhileCycleRunning(t *testing.T) {
	h, _ := newTestHandler(t, 300*time.Millisecond)

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() { first <- doRequest(h, http.MethodPost, "/api/refresh") }()

	// Give the first cycle time to take the gate, then trigger again.
	time.Sleep(100 * time.Millisecond)
	rec := doRequest(h, http.MethodPost, "/api/refresh")

	var body struct {
		Data []struct {
			Code string `json:"code"`
		} `json:"data"`
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, http.StatusConflict, body.Status)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "ERR_REFRESH_IN_PROGRESS", body.Data[0].Code)

	// The original trigger completes normally.
	res := <-first
	var ok struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &ok))
	assert.Equal(t, http.StatusOK, ok.Status)
}

func TestDownloadMissingWorkbook(t *testing.T) {
	h, _ := newTestHandler(t, 0)

	rec := doRequest(h, http.MethodGet, "/download")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	h, cache := newTestHandler(t, 0)
	cache.Publish(&models.MarketSnapshot{GeneratedAt: time.Now()})

	rec := doRequest(h, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "snapshot_at")
}
