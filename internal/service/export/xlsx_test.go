package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"SwingPull/internal/domain/models"
	"SwingPull/pkg/config"
	"SwingPull/pkg/logger"
)

func testSnapshot(t *testing.T) *models.MarketSnapshot {
	t.Helper()
	gen, err := time.Parse(time.RFC3339, "2026-03-02T09:30:00Z")
	require.NoError(t, err)

	return &models.MarketSnapshot{
		GeneratedAt: gen,
		Instruments: []models.InstrumentScore{
			{Symbol: "NVDA", Company: "NVIDIA Corp", Sector: "Semiconductors", Rank: 1, Top: true,
				Last: 192.4, PrevClose: 188.1, PctChange: 2.29, PctChangeValid: true,
				Composite: 81.2, Volatility: 92.0, Momentum: 74.5, VolumeScore: 70.0,
				MarketCap: 4.7e12, AvgVolume: 2.4e8, Week52Low: 86.62, Week52High: 195.3},
			{Symbol: "AMD", Company: "Advanced Micro Devices", Sector: "Semiconductors", Rank: 2, Top: true,
				Last: 168.0, PrevClose: 165.0, PctChange: 1.82, PctChangeValid: true,
				Composite: 64.0, Volatility: 60.0, Momentum: 50.0, VolumeScore: 88.0},
			{Symbol: "SOFI", Company: "SoFi Technologies", Sector: "Fintech", Rank: 3, Top: true,
				Composite: 40.0, PrevClose: 0, PctChangeValid: false},
			{Symbol: "AAPL", Company: "Apple Inc", Sector: "Consumer Tech", Rank: 4, Top: false,
				Composite: 22.5, PctChangeValid: true},
		},
		Macro: models.MacroSnapshot{
			Futures: []models.MacroIndicator{
				{Symbol: "ES=F", Name: "S&P 500 Futures", Level: 6120.5, Change: 24.25, Pct: 0.4,
					Signal: models.SignalBullish, Valid: true},
				{Symbol: "^VIX", Name: "VIX", Signal: models.SignalUnavailable, Valid: false},
			},
			Verdict: models.VerdictMixed,
			Fed:     models.FedStatus{FundsRate: "3.50% - 3.75%", LastDecision: "25 bps cut"},
		},
		Failed: []string{"PLTR"},
	}
}

func newTestExporter(t *testing.T) *XLSXExporter {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Export.OutputDir = t.TempDir()
	cfg.Schedule.Timezone = "UTC"
	return NewXLSX(cfg, log)
}

func TestExportWritesTimestampedAndLatest(t *testing.T) {
	e := newTestExporter(t)

	path, err := e.Export(testSnapshot(t))
	require.NoError(t, err)

	assert.Equal(t, "swing_dashboard_20260302_0930.xlsx", filepath.Base(path))
	assert.FileExists(t, path)
	assert.FileExists(t, e.LatestPath())
}

func TestExportWorkbookContents(t *testing.T) {
	e := newTestExporter(t)
	snap := testSnapshot(t)

	path, err := e.Export(snap)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{sheetOverview, sheetTop}, f.GetSheetList())

	// Ranked sheet: first data row is the rank-1 instrument.
	sym, err := f.GetCellValue(sheetTop, "B4")
	require.NoError(t, err)
	assert.Equal(t, "NVDA", sym)

	chg, err := f.GetCellValue(sheetTop, "G4")
	require.NoError(t, err)
	assert.Equal(t, "+2.29%", chg)

	// Instruments with no valid previous close render N/A, not a number.
	na, err := f.GetCellValue(sheetTop, "G6")
	require.NoError(t, err)
	assert.Equal(t, "N/A", na)

	// Overview sheet carries the verdict.
	rows, err := f.GetRows(sheetOverview)
	require.NoError(t, err)
	var found bool
	for _, row := range rows {
		if len(row) > 0 && row[0] == "FUTURES VERDICT: MIXED" {
			found = true
		}
	}
	assert.True(t, found, "verdict line missing from overview sheet")
}
