package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"SwingPull/internal/domain/models"
	drepo "SwingPull/internal/domain/repository"
	"SwingPull/pkg/config"
	"SwingPull/pkg/logger"
)

const (
	sheetOverview = "Market Overview"
	sheetTop      = "Top 10 Swing Trades"

	// LatestName is the stable filename served by the download route.
	LatestName = "latest.xlsx"
)

// XLSXExporter renders a snapshot into the two-sheet workbook: a macro
// overview and the ranked watchlist with the top three highlighted.
type XLSXExporter struct {
	outputDir string
	loc       *time.Location
	log       *logger.Logger
}

func NewXLSX(cfg *config.Config, log *logger.Logger) *XLSXExporter {
	return &XLSXExporter{
		outputDir: cfg.Export.OutputDir,
		loc:       cfg.Location(),
		log:       log,
	}
}

// LatestPath returns the path of the stable copy.
func (e *XLSXExporter) LatestPath() string {
	return filepath.Join(e.outputDir, LatestName)
}

// Export writes the timestamped workbook plus the stable latest.xlsx copy
// and returns the timestamped path.
func (e *XLSXExporter) Export(snap *models.MarketSnapshot) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeOverview(f, snap); err != nil {
		return "", fmt.Errorf("overview sheet: %w", err)
	}
	if err := e.writeWatchlist(f, snap); err != nil {
		return "", fmt.Errorf("watchlist sheet: %w", err)
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("output dir: %w", err)
	}

	stamp := snap.GeneratedAt.In(e.loc).Format("20060102_1504")
	path := filepath.Join(e.outputDir, fmt.Sprintf("swing_dashboard_%s.xlsx", stamp))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	if err := f.SaveAs(e.LatestPath()); err != nil {
		return "", fmt.Errorf("save latest copy: %w", err)
	}

	e.log.Debug("workbook exported",
		logger.String("path", path),
		logger.Int("instruments", len(snap.Instruments)))
	return path, nil
}

func (e *XLSXExporter) writeOverview(f *excelize.File, snap *models.MarketSnapshot) error {
	if err := f.SetSheetName("Sheet1", sheetOverview); err != nil {
		return err
	}

	title, header := e.styles(f)

	f.SetCellValue(sheetOverview, "A1", "SWING TRADE MARKET INTELLIGENCE DASHBOARD")
	f.SetCellValue(sheetOverview, "A2", "Generated: "+snap.GeneratedAt.In(e.loc).Format("January 2, 2006 at 3:04 PM MST"))
	f.SetCellStyle(sheetOverview, "A1", "A1", title)

	headers := []string{"Index / Future", "Level", "Change", "% Change", "Signal"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		f.SetCellValue(sheetOverview, cell, h)
	}
	f.SetCellStyle(sheetOverview, "A4", "E4", header)

	row := 5
	for _, ind := range snap.Macro.Futures {
		f.SetCellValue(sheetOverview, cellAt(1, row), ind.Name)
		if ind.Valid {
			f.SetCellValue(sheetOverview, cellAt(2, row), ind.Level)
			f.SetCellValue(sheetOverview, cellAt(3, row), ind.Change)
			f.SetCellValue(sheetOverview, cellAt(4, row), fmt.Sprintf("%+.2f%%", ind.Pct))
		} else {
			f.SetCellValue(sheetOverview, cellAt(2, row), "N/A")
		}
		f.SetCellValue(sheetOverview, cellAt(5, row), ind.Signal)
		row++
	}

	row++
	f.SetCellValue(sheetOverview, cellAt(1, row), fmt.Sprintf("FUTURES VERDICT: %s", snap.Macro.Verdict))

	row += 2
	fed := snap.Macro.Fed
	f.SetCellValue(sheetOverview, cellAt(1, row), "Fed Funds Rate")
	f.SetCellValue(sheetOverview, cellAt(2, row), fed.FundsRate)
	row++
	f.SetCellValue(sheetOverview, cellAt(1, row), "Last FOMC Decision")
	f.SetCellValue(sheetOverview, cellAt(2, row), fed.LastDecision)
	row++
	f.SetCellValue(sheetOverview, cellAt(1, row), "Next FOMC Meeting")
	if fed.NextMeeting != nil {
		f.SetCellValue(sheetOverview, cellAt(2, row), fed.NextMeeting.Format("January 2, 2006"))
	} else {
		f.SetCellValue(sheetOverview, cellAt(2, row), "N/A")
	}
	row++
	f.SetCellValue(sheetOverview, cellAt(1, row), "Rate Cut Probability")
	if fed.CutProbability != nil {
		f.SetCellValue(sheetOverview, cellAt(2, row), fmt.Sprintf("%.0f%%", *fed.CutProbability*100))
	} else {
		f.SetCellValue(sheetOverview, cellAt(2, row), "N/A")
	}

	if len(snap.Failed) > 0 {
		row += 2
		f.SetCellValue(sheetOverview, cellAt(1, row), fmt.Sprintf("Fetch failures this cycle: %v", snap.Failed))
	}

	return f.SetColWidth(sheetOverview, "A", "E", 26)
}

func (e *XLSXExporter) writeWatchlist(f *excelize.File, snap *models.MarketSnapshot) error {
	if _, err := f.NewSheet(sheetTop); err != nil {
		return err
	}

	title, header := e.styles(f)
	top3, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFFF00"}},
	})

	f.SetCellValue(sheetTop, "A1", "TOP NASDAQ SWING TRADE OPPORTUNITIES")
	f.SetCellValue(sheetTop, "A2", "Updated: "+snap.GeneratedAt.In(e.loc).Format("January 2, 2006 at 3:04 PM MST")+" | Top 3 highlighted")
	f.SetCellStyle(sheetTop, "A1", "A1", title)

	headers := []string{
		"Rank", "Ticker", "Company", "Sector", "Price", "Prev Close",
		"Daily % Chg", "Mkt Cap ($B)", "Avg Vol (M)",
		"Swing Score", "Vol Score", "Mom Score", "Volume Score", "52wk Range",
	}
	for i, h := range headers {
		f.SetCellValue(sheetTop, cellAt(i+1, 3), h)
	}
	f.SetCellStyle(sheetTop, "A3", "N3", header)

	for i, s := range snap.Instruments {
		row := 4 + i
		f.SetCellValue(sheetTop, cellAt(1, row), s.Rank)
		f.SetCellValue(sheetTop, cellAt(2, row), s.Symbol)
		f.SetCellValue(sheetTop, cellAt(3, row), s.Company)
		f.SetCellValue(sheetTop, cellAt(4, row), s.Sector)
		f.SetCellValue(sheetTop, cellAt(5, row), s.Last)
		f.SetCellValue(sheetTop, cellAt(6, row), s.PrevClose)
		if s.PctChangeValid {
			f.SetCellValue(sheetTop, cellAt(7, row), fmt.Sprintf("%+.2f%%", s.PctChange))
		} else {
			f.SetCellValue(sheetTop, cellAt(7, row), "N/A")
		}
		f.SetCellValue(sheetTop, cellAt(8, row), s.MarketCap/1e9)
		f.SetCellValue(sheetTop, cellAt(9, row), s.AvgVolume/1e6)
		f.SetCellValue(sheetTop, cellAt(10, row), s.Composite)
		f.SetCellValue(sheetTop, cellAt(11, row), s.Volatility)
		f.SetCellValue(sheetTop, cellAt(12, row), s.Momentum)
		f.SetCellValue(sheetTop, cellAt(13, row), s.VolumeScore)
		f.SetCellValue(sheetTop, cellAt(14, row), fmt.Sprintf("$%.2f - $%.2f", s.Week52Low, s.Week52High))

		if s.Top {
			start, _ := excelize.CoordinatesToCellName(1, row)
			end, _ := excelize.CoordinatesToCellName(len(headers), row)
			f.SetCellStyle(sheetTop, start, end, top3)
		}
	}

	return f.SetColWidth(sheetTop, "A", "N", 14)
}

func (e *XLSXExporter) styles(f *excelize.File) (title, header int) {
	title, _ = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16, Color: "1F4E79"},
	})
	header, _ = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E79"}},
	})
	return title, header
}

func cellAt(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}

var _ drepo.Exporter = (*XLSXExporter)(nil)
