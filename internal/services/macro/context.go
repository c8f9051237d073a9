package macro

import (
	"context"
	"sync"
	"time"

	"SwingPull/internal/domain/models"
	"SwingPull/internal/domain/repository"
	"SwingPull/pkg/config"
	"SwingPull/pkg/logger"
)

// Service builds the macro side of a snapshot: index futures, VIX, the
// 10-year yield, the dollar index and the Fed status. Every indicator is
// fetched independently so a single upstream miss degrades one field instead
// of failing the snapshot.
type Service struct {
	provider repository.QuoteProvider
	log      *logger.Logger

	indicators []config.IndexFuture
	vixSymbol  string
	timeout    time.Duration
}

func New(cfg *config.Config, provider repository.QuoteProvider, log *logger.Logger) *Service {
	indicators := make([]config.IndexFuture, 0, len(cfg.Macro.Futures)+3)
	indicators = append(indicators, cfg.Macro.Futures...)
	if cfg.Macro.VIXSymbol != "" {
		indicators = append(indicators, config.IndexFuture{Symbol: cfg.Macro.VIXSymbol, Name: "VIX (Fear Index)"})
	}
	if cfg.Macro.YieldSymbol != "" {
		indicators = append(indicators, config.IndexFuture{Symbol: cfg.Macro.YieldSymbol, Name: "10-Year Treasury Yield"})
	}
	if cfg.Macro.DollarSymbol != "" {
		indicators = append(indicators, config.IndexFuture{Symbol: cfg.Macro.DollarSymbol, Name: "US Dollar Index (DXY)"})
	}

	return &Service{
		provider:   provider,
		log:        log,
		indicators: indicators,
		vixSymbol:  cfg.Macro.VIXSymbol,
		timeout:    cfg.Provider.Timeout,
	}
}

// Build fetches all macro indicators concurrently and assembles the snapshot.
// It never returns an error: unavailable indicators are marked as such.
func (s *Service) Build(ctx context.Context) models.MacroSnapshot {
	out := make([]models.MacroIndicator, len(s.indicators))

	var wg sync.WaitGroup
	for i, ind := range s.indicators {
		wg.Add(1)
		go func(i int, symbol, name string) {
			defer wg.Done()
			out[i] = s.fetchIndicator(ctx, symbol, name)
		}(i, ind.Symbol, ind.Name)
	}
	wg.Wait()

	return models.MacroSnapshot{
		Futures: out,
		Verdict: Verdict(out),
		Fed:     s.fedStatus(time.Now()),
	}
}

func (s *Service) fetchIndicator(ctx context.Context, symbol, name string) models.MacroIndicator {
	fctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ind := models.MacroIndicator{Symbol: symbol, Name: name, Signal: models.SignalUnavailable}

	q, err := s.provider.FetchIndex(fctx, symbol)
	if err != nil {
		s.log.Warn("macro indicator unavailable", logger.String("symbol", symbol), logger.Error(err))
		return ind
	}

	ind.Level = q.Level
	ind.Change = q.Level - q.PrevClose
	if q.PrevClose != 0 {
		ind.Pct = ind.Change / q.PrevClose * 100
	}
	ind.Signal = Classify(symbol == s.vixSymbol, ind.Change, ind.Pct)
	ind.Valid = true
	return ind
}

// Classify maps a reading onto the dashboard signal vocabulary. The VIX is
// inverted: falling fear is a positive signal.
func Classify(isVIX bool, change, pct float64) string {
	if isVIX {
		if change < 0 {
			return models.SignalFearDown
		}
		return models.SignalFearUp
	}
	switch {
	case pct > 0.3:
		return models.SignalBullish
	case pct > 0:
		return models.SignalSlightlyBullish
	case pct > -0.3:
		return models.SignalNeutral
	default:
		return models.SignalBearish
	}
}

// Verdict summarises indicator breadth: four or more positive readings make
// a bullish tape, two or three a mixed one, anything less bearish.
func Verdict(indicators []models.MacroIndicator) string {
	positive := 0
	for _, ind := range indicators {
		switch ind.Signal {
		case models.SignalBullish, models.SignalSlightlyBullish, models.SignalFearDown:
			positive++
		}
	}
	switch {
	case positive >= 4:
		return models.VerdictBullish
	case positive >= 2:
		return models.VerdictMixed
	default:
		return models.VerdictBearish
	}
}

func (s *Service) fedStatus(now time.Time) models.FedStatus {
	odds := nextMeetingCutOdds
	return models.FedStatus{
		FundsRate:      fedFundsRate,
		LastDecision:   fedLastDecision,
		NextMeeting:    nextMeeting(now),
		CutProbability: &odds,
	}
}
