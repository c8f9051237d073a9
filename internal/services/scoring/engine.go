package scoring

import (
	"math"
	"sort"

	"SwingPull/internal/domain/models"
)

// Fixed scoring parameters. The three component weights sum to 1.0 so the
// composite stays within [0,100] whenever the components do.
const (
	pctClampAbs = 50.0 // daily moves beyond +/-50% are treated as data glitches
	volScale    = 8.0  // (high-low)/prevClose ratio, in percent, times this
	momScale    = 5.0  // |pct change| times this
	volumeScale = 50.0 // volume/avgVolume ratio times this

	weightVolatility = 0.40
	weightMomentum   = 0.35
	weightVolume     = 0.25
)

// Engine converts provider quotes into bounded composite scores.
// It is pure: no I/O, no stored state, safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Score derives the component and composite scores for one quote. It never
// fails: missing or degenerate fields contribute a neutral zero instead.
func (e *Engine) Score(q *models.InstrumentQuote) models.InstrumentScore {
	s := models.InstrumentScore{
		Symbol:     q.Symbol,
		Company:    q.Company,
		Sector:     q.Sector,
		Last:       q.Last,
		PrevClose:  q.PrevClose,
		MarketCap:  q.MarketCap,
		AvgVolume:  q.AvgVolume,
		Week52High: q.Week52High,
		Week52Low:  q.Week52Low,
	}

	if q.PrevClose > 0 {
		s.PctChange = clamp((q.Last-q.PrevClose)/q.PrevClose*100, -pctClampAbs, pctClampAbs)
		s.PctChangeValid = true

		if q.DayHigh >= q.DayLow {
			ratio := (q.DayHigh - q.DayLow) / q.PrevClose * 100
			s.Volatility = math.Min(100, ratio*volScale)
		}
		s.Momentum = math.Min(100, math.Abs(s.PctChange)*momScale)
	}

	if q.AvgVolume > 0 && q.Volume > 0 {
		s.VolumeScore = math.Min(100, q.Volume/q.AvgVolume*volumeScale)
	}

	s.Composite = clamp(
		weightVolatility*s.Volatility+
			weightMomentum*s.Momentum+
			weightVolume*s.VolumeScore,
		0, 100)

	return s
}

// Rank sorts scores descending by composite, breaking ties by symbol
// ascending so the order is a stable total order, then assigns 1-based ranks
// and flags the first three as top picks.
func Rank(scores []models.InstrumentScore) []models.InstrumentScore {
	ranked := make([]models.InstrumentScore, len(scores))
	copy(ranked, scores)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Composite != ranked[j].Composite {
			return ranked[i].Composite > ranked[j].Composite
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].Top = i < 3
	}
	return ranked
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
