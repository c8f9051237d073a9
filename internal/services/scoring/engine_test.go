package scoring

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SwingPull/internal/domain/models"
)

func TestScoreCompositeBounded(t *testing.T) {
	e := NewEngine()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		q := &models.InstrumentQuote{
			Symbol:    fmt.Sprintf("SYM%d", i),
			Last:      rng.Float64()*2000 - 500,
			PrevClose: rng.Float64()*2000 - 500,
			DayHigh:   rng.Float64() * 2000,
			DayLow:    rng.Float64() * 2000,
			Volume:    rng.Float64()*1e8 - 1e6,
			AvgVolume: rng.Float64()*1e8 - 1e6,
		}
		s := e.Score(q)
		assert.GreaterOrEqual(t, s.Composite, 0.0, "quote %+v", q)
		assert.LessOrEqual(t, s.Composite, 100.0, "quote %+v", q)
		assert.GreaterOrEqual(t, s.PctChange, -50.0)
		assert.LessOrEqual(t, s.PctChange, 50.0)
	}
}

func TestScoreZeroPrevCloseNeutral(t *testing.T) {
	e := NewEngine()
	s := e.Score(&models.InstrumentQuote{
		Symbol:    "ZZZ",
		Last:      100,
		PrevClose: 0,
		DayHigh:   110,
		DayLow:    90,
		Volume:    1_000_000,
		AvgVolume: 1_000_000,
	})

	assert.False(t, s.PctChangeValid)
	assert.Zero(t, s.PctChange)
	assert.Zero(t, s.Volatility)
	assert.Zero(t, s.Momentum)
	// volume ratio still contributes; composite stays bounded
	assert.InDelta(t, 50.0, s.VolumeScore, 1e-9)
	assert.GreaterOrEqual(t, s.Composite, 0.0)
	assert.LessOrEqual(t, s.Composite, 100.0)
}

func TestScoreNegativePrevClose(t *testing.T) {
	e := NewEngine()
	s := e.Score(&models.InstrumentQuote{Symbol: "NEG", Last: 10, PrevClose: -5})
	assert.False(t, s.PctChangeValid)
	assert.Zero(t, s.Composite)
}

func TestScoreComponentsCapAt100(t *testing.T) {
	e := NewEngine()
	s := e.Score(&models.InstrumentQuote{
		Symbol:    "CAP",
		Last:      300,
		PrevClose: 100,
		DayHigh:   300,
		DayLow:    50,
		Volume:    100_000_000,
		AvgVolume: 1_000_000,
	})
	assert.Equal(t, 100.0, s.Volatility)
	assert.Equal(t, 100.0, s.Momentum)
	assert.Equal(t, 100.0, s.VolumeScore)
	assert.Equal(t, 100.0, s.Composite)
	// direction survives the clamp for display
	assert.Equal(t, 50.0, s.PctChange)
}

func TestRankOrderAndTopFlags(t *testing.T) {
	e := NewEngine()
	aaa := e.Score(&models.InstrumentQuote{
		Symbol: "AAA", Last: 110, PrevClose: 100, DayHigh: 112, DayLow: 98,
		Volume: 2_000_000, AvgVolume: 1_000_000,
	})
	bbb := e.Score(&models.InstrumentQuote{
		Symbol: "BBB", Last: 100, PrevClose: 100, DayHigh: 101, DayLow: 99,
		Volume: 500_000, AvgVolume: 1_000_000,
	})

	assert.Greater(t, aaa.PctChange, bbb.PctChange)
	assert.Greater(t, aaa.Volatility, bbb.Volatility)
	assert.Greater(t, aaa.VolumeScore, bbb.VolumeScore)
	assert.Greater(t, aaa.Composite, bbb.Composite)

	ranked := Rank([]models.InstrumentScore{bbb, aaa})
	require.Len(t, ranked, 2)
	assert.Equal(t, "AAA", ranked[0].Symbol)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.True(t, ranked[0].Top)
	assert.Equal(t, "BBB", ranked[1].Symbol)
	assert.True(t, ranked[1].Top) // only two instruments, both within top 3
}

func TestRankTiesBreakBySymbol(t *testing.T) {
	tie := func(sym string) models.InstrumentScore {
		return models.InstrumentScore{Symbol: sym, Composite: 42.0}
	}
	ranked := Rank([]models.InstrumentScore{tie("ZZZ"), tie("MMM"), tie("AAA"), tie("BBB")})
	got := make([]string, len(ranked))
	for i, r := range ranked {
		got[i] = r.Symbol
	}
	assert.Equal(t, []string{"AAA", "BBB", "MMM", "ZZZ"}, got)
	assert.True(t, ranked[2].Top)
	assert.False(t, ranked[3].Top)
}
