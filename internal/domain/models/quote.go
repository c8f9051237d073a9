package models

import "time"

// InstrumentQuote is one provider snapshot for a watchlist symbol.
// PrevClose <= 0 means percent-change is undefined for this quote.
type InstrumentQuote struct {
	Symbol      string    `json:"symbol"`
	Company     string    `json:"company"`
	Sector      string    `json:"sector"`
	Last        float64   `json:"last"`
	PrevClose   float64   `json:"prev_close"`
	DayHigh     float64   `json:"day_high"`
	DayLow      float64   `json:"day_low"`
	Volume      float64   `json:"volume"`
	AvgVolume   float64   `json:"avg_volume"` // 20-session average
	MarketCap   float64   `json:"market_cap"`
	Week52High  float64   `json:"week_52_high"`
	Week52Low   float64   `json:"week_52_low"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// InstrumentScore is the scored, rankable view of a quote. Composite is
// always within [0,100]; the three components are each within [0,100] too.
type InstrumentScore struct {
	Symbol     string  `json:"symbol"`
	Company    string  `json:"company"`
	Sector     string  `json:"sector"`
	Last       float64 `json:"last"`
	PrevClose  float64 `json:"prev_close"`
	MarketCap  float64 `json:"market_cap"`
	AvgVolume  float64 `json:"avg_volume"`
	Week52High float64 `json:"week_52_high"`
	Week52Low  float64 `json:"week_52_low"`

	PctChange      float64 `json:"pct_change"`
	PctChangeValid bool    `json:"pct_change_valid"`
	Volatility     float64 `json:"volatility"`
	Momentum       float64 `json:"momentum"`
	VolumeScore    float64 `json:"volume_score"`
	Composite      float64 `json:"composite"`

	Rank int  `json:"rank"` // 1-based, assigned after sorting
	Top  bool `json:"top"`  // first three ranks
}
