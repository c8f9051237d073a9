package models

import "time"

// Macro indicator signals, matching the dashboard vocabulary.
const (
	SignalBullish         = "BULLISH"
	SignalSlightlyBullish = "SLIGHTLY BULLISH"
	SignalNeutral         = "NEUTRAL"
	SignalBearish         = "BEARISH"
	SignalFearUp          = "INCREASING FEAR"
	SignalFearDown        = "DECREASING FEAR"
	SignalUnavailable     = "N/A"
)

// Verdict summarises futures breadth across the macro indicators.
const (
	VerdictBullish = "BULLISH"
	VerdictMixed   = "MIXED"
	VerdictBearish = "BEARISH"
)

// MacroIndicator is one futures/index reading. Valid=false marks a field the
// upstream could not deliver this cycle; Level/Change/Pct are zero then.
type MacroIndicator struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Level  float64 `json:"level"`
	Change float64 `json:"change"`
	Pct    float64 `json:"pct"`
	Signal string  `json:"signal"`
	Valid  bool    `json:"valid"`
}

// FedStatus is the static/periodically maintained FOMC view.
type FedStatus struct {
	FundsRate      string     `json:"funds_rate"`
	LastDecision   string     `json:"last_decision"`
	NextMeeting    *time.Time `json:"next_meeting,omitempty"`
	CutProbability *float64   `json:"cut_probability,omitempty"` // nullable, upstream optional
}

// MacroSnapshot aggregates futures, volatility, rates and Fed context.
// Immutable once constructed.
type MacroSnapshot struct {
	Futures []MacroIndicator `json:"futures"`
	Verdict string           `json:"verdict"`
	Fed     FedStatus        `json:"fed"`
}
