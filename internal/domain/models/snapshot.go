package models

import "time"

// MarketSnapshot is one complete, immutable result of a refresh cycle.
// Instruments are ranked descending by composite score with ties broken by
// symbol ascending; the first three carry Top=true. Failed lists the symbols
// whose fetch did not succeed this cycle. Owned by the snapshot cache and
// replaced atomically on publish, never mutated in place.
type MarketSnapshot struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Instruments []InstrumentScore `json:"instruments"`
	Macro       MacroSnapshot     `json:"macro"`
	Failed      []string          `json:"failed,omitempty"`
}

// Top3 returns the flagged leaders in rank order.
func (s *MarketSnapshot) Top3() []InstrumentScore {
	out := make([]InstrumentScore, 0, 3)
	for _, in := range s.Instruments {
		if in.Top {
			out = append(out, in)
		}
	}
	return out
}
