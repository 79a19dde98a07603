package model

import (
	"encoding/json"
	"math"
)

// Summary holds the performance statistics of one series, at full precision.
type Summary struct {
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	AvgVolume     float64 `json:"avgVolume"`
	LatestClose   float64 `json:"latestClose"`
}

// PercentDefined is false when the first close was zero and no percentage exists.
func (s Summary) PercentDefined() bool {
	return !math.IsNaN(s.ChangePercent) && !math.IsInf(s.ChangePercent, 0)
}

// MarshalJSON writes an undefined percentage as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	type plain Summary
	out := struct {
		plain
		ChangePercent *float64 `json:"changePercent"`
	}{plain: plain(s)}
	if s.PercentDefined() {
		pct := s.ChangePercent
		out.ChangePercent = &pct
	}
	return json.Marshal(out)
}
