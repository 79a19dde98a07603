package calculator

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"PixelTrader/internal/model"
)

// Display is the summary as rendered in the performance panel.
type Display struct {
	Change        string `json:"change"`
	ChangePercent string `json:"changePercent"`
	High          string `json:"high"`
	Low           string `json:"low"`
	AvgVolume     string `json:"avgVolume"`
	LatestClose   string `json:"currentPrice"`
	Positive      bool   `json:"positive"`
}

// Format renders prices with two decimals and the average volume with thousands grouping.
func Format(s model.Summary) Display {
	d := Display{
		Change:      Price(s.Change),
		High:        Price(s.High),
		Low:         Price(s.Low),
		AvgVolume:   Volume(s.AvgVolume),
		LatestClose: Price(s.LatestClose),
		Positive:    s.Change >= 0,
	}
	if s.PercentDefined() {
		d.ChangePercent = Price(s.ChangePercent)
	} else {
		d.ChangePercent = "n/a"
	}
	return d
}

// Price formats v with exactly two decimals, rounding half away from zero.
func Price(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Volume rounds v to the nearest integer and groups thousands ("1,234,567").
func Volume(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return humanize.Comma(int64(math.Round(v)))
}

// Signed prefixes non-negative values with "+", as the panel headline does.
func Signed(formatted string, positive bool) string {
	if positive {
		return "+" + formatted
	}
	return formatted
}
