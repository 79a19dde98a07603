package model

import "time"

// PriceBar represents a single candlestick bar.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Rising reports whether the bar closed at or above its open.
func (b PriceBar) Rising() bool {
	return b.Close >= b.Open
}

// Series is a chronologically ordered run of bars, oldest first.
type Series []PriceBar

// Closes returns the close prices in series order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}
