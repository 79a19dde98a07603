package calculator

import (
	"math"

	"github.com/guregu/null/v6"

	"PixelTrader/internal/model"
)

// Line is an indicator aligned index-for-index with the series it was computed from.
// Entries without enough history are invalid (absent).
type Line []null.Float

// Defined counts the entries that carry a value.
func (l Line) Defined() int {
	n := 0
	for _, v := range l {
		if v.Valid {
			n++
		}
	}
	return n
}

// SMA computes the simple moving average of closes over a trailing window of period bars.
// A period that is not positive or longer than the series yields an all-absent line.
func SMA(series model.Series, period int) Line {
	line := make(Line, len(series))
	if period <= 0 || period > len(series) {
		return line
	}
	closes := extractCloses(series)
	for i := period - 1; i < len(closes); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += closes[j]
		}
		line[i] = finite(sum / float64(period))
	}
	return line
}

// EMA computes the exponential moving average of closes, seeded with the SMA of the
// first period closes. Same degenerate-input rules as SMA.
func EMA(series model.Series, period int) Line {
	line := make(Line, len(series))
	if period <= 0 || period > len(series) {
		return line
	}
	closes := extractCloses(series)

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += closes[i]
	}
	line[period-1] = finite(seed / float64(period))

	k := 2.0 / float64(period+1)
	for i := period; i < len(closes); i++ {
		prev := line[i-1]
		if !prev.Valid {
			// a non-finite close broke the chain; leave the rest absent
			break
		}
		line[i] = finite(closes[i]*k + prev.Float64*(1-k))
	}
	return line
}

// MovingAverage picks SMA or EMA according to the display options.
func MovingAverage(series model.Series, opts model.DisplayOptions) Line {
	if opts.MAType == model.MATypeEMA {
		return EMA(series, opts.MAPeriod)
	}
	return SMA(series, opts.MAPeriod)
}

func finite(v float64) null.Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	return null.FloatFrom(v)
}

func extractCloses(series model.Series) []float64 {
	return series.Closes()
}
