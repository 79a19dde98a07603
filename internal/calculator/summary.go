package calculator

import (
	"math"

	"PixelTrader/internal/model"
)

// Summarize computes change, range, average volume and latest close over the whole series.
// It returns false when fewer than two bars are available.
//
// A zero first close leaves ChangePercent as NaN; callers check Summary.PercentDefined.
func Summarize(series model.Series) (model.Summary, bool) {
	if len(series) < 2 {
		return model.Summary{}, false
	}
	first := series[0]
	last := series[len(series)-1]

	change := last.Close - first.Close
	pct := math.NaN()
	if first.Close != 0 {
		pct = change / first.Close * 100
	}

	high, low := priceRange(series)
	return model.Summary{
		Change:        change,
		ChangePercent: pct,
		High:          high,
		Low:           low,
		AvgVolume:     averageVolume(series),
		LatestClose:   last.Close,
	}, true
}

// priceRange scans the series for the highest high and lowest low.
func priceRange(series model.Series) (high, low float64) {
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range series {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low
}

func averageVolume(series model.Series) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, b := range series {
		sum += float64(b.Volume)
	}
	return sum / float64(len(series))
}
