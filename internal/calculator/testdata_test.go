package calculator

import (
	"time"

	"PixelTrader/internal/model"
)

func day(d int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

// twoBars is the worked example used across the package tests.
func twoBars() model.Series {
	return model.Series{
		{Date: day(0), Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Date: day(1), Open: 11, High: 13, Low: 10, Close: 9, Volume: 200},
	}
}

func seriesFromCloses(closes ...float64) model.Series {
	s := make(model.Series, len(closes))
	for i, c := range closes {
		s[i] = model.PriceBar{Date: day(i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: int64(1000 + i)}
	}
	return s
}
