package app

import (
	"time"

	"PixelTrader/internal/model"
)

var t0 = time.Date(2024, 1, 3, 9, 30, 0, 0, time.UTC)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

// twoBars is the worked example: change -2, percent -18.18.
func twoBars() model.Series {
	return model.Series{
		{Date: day(1), Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Date: day(2), Open: 11, High: 13, Low: 10, Close: 9, Volume: 200},
	}
}

func testDefaults() Defaults {
	return Defaults{Symbol: "AAPL", Period: "1mo", Interval: "1d", Options: model.DefaultDisplayOptions()}
}

func testReducer() Reducer {
	return Reducer{BannerTTL: 5 * time.Second, NoticeTTL: 3 * time.Second}
}

func effectKinds(effects []Effect) []EffectKind {
	kinds := make([]EffectKind, len(effects))
	for i, e := range effects {
		kinds[i] = e.Kind
	}
	return kinds
}
