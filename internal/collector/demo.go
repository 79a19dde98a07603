package collector

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"PixelTrader/internal/model"
)

var demoBasePrices = map[string]float64{
	"AAPL":  180,
	"MSFT":  350,
	"GOOGL": 130,
	"TSLA":  200,
	"AMZN":  140,
	"NVDA":  900,
	"META":  320,
	"NFLX":  400,
}

var demoPeriodDays = map[string]int{
	"1d":  1,
	"5d":  5,
	"1mo": 30,
	"3mo": 90,
	"6mo": 180,
	"1y":  365,
	"2y":  730,
	"5y":  1825,
}

var demoCompanies = map[string]model.CompanyProfile{
	"AAPL": {Symbol: "AAPL", CompanyName: "Apple Inc.", Sector: "Technology", Industry: "Consumer Electronics",
		Website: "https://www.apple.com", Image: "https://logo.clearbit.com/apple.com"},
	"MSFT": {Symbol: "MSFT", CompanyName: "Microsoft Corporation", Sector: "Technology", Industry: "Software",
		Website: "https://www.microsoft.com", Image: "https://logo.clearbit.com/microsoft.com"},
	"GOOGL": {Symbol: "GOOGL", CompanyName: "Alphabet Inc.", Sector: "Technology", Industry: "Internet Content & Information",
		Website: "https://www.alphabet.com", Image: "https://logo.clearbit.com/google.com"},
}

// DemoSource generates a daily random walk per symbol. The walk is seeded from the symbol
// and period, so repeated fetches return the same bars for the same day.
type DemoSource struct {
	Now func() time.Time
}

func NewDemoSource() *DemoSource {
	return &DemoSource{Now: time.Now}
}

func (d *DemoSource) Name() string { return "demo" }

func (d *DemoSource) FetchCandles(ctx context.Context, symbol, period, interval string) (model.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	days, ok := demoPeriodDays[period]
	if !ok {
		days = 30
	}
	return d.walk(symbol, period, days), nil
}

func (d *DemoSource) walk(symbol, period string, days int) model.Series {
	price, ok := demoBasePrices[symbol]
	if !ok {
		price = 100
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s", symbol, period)
	rng := rand.New(rand.NewPCG(h.Sum64(), 0x5eed))

	end := d.Now().UTC().Truncate(24 * time.Hour)
	date := end.AddDate(0, 0, -days)

	series := make(model.Series, 0, days)
	for i := 0; i < days; i++ {
		price *= 1 + uniform(rng, -0.05, 0.05)
		open := price
		if i > 0 {
			open = series[i-1].Close * (1 + uniform(rng, -0.02, 0.02))
		}
		high := math.Max(price*uniform(rng, 1.001, 1.03), open)
		low := math.Min(price*uniform(rng, 0.97, 0.999), open)
		series = append(series, model.PriceBar{
			Date:   date,
			Open:   round2(open),
			High:   round2(high),
			Low:    round2(low),
			Close:  round2(price),
			Volume: 10_000_000 + rng.Int64N(90_000_001),
		})
		date = date.AddDate(0, 0, 1)
	}
	return series
}

func (d *DemoSource) FetchProfile(ctx context.Context, symbol string) *model.CompanyProfile {
	if p, ok := demoCompanies[symbol]; ok {
		return &p
	}
	return &model.CompanyProfile{
		Symbol:      symbol,
		CompanyName: symbol + " Corporation",
		Sector:      "Technology",
		Industry:    "Software",
		Description: fmt.Sprintf("Mock data for %s - this is demonstration data.", symbol),
	}
}

func (d *DemoSource) FetchNews(ctx context.Context, symbol string) []model.NewsItem {
	day := d.Now().UTC().Format("2006-01-02")
	return []model.NewsItem{
		{Title: symbol + " Reports Strong Quarterly Earnings", URL: "https://example.com/news1", PublishedDate: day},
		{Title: symbol + " Announces New Product Launch", URL: "https://example.com/news2", PublishedDate: day},
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
