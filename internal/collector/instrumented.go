package collector

import (
	"context"
	"time"

	"PixelTrader/internal/metrics"
	"PixelTrader/internal/model"
)

// Instrumented wraps a Source and records request counts, failures and latency.
type Instrumented struct {
	Source
	m *metrics.Metrics
}

func NewInstrumented(src Source, m *metrics.Metrics) *Instrumented {
	return &Instrumented{Source: src, m: m}
}

func (i *Instrumented) observe(kind string, start time.Time, failed bool) {
	name := i.Source.Name()
	i.m.FetchTotal.WithLabelValues(name, kind).Inc()
	i.m.FetchDuration.WithLabelValues(name, kind).Observe(time.Since(start).Seconds())
	if failed {
		i.m.FetchFailures.WithLabelValues(name, kind).Inc()
	}
}

func (i *Instrumented) FetchCandles(ctx context.Context, symbol, period, interval string) (model.Series, error) {
	start := time.Now()
	series, err := i.Source.FetchCandles(ctx, symbol, period, interval)
	i.observe("candles", start, err != nil)
	return series, err
}

func (i *Instrumented) FetchProfile(ctx context.Context, symbol string) *model.CompanyProfile {
	start := time.Now()
	p := i.Source.FetchProfile(ctx, symbol)
	i.observe("profile", start, p == nil)
	return p
}

func (i *Instrumented) FetchNews(ctx context.Context, symbol string) []model.NewsItem {
	start := time.Now()
	items := i.Source.FetchNews(ctx, symbol)
	i.observe("news", start, len(items) == 0)
	return items
}
