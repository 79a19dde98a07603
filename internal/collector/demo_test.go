package collector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedDemo() *DemoSource {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	return &DemoSource{Now: func() time.Time { return now }}
}

func TestDemoCandlesDeterministic(t *testing.T) {
	d := fixedDemo()
	a, err := d.FetchCandles(context.Background(), "AAPL", "1mo", "1d")
	require.NoError(t, err)
	b, err := d.FetchCandles(context.Background(), "AAPL", "1mo", "1d")
	require.NoError(t, err)

	require.Len(t, a, 30)
	assert.Equal(t, a, b)

	other, _ := d.FetchCandles(context.Background(), "MSFT", "1mo", "1d")
	assert.NotEqual(t, a[0].Close, other[0].Close)
}

func TestDemoCandlesShape(t *testing.T) {
	d := fixedDemo()
	series, err := d.FetchCandles(context.Background(), "NVDA", "3mo", "1d")
	require.NoError(t, err)
	require.Len(t, series, 90)

	for i, b := range series {
		assert.GreaterOrEqual(t, b.High, b.Open, "bar %d", i)
		assert.GreaterOrEqual(t, b.High, b.Close, "bar %d", i)
		assert.LessOrEqual(t, b.Low, b.Open, "bar %d", i)
		assert.LessOrEqual(t, b.Low, b.Close, "bar %d", i)
		assert.GreaterOrEqual(t, b.Volume, int64(10_000_000))
		assert.LessOrEqual(t, b.Volume, int64(100_000_000))
		if i > 0 {
			assert.True(t, series[i-1].Date.Before(b.Date))
		}
	}
	// first bar starts from the base price and moves at most 5%
	assert.InDelta(t, 900, series[0].Close, 900*0.05+0.01)
}

func TestDemoUnknownPeriodDefaults(t *testing.T) {
	series, err := fixedDemo().FetchCandles(context.Background(), "XYZ", "max", "1d")
	require.NoError(t, err)
	assert.Len(t, series, 30)
	assert.InDelta(t, 100, series[0].Close, 5.01)
}

func TestDemoCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fixedDemo().FetchCandles(ctx, "AAPL", "1mo", "1d")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDemoProfile(t *testing.T) {
	d := fixedDemo()
	assert.Equal(t, "Apple Inc.", d.FetchProfile(context.Background(), "AAPL").CompanyName)
	assert.Equal(t, "ZZZ Corporation", d.FetchProfile(context.Background(), "ZZZ").CompanyName)
	news := d.FetchNews(context.Background(), "ZZZ")
	require.NotEmpty(t, news)
	assert.Equal(t, "2025-06-01", news[0].PublishedDate)
}
