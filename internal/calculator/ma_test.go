package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PixelTrader/internal/model"
)

func TestSMA_WorkedExample(t *testing.T) {
	line := SMA(twoBars(), 2)
	require.Len(t, line, 2)
	assert.False(t, line[0].Valid)
	require.True(t, line[1].Valid)
	assert.InDelta(t, 10.0, line[1].Float64, 1e-12)
}

func TestSMA_Window(t *testing.T) {
	s := seriesFromCloses(1, 2, 3, 4, 5, 6)
	line := SMA(s, 3)
	require.Len(t, line, len(s))
	for i := 0; i < 2; i++ {
		assert.False(t, line[i].Valid, "index %d should be absent", i)
	}
	want := []float64{2, 3, 4, 5}
	for i, w := range want {
		require.True(t, line[i+2].Valid)
		assert.InDelta(t, w, line[i+2].Float64, 1e-12)
	}
	assert.Equal(t, 4, line.Defined())
}

func TestMovingAverages_ShortOrInvalidPeriod(t *testing.T) {
	s := seriesFromCloses(1, 2, 3)
	for _, period := range []int{-1, 0, 4, 50} {
		for name, line := range map[string]Line{"sma": SMA(s, period), "ema": EMA(s, period)} {
			assert.Len(t, line, len(s), "%s period %d", name, period)
			assert.Zero(t, line.Defined(), "%s period %d", name, period)
		}
	}
	assert.Empty(t, SMA(nil, 3))
	assert.Empty(t, EMA(model.Series{}, 3))
}

func TestEMA_SeedMatchesSMA(t *testing.T) {
	s := seriesFromCloses(10, 11, 12, 13, 12, 14, 15, 13, 16, 17)
	for _, period := range []int{1, 3, 5, 10} {
		sma := SMA(s, period)
		ema := EMA(s, period)
		require.True(t, ema[period-1].Valid)
		assert.InDelta(t, sma[period-1].Float64, ema[period-1].Float64, 1e-12, "period %d", period)
		for i := 0; i < period-1; i++ {
			assert.False(t, ema[i].Valid)
		}
	}
}

func TestEMA_Recurrence(t *testing.T) {
	s := seriesFromCloses(2, 4, 6, 8)
	line := EMA(s, 2)
	k := 2.0 / 3.0
	seed := 3.0
	next := 6*k + seed*(1-k)
	last := 8*k + next*(1-k)
	assert.InDelta(t, seed, line[1].Float64, 1e-12)
	assert.InDelta(t, next, line[2].Float64, 1e-12)
	assert.InDelta(t, last, line[3].Float64, 1e-12)
}

func TestEMA_PeriodOneTracksCloses(t *testing.T) {
	s := seriesFromCloses(5, 7, 3)
	line := EMA(s, 1)
	for i, b := range s {
		assert.InDelta(t, b.Close, line[i].Float64, 1e-12)
	}
}

func TestSMA_NonFiniteCloseIsAbsent(t *testing.T) {
	s := seriesFromCloses(1, 2, 3, 4)
	s[1].Close = math.NaN()
	line := SMA(s, 2)
	assert.False(t, line[1].Valid)
	assert.False(t, line[2].Valid)
	require.True(t, line[3].Valid)
	assert.InDelta(t, 3.5, line[3].Float64, 1e-12)
}

func TestMovingAverage_DispatchesOnType(t *testing.T) {
	s := seriesFromCloses(2, 4, 6, 8)
	sma := MovingAverage(s, model.DisplayOptions{MAType: model.MATypeSMA, MAPeriod: 2})
	ema := MovingAverage(s, model.DisplayOptions{MAType: model.MATypeEMA, MAPeriod: 2})
	assert.Equal(t, SMA(s, 2), sma)
	assert.Equal(t, EMA(s, 2), ema)
}
