package chart

import "math"

// BandScale maps bar indices to equal-width slots across a pixel range.
// Inner and outer padding are both expressed as a fraction of the step.
type BandScale struct {
	n         int
	start     float64
	step      float64
	bandwidth float64
}

// NewBandScale lays out n slots over [r0, r1] with the given padding (0.3 for candles).
func NewBandScale(n int, r0, r1, padding float64) BandScale {
	if n <= 0 {
		return BandScale{}
	}
	step := (r1 - r0) / math.Max(1, float64(n)-padding+2*padding)
	start := r0 + (r1-r0-step*(float64(n)-padding))*0.5
	return BandScale{
		n:         n,
		start:     start,
		step:      step,
		bandwidth: step * (1 - padding),
	}
}

// Len is the number of slots.
func (b BandScale) Len() int { return b.n }

// Position returns the left edge of slot i.
func (b BandScale) Position(i int) float64 { return b.start + b.step*float64(i) }

// Center returns the horizontal midpoint of slot i.
func (b BandScale) Center(i int) float64 { return b.Position(i) + b.bandwidth/2 }

// Bandwidth is the drawable width of one slot.
func (b BandScale) Bandwidth() float64 { return b.bandwidth }

// Step is the distance between the left edges of adjacent slots.
func (b BandScale) Step() float64 { return b.step }

// Nearest returns the slot whose center is closest to x.
func (b BandScale) Nearest(x float64) (int, bool) {
	if b.n == 0 || b.step == 0 {
		return 0, false
	}
	i := int(math.Round((x - b.start - b.bandwidth/2) / b.step))
	if i < 0 {
		i = 0
	}
	if i >= b.n {
		i = b.n - 1
	}
	return i, true
}

// LinearScale maps a numeric domain onto a pixel range.
type LinearScale struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinearScale builds a scale from [d0, d1] to [r0, r1].
func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Map converts a domain value to a pixel position. A zero-width domain maps to the range midpoint.
func (s LinearScale) Map(v float64) float64 {
	span := s.D1 - s.D0
	if span == 0 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + (v-s.D0)/span*(s.R1-s.R0)
}

// Invert converts a pixel position back to a domain value.
func (s LinearScale) Invert(px float64) float64 {
	span := s.R1 - s.R0
	if span == 0 {
		return (s.D0 + s.D1) / 2
	}
	return s.D0 + (px-s.R0)/span*(s.D1-s.D0)
}

// Nice widens the domain outward to round bounds suitable for about count ticks.
// It repeats until the tick increment stops changing, at most ten times.
func (s LinearScale) Nice(count int) LinearScale {
	start, stop := s.D0, s.D1
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}
	var prev increment
	for iter := 0; iter < 10; iter++ {
		inc, ok := tickIncrement(start, stop, count)
		if !ok {
			break
		}
		if iter > 0 && inc == prev {
			break
		}
		start, stop = inc.floor(start), inc.ceil(stop)
		prev = inc
	}
	if reversed {
		start, stop = stop, start
	}
	s.D0, s.D1 = start, stop
	return s
}

// Ticks returns round values inside the domain, roughly count of them.
func (s LinearScale) Ticks(count int) []float64 {
	start, stop := s.D0, s.D1
	if stop < start {
		start, stop = stop, start
	}
	if start == stop {
		return []float64{start}
	}
	inc, ok := tickIncrement(start, stop, count)
	if !ok {
		return nil
	}
	lo := int64(math.Ceil(inc.scaled(start) - 1e-9))
	hi := int64(math.Floor(inc.scaled(stop) + 1e-9))
	ticks := make([]float64, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		ticks = append(ticks, inc.value(i))
	}
	return ticks
}

// increment is a tick spacing of either step (power >= 0) or 1/inverse (power < 0).
// Keeping the inverse avoids accumulating error for fractional steps like 0.1.
type increment struct {
	step    float64
	inverse float64
}

func (inc increment) scaled(v float64) float64 {
	if inc.inverse > 0 {
		return v * inc.inverse
	}
	return v / inc.step
}

func (inc increment) value(i int64) float64 {
	if inc.inverse > 0 {
		return float64(i) / inc.inverse
	}
	return float64(i) * inc.step
}

func (inc increment) floor(v float64) float64 {
	return inc.value(int64(math.Floor(inc.scaled(v))))
}

func (inc increment) ceil(v float64) float64 {
	return inc.value(int64(math.Ceil(inc.scaled(v))))
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickIncrement picks a 1, 2, 5 or 10 multiple of a power of ten.
func tickIncrement(start, stop float64, count int) (increment, bool) {
	if count <= 0 || !(stop > start) || math.IsInf(stop-start, 0) {
		return increment{}, false
	}
	raw := (stop - start) / float64(count)
	power := math.Floor(math.Log10(raw))
	errRatio := raw / math.Pow(10, power)
	factor := 1.0
	switch {
	case errRatio >= e10:
		factor = 10
	case errRatio >= e5:
		factor = 5
	case errRatio >= e2:
		factor = 2
	}
	if power >= 0 {
		return increment{step: factor * math.Pow(10, power)}, true
	}
	return increment{inverse: math.Pow(10, -power) / factor}, true
}
