package chart

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"PixelTrader/internal/calculator"
	"PixelTrader/internal/model"
)

const (
	// NoDataText is the placeholder drawn for an empty series.
	NoDataText = "No data"

	bandPadding   = 0.3
	priceTicks    = 10
	volumeTicks   = 3
	maxDateLabels = 10
	minBodyHeight = 1.0

	// the price plot leaves this much height for the volume band and date axis
	reservedHeight = 150.0
	volumeGap      = 20.0
)

// Size is the canvas size in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SizeFor derives the canvas from the container width: at most 1000 wide,
// at least 500 tall and otherwise 0.6 of the width.
func SizeFor(containerWidth float64) Size {
	if containerWidth <= 0 {
		containerWidth = 800
	}
	w := math.Min(containerWidth, 1000)
	return Size{Width: w, Height: math.Max(500, w*0.6)}
}

// Margin is the space around the price plot reserved for axes.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

var DefaultMargin = Margin{Top: 20, Right: 20, Bottom: 80, Left: 60}

type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is a straight line between two points.
type Segment struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Candle is everything drawn for one bar.
type Candle struct {
	Index  int            `json:"index"`
	Bar    model.PriceBar `json:"bar"`
	Rising bool           `json:"rising"`
	Body   Rect           `json:"body"`
	Wick   Segment        `json:"wick"`
	Volume Rect           `json:"volume"`
}

// Overlay is the moving-average line split into runs of defined values.
type Overlay struct {
	Type     model.MAType `json:"type"`
	Period   int          `json:"period"`
	Segments [][]Point    `json:"segments"`
}

// Tick is an axis label at a pixel position.
type Tick struct {
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// Area is a rectangle given by its edges.
type Area struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Contains reports whether the point lies inside the area, edges included.
func (a Area) Contains(x, y float64) bool {
	return x >= a.Left && x <= a.Right && y >= a.Top && y <= a.Bottom
}

// Plan is the complete set of drawable primitives for one render.
type Plan struct {
	Size        Size        `json:"size"`
	Theme       model.Theme `json:"theme"`
	Placeholder string      `json:"placeholder,omitempty"`

	PriceArea  Area `json:"priceArea"`
	VolumeArea Area `json:"volumeArea"`

	Candles     []Candle `json:"candles,omitempty"`
	Overlay     *Overlay `json:"overlay,omitempty"`
	DateTicks   []Tick   `json:"dateTicks,omitempty"`
	PriceTicks  []Tick   `json:"priceTicks,omitempty"`
	VolumeTicks []Tick   `json:"volumeTicks,omitempty"`

	Band   BandScale   `json:"-"`
	Price  LinearScale `json:"-"`
	Volume LinearScale `json:"-"`
}

// Empty reports whether the plan only carries the placeholder.
func (p Plan) Empty() bool { return p.Placeholder != "" }

// Map turns a series and display options into a draw plan for a canvas of the given size.
func Map(series model.Series, opts model.DisplayOptions, size Size) Plan {
	opts = opts.Normalize()
	plan := Plan{Size: size, Theme: opts.Theme}
	if len(series) == 0 {
		plan.Placeholder = NoDataText
		return plan
	}

	m := DefaultMargin
	priceHeight := size.Height - reservedHeight
	plan.PriceArea = Area{Left: m.Left, Top: m.Top, Right: size.Width - m.Right, Bottom: priceHeight - m.Bottom}
	plan.VolumeArea = Area{Left: m.Left, Top: priceHeight + volumeGap, Right: size.Width - m.Right, Bottom: size.Height - volumeGap}

	plan.Band = NewBandScale(len(series), plan.PriceArea.Left, plan.PriceArea.Right, bandPadding)

	lo, hi := priceDomain(series)
	plan.Price = NewLinearScale(lo, hi, plan.PriceArea.Bottom, plan.PriceArea.Top).Nice(priceTicks)
	plan.Volume = NewLinearScale(0, float64(maxVolume(series)), plan.VolumeArea.Bottom, plan.VolumeArea.Top)

	plan.Candles = make([]Candle, len(series))
	for i, b := range series {
		plan.Candles[i] = layoutCandle(plan, i, b)
	}

	if opts.ShowMA {
		plan.Overlay = overlay(plan, calculator.MovingAverage(series, opts), opts)
	}

	plan.DateTicks = dateTicks(plan, series)
	plan.PriceTicks = priceAxis(plan)
	plan.VolumeTicks = volumeAxis(plan)
	return plan
}

func layoutCandle(plan Plan, i int, b model.PriceBar) Candle {
	x := plan.Band.Position(i)
	w := plan.Band.Bandwidth()
	cx := plan.Band.Center(i)

	yOpen := plan.Price.Map(b.Open)
	yClose := plan.Price.Map(b.Close)
	bodyTop := plan.Price.Map(math.Max(b.Open, b.Close))

	volTop := plan.Volume.Map(float64(b.Volume))
	volBase := plan.Volume.Map(0)
	if plan.Volume.D1 == 0 {
		// no volume anywhere: flat bars on the baseline
		volTop, volBase = plan.VolumeArea.Bottom, plan.VolumeArea.Bottom
	}

	return Candle{
		Index:  i,
		Bar:    b,
		Rising: b.Rising(),
		Body:   Rect{X: x, Y: bodyTop, W: w, H: math.Max(minBodyHeight, math.Abs(yOpen-yClose))},
		Wick: Segment{
			From: Point{X: cx, Y: plan.Price.Map(b.High)},
			To:   Point{X: cx, Y: plan.Price.Map(b.Low)},
		},
		Volume: Rect{X: x, Y: volTop, W: w, H: volBase - volTop},
	}
}

// overlay keeps only defined indicator values; an absent value ends the current run.
func overlay(plan Plan, line calculator.Line, opts model.DisplayOptions) *Overlay {
	ov := &Overlay{Type: opts.MAType, Period: opts.MAPeriod}
	var run []Point
	for i, v := range line {
		if !v.Valid {
			if len(run) > 0 {
				ov.Segments = append(ov.Segments, run)
				run = nil
			}
			continue
		}
		run = append(run, Point{X: plan.Band.Center(i), Y: plan.Price.Map(v.Float64)})
	}
	if len(run) > 0 {
		ov.Segments = append(ov.Segments, run)
	}
	return ov
}

// dateTicks labels every ceil(n/10)-th bar so at most ten dates are shown.
func dateTicks(plan Plan, series model.Series) []Tick {
	every := int(math.Ceil(float64(len(series)) / maxDateLabels))
	if every < 1 {
		every = 1
	}
	ticks := make([]Tick, 0, maxDateLabels)
	for i := 0; i < len(series); i += every {
		ticks = append(ticks, Tick{Pos: plan.Band.Center(i), Label: DateLabel(series[i].Date)})
	}
	return ticks
}

func priceAxis(plan Plan) []Tick {
	values := plan.Price.Ticks(priceTicks)
	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{Pos: plan.Price.Map(v), Label: Currency(v)}
	}
	return ticks
}

func volumeAxis(plan Plan) []Tick {
	if plan.Volume.D1 == 0 {
		return nil
	}
	values := plan.Volume.Ticks(volumeTicks)
	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{Pos: plan.Volume.Map(v), Label: CompactVolume(v)}
	}
	return ticks
}

// priceDomain spans the lowest low to the highest high. A flat or unusable range is
// widened so the scale never divides by zero.
func priceDomain(series model.Series) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, b := range series {
		if finiteValue(b.Low) && b.Low < lo {
			lo = b.Low
		}
		if finiteValue(b.High) && b.High > hi {
			hi = b.High
		}
	}
	switch {
	case math.IsInf(lo, 0) || math.IsInf(hi, 0):
		return 0, 1
	case lo == hi:
		return lo - 1, hi + 1
	case lo > hi:
		return hi, lo
	}
	return lo, hi
}

func maxVolume(series model.Series) int64 {
	var m int64
	for _, b := range series {
		if b.Volume > m {
			m = b.Volume
		}
	}
	return m
}

func finiteValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DateLabel formats an axis date like "Jan 02".
func DateLabel(t time.Time) string { return t.Format("Jan 02") }

// Currency formats a price like "$12.00".
func Currency(v float64) string { return "$" + calculator.Price(v) }

// CompactVolume abbreviates a volume with SI prefixes ("2.5M").
func CompactVolume(v float64) string {
	return strings.ReplaceAll(humanize.SIWithDigits(v, 1, ""), " ", "")
}
