package chart

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"
)

// RenderSVG draws the plan as a standalone SVG document.
func RenderSVG(w io.Writer, plan Plan) error {
	bw := bufio.NewWriter(w)
	r := &svgWriter{w: bw}
	pal := PaletteFor(plan.Theme)

	r.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" class="price-chart-svg">`,
		num(plan.Size.Width), num(plan.Size.Height), num(plan.Size.Width), num(plan.Size.Height))
	r.printf(`<rect width="100%%" height="100%%" fill="%s"/>`, pal.Background)

	if plan.Empty() {
		r.printf(`<text x="%s" y="%s" text-anchor="middle" fill="%s" font-size="24">%s</text>`,
			num(plan.Size.Width/2), num(plan.Size.Height/2), pal.Placeholder, html.EscapeString(plan.Placeholder))
		r.printf(`</svg>`)
		if r.err != nil {
			return fmt.Errorf("render svg: %w", r.err)
		}
		return bw.Flush()
	}

	r.printf(`<defs><filter id="glow"><feGaussianBlur stdDeviation="3.5" result="coloredBlur"/><feMerge><feMergeNode in="coloredBlur"/><feMergeNode in="SourceGraphic"/></feMerge></filter></defs>`)

	// volume first so candles paint over any overlap
	r.printf(`<g class="volume-chart">`)
	for _, c := range plan.Candles {
		r.printf(`<rect class="volume-bar" x="%s" y="%s" width="%s" height="%s" fill="%s" opacity="0.6"/>`,
			num(c.Volume.X), num(c.Volume.Y), num(c.Volume.W), num(c.Volume.H), pal.volume(c.Rising))
	}
	r.axisLeft(plan.VolumeArea.Left, plan.VolumeTicks, pal.VolumeAxis)
	r.printf(`</g>`)

	r.printf(`<g class="price-chart">`)
	for _, c := range plan.Candles {
		color := pal.candle(c.Rising)
		r.printf(`<line class="candle-wick" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="2" opacity="0.8"/>`,
			num(c.Wick.From.X), num(c.Wick.From.Y), num(c.Wick.To.X), num(c.Wick.To.Y), color)
		r.printf(`<rect class="candle-body" data-index="%d" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" opacity="0.8"/>`,
			c.Index, num(c.Body.X), num(c.Body.Y), num(c.Body.W), num(c.Body.H), color, color)
	}
	r.axisBottom(plan.PriceArea.Bottom, plan.DateTicks, pal.Axis)
	r.axisLeft(plan.PriceArea.Left, plan.PriceTicks, pal.Axis)
	r.printf(`</g>`)

	if plan.Overlay != nil {
		for _, seg := range plan.Overlay.Segments {
			r.printf(`<path class="ma-line" d="%s" fill="none" stroke="%s" stroke-width="3" stroke-linecap="round" filter="url(#glow)"/>`,
				pathData(seg), pal.Overlay)
		}
	}

	r.printf(`</svg>`)
	if r.err != nil {
		return fmt.Errorf("render svg: %w", r.err)
	}
	return bw.Flush()
}

type svgWriter struct {
	w   io.Writer
	err error
}

func (r *svgWriter) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *svgWriter) axisLeft(x float64, ticks []Tick, color string) {
	r.printf(`<g class="axis axis-left" fill="%s" font-size="10" text-anchor="end">`, color)
	for _, t := range ticks {
		r.printf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`, num(x-6), num(t.Pos), num(x), num(t.Pos), color)
		r.printf(`<text x="%s" y="%s" dy="0.32em">%s</text>`, num(x-9), num(t.Pos), html.EscapeString(t.Label))
	}
	r.printf(`</g>`)
}

func (r *svgWriter) axisBottom(y float64, ticks []Tick, color string) {
	r.printf(`<g class="axis axis-bottom" fill="%s" font-size="10" text-anchor="middle">`, color)
	for _, t := range ticks {
		r.printf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`, num(t.Pos), num(y), num(t.Pos), num(y+6), color)
		r.printf(`<text x="%s" y="%s" dy="0.71em">%s</text>`, num(t.Pos), num(y+9), html.EscapeString(t.Label))
	}
	r.printf(`</g>`)
}

func pathData(points []Point) string {
	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString("L")
		}
		b.WriteString(num(p.X))
		b.WriteString(",")
		b.WriteString(num(p.Y))
	}
	return b.String()
}

func num(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
