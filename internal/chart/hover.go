package chart

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"PixelTrader/internal/model"
)

// PlotArea is the region where the pointer shows the hover overlay:
// the price plot and the volume band beneath it.
func (p Plan) PlotArea() Area {
	return Area{
		Left:   p.PriceArea.Left,
		Top:    p.PriceArea.Top,
		Right:  p.PriceArea.Right,
		Bottom: p.VolumeArea.Bottom,
	}
}

// HoverAt returns the bar nearest to the pointer. It returns false when the plan
// has no data or the pointer is outside the plot area, which hides the overlay.
func (p Plan) HoverAt(x, y float64) (model.PriceBar, bool) {
	if p.Empty() || len(p.Candles) == 0 {
		return model.PriceBar{}, false
	}
	if !p.PlotArea().Contains(x, y) {
		return model.PriceBar{}, false
	}
	i, ok := p.Band.Nearest(x)
	if !ok {
		return model.PriceBar{}, false
	}
	return p.Candles[i].Bar, true
}

// Tooltip is the text of the hover overlay.
type Tooltip struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// TooltipFor formats a bar's full OHLCV. Volume is left out when it is zero.
func TooltipFor(b model.PriceBar) Tooltip {
	t := Tooltip{
		Title: b.Date.Format("Jan 02, 2006"),
		Lines: []string{
			fmt.Sprintf("Open: %s", Currency(b.Open)),
			fmt.Sprintf("Close: %s", Currency(b.Close)),
			fmt.Sprintf("High: %s", Currency(b.High)),
			fmt.Sprintf("Low: %s", Currency(b.Low)),
		},
	}
	if b.Volume != 0 {
		t.Lines = append(t.Lines, "Volume: "+humanize.Comma(b.Volume))
	}
	return t
}
