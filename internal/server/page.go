package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"PixelTrader/internal/app"
	"PixelTrader/internal/calculator"
	"PixelTrader/internal/collector"
	"PixelTrader/internal/model"
	"PixelTrader/internal/notifier"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("").Funcs(template.FuncMap{
	"signed": calculator.Signed,
}).ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	State     app.State
	Display   *calculator.Display
	Chart     template.HTML
	Width     float64
	Periods   []string
	Intervals []string
	MATypes   []model.MAType

	// Milliseconds until the banner and the notice hide themselves.
	BannerMS int64
	NoticeMS int64
}

func remainingMS(b notifier.Banner, now time.Time) int64 {
	return max(0, b.Expires.Sub(now).Milliseconds())
}

func (s *Server) page(c *gin.Context) {
	width, ok := widthParam(c)
	if !ok {
		return
	}
	snap := s.dash.Snapshot()

	var svg bytes.Buffer
	if err := s.dash.RenderSVG(&svg, width); err != nil {
		_ = c.Error(err)
	}
	data := pageData{
		State:     snap,
		Chart:     template.HTML(svg.String()),
		Width:     width,
		Periods:   collector.Periods(),
		Intervals: collector.Intervals(),
		MATypes:   []model.MAType{model.MATypeSMA, model.MATypeEMA},
		BannerMS:  remainingMS(snap.Banner, s.now()),
		NoticeMS:  remainingMS(snap.Notice, s.now()),
	}
	if d, ok := snap.Display(); ok {
		data.Display = &d
	}

	var out bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&out, "dashboard.html", data); err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", out.Bytes())
}
