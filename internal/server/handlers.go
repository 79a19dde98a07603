package server

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"PixelTrader/internal/app"
	"PixelTrader/internal/calculator"
	"PixelTrader/internal/chart"
	"PixelTrader/internal/collector"
	"PixelTrader/internal/model"
	"PixelTrader/internal/notifier"
)

const defaultWidth = 960

// stateView is the JSON form of a snapshot with the formatted panel attached.
type stateView struct {
	app.State
	Display   *calculator.Display `json:"display"`
	Periods   []string            `json:"periods"`
	Intervals []string            `json:"intervals"`
}

func newStateView(s app.State) stateView {
	v := stateView{State: s, Periods: collector.Periods(), Intervals: collector.Intervals()}
	if d, ok := s.Display(); ok {
		v.Display = &d
	}
	return v
}

type actionRequest struct {
	Type     string `json:"type" binding:"required"`
	Value    string `json:"value"`
	ShowMA   bool   `json:"showMA"`
	MAType   string `json:"maType"`
	MAPeriod int    `json:"maPeriod"`
	Level    string `json:"level"`
	Message  string `json:"message"`
}

func (r actionRequest) action() (app.Action, error) {
	typ, ok := app.ParseActionType(r.Type)
	if !ok {
		return app.Action{}, fmt.Errorf("unknown action %q", r.Type)
	}
	level := notifier.LevelNotice
	if r.Level == string(notifier.LevelError) {
		level = notifier.LevelError
	}
	return app.Action{
		Type:     typ,
		Value:    r.Value,
		ShowMA:   r.ShowMA,
		MAType:   model.ParseMAType(r.MAType),
		MAPeriod: r.MAPeriod,
		Level:    level,
		Message:  r.Message,
	}, nil
}

type keyRequest struct {
	Key   string `json:"key" binding:"required"`
	Focus string `json:"focus"`
}

type symbolRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

func (s *Server) health(c *gin.Context) {
	snap := s.dash.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"symbol":     snap.Symbol,
		"loading":    snap.Loading,
		"generation": snap.Generation,
	})
}

func (s *Server) state(c *gin.Context) {
	c.JSON(http.StatusOK, newStateView(s.dash.Snapshot()))
}

func (s *Server) chartSVG(c *gin.Context) {
	width, ok := widthParam(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.dash.RenderSVG(&buf, width); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart"})
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (s *Server) plan(c *gin.Context) {
	width, ok := widthParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.dash.Plan(width))
}

func (s *Server) hover(c *gin.Context) {
	width, ok := widthParam(c)
	if !ok {
		return
	}
	x, errX := strconv.ParseFloat(c.Query("x"), 64)
	y, errY := strconv.ParseFloat(c.Query("y"), 64)
	if errX != nil || errY != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "x and y are required numbers"})
		return
	}
	bar, ok := s.dash.Plan(width).HoverAt(x, y)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bar": bar, "tooltip": chart.TooltipFor(bar)})
}

func (s *Server) action(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := req.action()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.dispatch(c, a)
}

func (s *Server) key(c *gin.Context) {
	var req keyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, ok := app.KeyAction(req.Key, req.Focus)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	s.dispatch(c, a)
}

func (s *Server) watchlist(c *gin.Context) {
	snap := s.dash.Snapshot()
	c.JSON(http.StatusOK, gin.H{"watchlist": snap.Watchlist, "selected": snap.Symbol})
}

func (s *Server) addSymbol(c *gin.Context) {
	var req symbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := collector.NormalizeSymbol(req.Symbol); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.watchlistUpdate(c, app.AddSymbol(req.Symbol))
}

func (s *Server) removeSymbol(c *gin.Context) {
	s.watchlistUpdate(c, app.RemoveSymbol(c.Param("symbol")))
}

func (s *Server) watchlistUpdate(c *gin.Context, a app.Action) {
	snap, err := s.dash.DispatchWait(c.Request.Context(), a)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"watchlist": snap.Watchlist, "selected": snap.Symbol})
}

func (s *Server) exportCSV(c *gin.Context) {
	name, data, err := s.dash.ExportCSV()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (s *Server) dispatch(c *gin.Context, a app.Action) {
	snap, err := s.dash.DispatchWait(c.Request.Context(), a)
	if err != nil {
		log.Warn().Err(err).Str("action", a.Type.String()).Msg("dispatch")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newStateView(snap))
}

// widthParam reads the container width, defaulting when absent. It writes a 400 and
// returns false on a malformed value.
func widthParam(c *gin.Context) (float64, bool) {
	raw := c.Query("width")
	if raw == "" {
		return defaultWidth, true
	}
	w, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width must be a positive number"})
		return 0, false
	}
	return w, true
}
