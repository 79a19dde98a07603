package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"PixelTrader/internal/app"
	"PixelTrader/internal/chart"
	"PixelTrader/internal/metrics"
)

// Dashboard is the part of the controller the HTTP layer talks to.
type Dashboard interface {
	Snapshot() app.State
	DispatchWait(ctx context.Context, a app.Action) (app.State, error)
	Plan(containerWidth float64) chart.Plan
	RenderSVG(w io.Writer, containerWidth float64) error
	ExportCSV() (filename string, data []byte, err error)
}

type Options struct {
	Addr        string
	CORSOrigins []string
	Now         func() time.Time // clock for banner lifetimes on the page, time.Now when nil
}

// Server serves the dashboard page and its JSON API.
type Server struct {
	dash    Dashboard
	metrics *metrics.Metrics
	engine  *gin.Engine
	http    *http.Server
	now     func() time.Time
}

func New(dash Dashboard, m *metrics.Metrics, opts Options) *Server {
	s := &Server{dash: dash, metrics: m, now: opts.Now}
	if s.now == nil {
		s.now = time.Now
	}

	r := gin.New()
	_ = r.SetTrustedProxies(nil)
	r.Use(gin.Recovery(), requestID(), accessLog())
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
			ExposeHeaders: []string{"Content-Length", "Content-Disposition", requestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}
	s.routes(r)
	s.engine = r

	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.http.Addr).Msg("http server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/", s.page)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/state", s.state)
		api.GET("/chart.svg", s.chartSVG)
		api.GET("/plan", s.plan)
		api.GET("/hover", s.hover)
		api.GET("/export.csv", s.exportCSV)
		api.POST("/actions", s.action)
		api.POST("/keys", s.key)
	}

	wl := api.Group("/watchlist")
	{
		wl.GET("", s.watchlist)
		wl.POST("", s.addSymbol)
		wl.DELETE("/:symbol", s.removeSymbol)
	}
}
