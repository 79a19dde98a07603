package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PixelTrader/internal/app"
	"PixelTrader/internal/chart"
	"PixelTrader/internal/collector"
	"PixelTrader/internal/metrics"
	"PixelTrader/internal/model"
	"PixelTrader/internal/notifier"
	"PixelTrader/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *app.Controller) {
	t.Helper()
	m := metrics.New()
	src := &collector.DemoSource{Now: func() time.Time { return fixedNow }}

	ctx, cancel := context.WithCancel(context.Background())
	ctrl := app.NewController(ctx, app.Config{
		Source:  src,
		Prefs:   store.NewPrefs(store.NewMemoryStore(), "AAPL"),
		Metrics: m,
		Defaults: app.Defaults{
			Symbol: "AAPL", Period: "1mo", Interval: "1d", Options: model.DefaultDisplayOptions(),
		},
		Now: func() time.Time { return fixedNow },
	})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ctrl.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool {
		snap := ctrl.Snapshot()
		return snap.HasData() && snap.Profile != nil
	}, 2*time.Second, 5*time.Millisecond)
	return New(ctrl, m, Options{Addr: ":0", Now: func() time.Time { return fixedNow }}), ctrl
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

type stateResponse struct {
	Symbol    string               `json:"symbol"`
	Period    string               `json:"period"`
	Watchlist []string             `json:"watchlist"`
	Options   model.DisplayOptions `json:"options"`
	Display   *struct {
		LatestClose string `json:"currentPrice"`
	} `json:"display"`
	Periods []string `json:"periods"`
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) stateResponse {
	t.Helper()
	var out stateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthAndRequestID(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	assert.NoError(t, err)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, id)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))
}

func TestState(t *testing.T) {
	s, _ := newTestServer(t)

	st := decodeState(t, do(t, s, http.MethodGet, "/api/state", nil))
	assert.Equal(t, "AAPL", st.Symbol)
	assert.Equal(t, []string{"AAPL"}, st.Watchlist)
	require.NotNil(t, st.Display)
	assert.NotEmpty(t, st.Display.LatestClose)
	assert.Len(t, st.Periods, 11)
}

func TestChartSVG(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/chart.svg?width=640", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/chart.svg?width=wide", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/plan?width=-5", nil).Code)
	for _, w := range []string{"NaN", "Inf", "-Inf", "0"} {
		assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/plan?width="+w, nil).Code, w)
		assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/hover?x=1&y=1&width="+w, nil).Code, w)
	}
}

func TestHover(t *testing.T) {
	s, ctrl := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/plan?width=800", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var plan chart.Plan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.NotEmpty(t, plan.Candles)

	first := plan.Candles[0]
	x := first.Body.X + first.Body.W/2
	y := plan.PriceArea.Top + 1
	rec = do(t, s, http.MethodGet, fmt.Sprintf("/api/hover?width=800&x=%g&y=%g", x, y), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var hover struct {
		Bar     model.PriceBar `json:"bar"`
		Tooltip chart.Tooltip  `json:"tooltip"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hover))
	assert.True(t, ctrl.Snapshot().Series[0].Date.Equal(hover.Bar.Date))
	assert.NotEmpty(t, hover.Tooltip.Lines)

	assert.Equal(t, http.StatusNoContent, do(t, s, http.MethodGet, "/api/hover?width=800&x=0&y=0", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/hover?x=1", nil).Code)
}

func TestActions(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/actions", map[string]any{"type": "setPeriod", "value": "6mo"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "6mo", decodeState(t, rec).Period)

	rec = do(t, s, http.MethodPost, "/api/actions", map[string]any{"type": "setMA", "showMA": true, "maType": "ema", "maPeriod": 20})
	require.Equal(t, http.StatusOK, rec.Code)
	opts := decodeState(t, rec).Options
	assert.True(t, opts.ShowMA)
	assert.Equal(t, model.MATypeEMA, opts.MAType)
	assert.Equal(t, 20, opts.MAPeriod)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/actions", map[string]any{"type": "candlesLoaded"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/actions", map[string]any{"value": "x"}).Code)
}

func TestKeys(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/keys", map[string]any{"key": "t", "focus": "INPUT"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/keys", map[string]any{"key": "t", "focus": "BODY"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ThemeLight, decodeState(t, rec).Options.Theme)

	assert.Equal(t, http.StatusNoContent, do(t, s, http.MethodPost, "/api/keys", map[string]any{"key": "q"}).Code)
}

func TestWatchlistRoutes(t *testing.T) {
	s, ctrl := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/watchlist", map[string]any{"symbol": "msft"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"watchlist":["AAPL","MSFT"],"selected":"AAPL"}`, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/watchlist", map[string]any{"symbol": "NOT A SYMBOL"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/watchlist/aapl", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"watchlist":["MSFT"],"selected":"MSFT"}`, rec.Body.String())

	require.Eventually(t, func() bool {
		snap := ctrl.Snapshot()
		return !snap.Loading && snap.Profile != nil && snap.Profile.Symbol == "MSFT"
	}, 2*time.Second, 5*time.Millisecond)

	rec = do(t, s, http.MethodGet, "/api/watchlist", nil)
	assert.JSONEq(t, `{"watchlist":["MSFT"],"selected":"MSFT"}`, rec.Body.String())
}

func TestExportCSV(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/export.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="AAPL_1mo_1d_2024-03-04.csv"`, rec.Header().Get("Content-Disposition"))

	series, err := app.ReadCSV(rec.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, series)
}

func TestPageAndMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>PixelTrader | AAPL</title>")
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "Apple Inc.")

	rec = do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pixeltrader_actions_total")
}

func TestPageWiresHoverOverlay(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/?width=640", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<div class="panel chart" data-width="640">`)
	assert.Contains(t, body, `<div id="hover-overlay" hidden></div>`)
	assert.Contains(t, body, `fetch("/api/hover?" + params)`)
	assert.Contains(t, body, `addEventListener("mouseleave"`)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/?width=NaN", nil).Code)
}

func TestPageBannersDismissThemselves(t *testing.T) {
	s, ctrl := newTestServer(t)

	_, err := ctrl.DispatchWait(context.Background(), app.SelectSymbol("NOT VALID"))
	require.NoError(t, err)
	_, err = ctrl.DispatchWait(context.Background(), app.Notify(notifier.LevelNotice, "Exported"))
	require.NoError(t, err)

	body := do(t, s, http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, `class="banner" role="alert" data-dismiss-ms="5000"`)
	assert.Contains(t, body, `<div class="notice" data-dismiss-ms="3000">Exported</div>`)
}

func TestRemainingMS(t *testing.T) {
	b := notifier.NewBanner(notifier.LevelError, "boom", fixedNow, 5*time.Second)
	assert.Equal(t, int64(5000), remainingMS(b, fixedNow))
	assert.Equal(t, int64(1500), remainingMS(b, fixedNow.Add(3500*time.Millisecond)))
	assert.Equal(t, int64(0), remainingMS(b, fixedNow.Add(time.Minute)))
}
