package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the dashboard.
type Metrics struct {
	registry *prometheus.Registry

	// Data access
	FetchTotal    *prometheus.CounterVec   // labels: source, kind
	FetchFailures *prometheus.CounterVec   // labels: source, kind
	FetchDuration *prometheus.HistogramVec // labels: source, kind

	// Controller
	ActionsTotal    *prometheus.CounterVec // labels: action
	StaleResults    prometheus.Counter
	SeriesBars      prometheus.Gauge
	RenderDuration  prometheus.Histogram
	ExportsTotal    *prometheus.CounterVec // labels: result
	StorageFailures prometheus.Counter
}

// New creates the metrics on a private registry, so several instances can coexist in tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pixeltrader_fetch_total",
			Help: "Data source requests (by source and kind)",
		}, []string{"source", "kind"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pixeltrader_fetch_failures_total",
			Help: "Data source requests that failed or came back empty",
		}, []string{"source", "kind"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pixeltrader_fetch_duration_seconds",
			Help:    "Data source request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"source", "kind"}),

		ActionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pixeltrader_actions_total",
			Help: "Actions processed by the controller loop",
		}, []string{"action"}),
		StaleResults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pixeltrader_stale_results_total",
			Help: "Candle results dropped because a newer request superseded them",
		}),
		SeriesBars: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pixeltrader_series_bars",
			Help: "Bars in the currently displayed series",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pixeltrader_render_duration_seconds",
			Help:    "Chart plan mapping and SVG rendering latency",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		ExportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pixeltrader_exports_total",
			Help: "CSV exports (ok, failed)",
		}, []string{"result"}),
		StorageFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pixeltrader_storage_failures_total",
			Help: "Preference reads or writes that failed",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.FetchTotal,
		m.FetchFailures,
		m.FetchDuration,
		m.ActionsTotal,
		m.StaleResults,
		m.SeriesBars,
		m.RenderDuration,
		m.ExportsTotal,
		m.StorageFailures,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
