package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"PixelTrader/internal/chart"
	"PixelTrader/internal/collector"
	"PixelTrader/internal/metrics"
	"PixelTrader/internal/notifier"
	"PixelTrader/internal/store"
)

// Config wires a Controller to its collaborators.
type Config struct {
	Source   collector.Source
	Prefs    *store.Prefs
	Sink     notifier.Sink
	Metrics  *metrics.Metrics
	Defaults Defaults

	BannerTTL    time.Duration
	NoticeTTL    time.Duration
	FetchTimeout time.Duration
	TickEvery    time.Duration
	Now          func() time.Time
}

type envelope struct {
	action Action
	reply  chan State
}

// Controller owns State. A single goroutine (Run) applies every action in order;
// network calls run in their own goroutines and report back as actions.
type Controller struct {
	src     collector.Source
	prefs   *store.Prefs
	sink    notifier.Sink
	metrics *metrics.Metrics
	reducer Reducer
	now     func() time.Time

	fetchTimeout time.Duration
	tickEvery    time.Duration

	inbox chan envelope
	done  chan struct{}
	wg    sync.WaitGroup

	mu    sync.RWMutex
	state State
}

// NewController loads the persisted watchlist and theme and builds the initial state.
// Storage errors are logged and the defaults used.
func NewController(ctx context.Context, cfg Config) *Controller {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Sink == nil {
		cfg.Sink = notifier.Noop{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.BannerTTL <= 0 {
		cfg.BannerTTL = 5 * time.Second
	}
	if cfg.NoticeTTL <= 0 {
		cfg.NoticeTTL = 3 * time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.TickEvery <= 0 {
		cfg.TickEvery = time.Second
	}

	c := &Controller{
		src:          cfg.Source,
		prefs:        cfg.Prefs,
		sink:         cfg.Sink,
		metrics:      cfg.Metrics,
		reducer:      Reducer{BannerTTL: cfg.BannerTTL, NoticeTTL: cfg.NoticeTTL},
		now:          cfg.Now,
		fetchTimeout: cfg.FetchTimeout,
		tickEvery:    cfg.TickEvery,
		inbox:        make(chan envelope, 64),
		done:         make(chan struct{}),
	}

	watchlist, err := c.prefs.Watchlist(ctx)
	if err != nil {
		c.storageFailed(err)
	}
	theme, err := c.prefs.Theme(ctx)
	if err != nil {
		c.storageFailed(err)
	}
	c.state = NewState(cfg.Defaults, watchlist, theme)
	return c
}

// Run processes actions until ctx is cancelled. It starts by loading the default symbol.
func (c *Controller) Run(ctx context.Context) error {
	defer func() {
		close(c.done)
		c.wg.Wait()
	}()

	ticker := time.NewTicker(c.tickEvery)
	defer ticker.Stop()

	log.Info().Str("symbol", c.state.Symbol).Str("source", c.src.Name()).Msg("controller started")
	c.apply(ctx, Refresh())

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("controller stopped")
			return ctx.Err()
		case env := <-c.inbox:
			c.apply(ctx, env.action)
			if env.reply != nil {
				env.reply <- c.Snapshot()
			}
		case <-ticker.C:
			c.apply(ctx, Tick())
		}
	}
}

// Dispatch queues an action without waiting for it to be applied.
func (c *Controller) Dispatch(a Action) {
	select {
	case c.inbox <- envelope{action: a}:
	case <-c.done:
	}
}

// DispatchWait queues an action and returns the state right after it was applied.
func (c *Controller) DispatchWait(ctx context.Context, a Action) (State, error) {
	reply := make(chan State, 1)
	select {
	case c.inbox <- envelope{action: a, reply: reply}:
	case <-c.done:
		return State{}, fmt.Errorf("controller stopped")
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-c.done:
		return State{}, fmt.Errorf("controller stopped")
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Snapshot returns a copy of the current state with expired banners hidden.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	s := c.state
	c.mu.RUnlock()
	return s.Expire(c.now())
}

// Plan maps the current series for a container of the given width.
func (c *Controller) Plan(containerWidth float64) chart.Plan {
	s := c.Snapshot()
	return chart.Map(s.Series, s.Options, chart.SizeFor(containerWidth))
}

// RenderSVG draws the current chart.
func (c *Controller) RenderSVG(w io.Writer, containerWidth float64) error {
	start := time.Now()
	defer func() { c.metrics.RenderDuration.Observe(time.Since(start).Seconds()) }()
	return chart.RenderSVG(w, c.Plan(containerWidth))
}

// ExportCSV builds the download for the current series. Success and failure are both
// reported to the user as a transient notice.
func (c *Controller) ExportCSV() (filename string, data []byte, err error) {
	s := c.Snapshot()
	filename = ExportFilename(s.Symbol, s.Period, s.Interval, c.now())

	var buf bytes.Buffer
	if err := WriteCSV(&buf, s.Series); err != nil {
		c.metrics.ExportsTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("symbol", s.Symbol).Msg("csv export failed")
		c.Dispatch(Notify(notifier.LevelError, "Export failed: "+err.Error()))
		return filename, nil, fmt.Errorf("export %s: %w", filename, err)
	}
	c.metrics.ExportsTotal.WithLabelValues("ok").Inc()
	c.Dispatch(Notify(notifier.LevelNotice, fmt.Sprintf("Exported %d bars to %s", len(s.Series), filename)))
	return filename, buf.Bytes(), nil
}

func (c *Controller) apply(ctx context.Context, a Action) {
	c.metrics.ActionsTotal.WithLabelValues(a.Type.String()).Inc()

	if IsStale(c.state, a) {
		if a.Type == ActCandlesLoaded || a.Type == ActCandlesFailed {
			c.metrics.StaleResults.Inc()
			log.Debug().Uint64("gen", a.Generation).Uint64("current", c.state.Generation).Msg("dropping stale candle result")
		}
		return
	}

	next, effects := c.reducer.Reduce(c.state, a, c.now())
	c.mu.Lock()
	c.state = next
	c.mu.Unlock()

	if a.Type == ActCandlesLoaded {
		c.metrics.SeriesBars.Set(float64(len(next.Series)))
		log.Info().Str("symbol", next.Symbol).Int("bars", len(next.Series)).Uint64("gen", a.Generation).Msg("candles loaded")
	}
	for _, e := range effects {
		c.run(ctx, e)
	}
}

func (c *Controller) run(ctx context.Context, e Effect) {
	switch e.Kind {
	case EffFetchCandles:
		c.spawn(func() {
			fctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
			defer cancel()
			series, err := c.src.FetchCandles(fctx, e.Symbol, e.Period, e.Interval)
			if err != nil {
				log.Warn().Err(err).Str("symbol", e.Symbol).Uint64("gen", e.Generation).Msg("fetch candles")
				c.Dispatch(CandlesFailed(e.Generation, err))
				return
			}
			c.Dispatch(CandlesLoaded(e.Generation, series))
		})

	case EffFetchAux:
		c.spawn(func() {
			fctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
			defer cancel()
			c.Dispatch(ProfileLoaded(e.Symbol, c.src.FetchProfile(fctx, e.Symbol)))
		})
		c.spawn(func() {
			fctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
			defer cancel()
			c.Dispatch(NewsLoaded(e.Symbol, c.src.FetchNews(fctx, e.Symbol)))
		})

	case EffPersistWatchlist:
		if err := c.prefs.SaveWatchlist(ctx, e.Watchlist); err != nil {
			c.storageFailed(err)
		}

	case EffPersistTheme:
		if err := c.prefs.SaveTheme(ctx, e.Theme); err != nil {
			c.storageFailed(err)
		}

	case EffSend:
		c.spawn(func() {
			sctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
			defer cancel()
			if err := c.sink.Send(sctx, e.Message); err != nil {
				log.Error().Err(err).Str("symbol", e.Symbol).Msg("send notification")
			}
		})
	}
}

func (c *Controller) spawn(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

func (c *Controller) storageFailed(err error) {
	c.metrics.StorageFailures.Inc()
	log.Warn().Err(err).Msg("preference storage")
}
