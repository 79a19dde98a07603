package app

import (
	"time"

	"PixelTrader/internal/calculator"
	"PixelTrader/internal/model"
	"PixelTrader/internal/notifier"
)

// State is everything the dashboard shows. It is owned by the controller loop and
// copied out for readers; slices in it are replaced, never modified in place.
type State struct {
	Symbol        string               `json:"symbol"`
	Period        string               `json:"period"`
	Interval      string               `json:"interval"`
	Options       model.DisplayOptions `json:"options"`
	Watchlist     Watchlist            `json:"watchlist"`
	DefaultSymbol string               `json:"-"`

	Series     model.Series          `json:"series"`
	Summary    *model.Summary        `json:"summary"`
	Profile    *model.CompanyProfile `json:"profile"`
	News       []model.NewsItem      `json:"news"`
	LoadedAt   time.Time             `json:"loadedAt"`
	Loading    bool                  `json:"loading"`
	Generation uint64                `json:"generation"`

	Banner      notifier.Banner `json:"banner"`
	Notice      notifier.Banner `json:"notice"`
	SymbolFocus bool            `json:"symbolFocus"`
}

// Defaults are the settings a fresh dashboard starts with.
type Defaults struct {
	Symbol   string
	Period   string
	Interval string
	Options  model.DisplayOptions
}

// NewState builds the initial state from defaults and persisted preferences.
func NewState(d Defaults, watchlist []string, theme model.Theme) State {
	opts := d.Options
	opts.Theme = theme
	wl := Watchlist{}
	for _, s := range watchlist {
		wl, _ = wl.Add(s)
	}
	return State{
		Symbol:        d.Symbol,
		Period:        d.Period,
		Interval:      d.Interval,
		Options:       opts.Normalize(),
		Watchlist:     wl,
		DefaultSymbol: d.Symbol,
		News:          []model.NewsItem{},
	}
}

// Theme is the active palette.
func (s State) Theme() model.Theme { return s.Options.Theme }

// HasData reports whether a series is loaded.
func (s State) HasData() bool { return len(s.Series) > 0 }

// Display returns the formatted performance panel, or false when there is no summary.
func (s State) Display() (calculator.Display, bool) {
	if s.Summary == nil {
		return calculator.Display{}, false
	}
	return calculator.Format(*s.Summary), true
}

// Expire hides banners whose time is up.
func (s State) Expire(now time.Time) State {
	if s.Banner.Message != "" && !s.Banner.Visible(now) {
		s.Banner = notifier.Banner{}
	}
	if s.Notice.Message != "" && !s.Notice.Visible(now) {
		s.Notice = notifier.Banner{}
	}
	return s
}
