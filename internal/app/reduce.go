package app

import (
	"time"

	"PixelTrader/internal/calculator"
	"PixelTrader/internal/collector"
	"PixelTrader/internal/model"
	"PixelTrader/internal/notifier"
)

const fallbackFetchError = "Failed to load chart data"

// Reducer applies actions to State. It performs no I/O; anything with side effects
// comes back as an Effect for the controller to run.
type Reducer struct {
	BannerTTL time.Duration
	NoticeTTL time.Duration
}

// IsStale reports whether a candle result belongs to a superseded request.
func IsStale(s State, a Action) bool {
	switch a.Type {
	case ActCandlesLoaded, ActCandlesFailed:
		return a.Generation != s.Generation
	case ActProfileLoaded, ActNewsLoaded:
		return a.Symbol != s.Symbol
	}
	return false
}

// Reduce returns the next state and the effects it requires.
func (r Reducer) Reduce(s State, a Action, now time.Time) (State, []Effect) {
	if IsStale(s, a) {
		return s, nil
	}

	switch a.Type {
	case ActSelectSymbol:
		sym, err := collector.NormalizeSymbol(a.Value)
		if err != nil {
			return r.fail(s, err.Error(), now), nil
		}
		s.Symbol = sym
		s.SymbolFocus = false
		return r.load(s, true)

	case ActSetPeriod:
		if err := collector.ValidatePeriod(a.Value); err != nil {
			return r.fail(s, err.Error(), now), nil
		}
		s.Period = a.Value
		return r.load(s, false)

	case ActSetInterval:
		if err := collector.ValidateInterval(a.Value); err != nil {
			return r.fail(s, err.Error(), now), nil
		}
		s.Interval = a.Value
		return r.load(s, false)

	case ActRefresh:
		return r.load(s, true)

	case ActSetMA:
		opts := s.Options
		opts.ShowMA = a.ShowMA
		opts.MAType = a.MAType
		opts.MAPeriod = a.MAPeriod
		s.Options = opts.Normalize()
		return s, nil

	case ActToggleTheme:
		s.Options.Theme = s.Options.Theme.Toggle()
		return s, []Effect{{Kind: EffPersistTheme, Theme: s.Options.Theme}}

	case ActAddSymbol:
		entry := NormalizeEntry(a.Value)
		s.SymbolFocus = false
		if entry == "" {
			return s, nil
		}
		if _, err := collector.NormalizeSymbol(entry); err != nil {
			return r.fail(s, err.Error(), now), nil
		}
		if s.Watchlist.Contains(entry) {
			return s, nil
		}
		s.Watchlist, _ = s.Watchlist.Add(entry)
		return s, []Effect{persistWatchlist(s.Watchlist)}

	case ActRemoveSymbol:
		wl, removed := s.Watchlist.Remove(a.Value)
		if !removed {
			return s, nil
		}
		s.Watchlist = wl
		effects := []Effect{persistWatchlist(wl)}
		if NormalizeEntry(a.Value) != s.Symbol {
			return s, effects
		}
		s.Symbol = wl.First(s.DefaultSymbol)
		var more []Effect
		s, more = r.load(s, true)
		return s, append(effects, more...)

	case ActFocusSymbolInput:
		s.SymbolFocus = true
		return s, nil

	case ActClearError:
		s.Banner = notifier.Banner{}
		return s, nil

	case ActCandlesLoaded:
		s.Loading = false
		s.Series = a.Series
		s.LoadedAt = now
		s.Summary = nil
		if sum, ok := calculator.Summarize(a.Series); ok {
			s.Summary = &sum
		}
		return s, nil

	case ActCandlesFailed:
		s.Loading = false
		msg := fallbackFetchError
		if a.Err != nil && a.Err.Error() != "" {
			msg = a.Err.Error()
		}
		s = r.fail(s, msg, now)
		return s, []Effect{{
			Kind:    EffSend,
			Symbol:  s.Symbol,
			Message: notifier.FormatFetchFailure(s.Symbol, s.Period, s.Interval, msg),
		}}

	case ActProfileLoaded:
		s.Profile = a.Profile
		return s, nil

	case ActNewsLoaded:
		s.News = a.News
		if s.News == nil {
			s.News = []model.NewsItem{}
		}
		return s, nil

	case ActNotify:
		if a.Message == "" {
			return s, nil
		}
		level := a.Level
		if level == "" {
			level = notifier.LevelNotice
		}
		s.Notice = notifier.NewBanner(level, a.Message, now, r.NoticeTTL)
		if level != notifier.LevelError {
			return s, nil
		}
		return s, []Effect{{Kind: EffSend, Symbol: s.Symbol, Message: notifier.FormatAlert(s.Symbol, a.Message)}}

	case ActTick:
		return s.Expire(now), nil
	}
	return s, nil
}

// load starts a new candle request and, when withAux is set, the profile and news fetches.
// The previous series stays on screen until the new one arrives.
func (r Reducer) load(s State, withAux bool) (State, []Effect) {
	s.Generation++
	s.Loading = true
	s.Banner = notifier.Banner{}
	effects := []Effect{{
		Kind:       EffFetchCandles,
		Generation: s.Generation,
		Symbol:     s.Symbol,
		Period:     s.Period,
		Interval:   s.Interval,
	}}
	if withAux {
		s.Profile = nil
		s.News = []model.NewsItem{}
		effects = append(effects, Effect{Kind: EffFetchAux, Symbol: s.Symbol})
	}
	return s, effects
}

func (r Reducer) fail(s State, msg string, now time.Time) State {
	s.Banner = notifier.NewBanner(notifier.LevelError, msg, now, r.BannerTTL)
	return s
}

func persistWatchlist(wl Watchlist) Effect {
	return Effect{Kind: EffPersistWatchlist, Watchlist: append([]string(nil), wl...)}
}
