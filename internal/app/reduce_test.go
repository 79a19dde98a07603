package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PixelTrader/internal/model"
	"PixelTrader/internal/notifier"
)

func TestNewStateUsesPreferences(t *testing.T) {
	s := NewState(testDefaults(), []string{"msft", "MSFT", "tsla"}, model.ThemeLight)
	assert.Equal(t, "AAPL", s.Symbol)
	assert.Equal(t, Watchlist{"MSFT", "TSLA"}, s.Watchlist)
	assert.Equal(t, model.ThemeLight, s.Theme())
	assert.NotNil(t, s.News)
	assert.False(t, s.HasData())
}

func TestSelectSymbolStartsFetches(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), []string{"AAPL"}, model.ThemeDark)
	s.SymbolFocus = true

	s, effects := r.Reduce(s, SelectSymbol(" msft "), t0)
	assert.Equal(t, "MSFT", s.Symbol)
	assert.True(t, s.Loading)
	assert.False(t, s.SymbolFocus)
	assert.Equal(t, uint64(1), s.Generation)
	require.Equal(t, []EffectKind{EffFetchCandles, EffFetchAux}, effectKinds(effects))
	assert.Equal(t, Effect{Kind: EffFetchCandles, Generation: 1, Symbol: "MSFT", Period: "1mo", Interval: "1d"}, effects[0])
	assert.Equal(t, "MSFT", effects[1].Symbol)
}

func TestSelectInvalidSymbolShowsBanner(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), nil, model.ThemeDark)

	s, effects := r.Reduce(s, SelectSymbol("BRK.B"), t0)
	assert.Empty(t, effects)
	assert.Equal(t, "AAPL", s.Symbol)
	assert.True(t, s.Banner.Visible(t0))
	assert.Equal(t, notifier.LevelError, s.Banner.Level)
}

func TestPeriodAndIntervalRefetchCandlesOnly(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), nil, model.ThemeDark)

	s, effects := r.Reduce(s, SetPeriod("6mo"), t0)
	assert.Equal(t, "6mo", s.Period)
	assert.Equal(t, []EffectKind{EffFetchCandles}, effectKinds(effects))

	s, effects = r.Reduce(s, SetInterval("1wk"), t0)
	assert.Equal(t, "1wk", s.Interval)
	assert.Equal(t, []EffectKind{EffFetchCandles}, effectKinds(effects))
	assert.Equal(t, uint64(2), s.Generation)

	s, effects = r.Reduce(s, SetPeriod("3d"), t0)
	assert.Empty(t, effects)
	assert.Equal(t, "6mo", s.Period)
	assert.NotEmpty(t, s.Banner.Message)
}

func TestCandlesLoadedComputesSummary(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), nil, model.ThemeDark)
	s, _ = r.Reduce(s, Refresh(), t0)

	s, effects := r.Reduce(s, CandlesLoaded(s.Generation, twoBars()), t0)
	assert.Empty(t, effects)
	assert.False(t, s.Loading)
	require.NotNil(t, s.Summary)
	assert.Equal(t, -2.0, s.Summary.Change)

	d, ok := s.Display()
	require.True(t, ok)
	assert.Equal(t, "-18.18", d.ChangePercent)
	assert.Equal(t, "9.00", d.LatestClose)
}

func TestStaleCandlesIgnored(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), []string{"AAPL", "MSFT"}, model.ThemeDark)

	s, _ = r.Reduce(s, SelectSymbol("AAPL"), t0)
	first := s.Generation
	s, _ = r.Reduce(s, SelectSymbol("MSFT"), t0)
	require.NotEqual(t, first, s.Generation)

	// the slow AAPL response arrives after MSFT was requested
	stale := CandlesLoaded(first, twoBars())
	assert.True(t, IsStale(s, stale))
	next, effects := r.Reduce(s, stale, t0)
	assert.Empty(t, effects)
	assert.Nil(t, next.Series)
	assert.True(t, next.Loading)

	next, _ = r.Reduce(next, CandlesFailed(first, errors.New("timeout")), t0)
	assert.Empty(t, next.Banner.Message)

	next, _ = r.Reduce(next, CandlesLoaded(s.Generation, twoBars()), t0)
	assert.Len(t, next.Series, 2)
}

func TestAuxResultsForOldSymbolIgnored(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), nil, model.ThemeDark)
	s, _ = r.Reduce(s, SelectSymbol("MSFT"), t0)

	s, _ = r.Reduce(s, ProfileLoaded("AAPL", &model.CompanyProfile{Symbol: "AAPL"}), t0)
	assert.Nil(t, s.Profile)

	s, _ = r.Reduce(s, ProfileLoaded("MSFT", &model.CompanyProfile{Symbol: "MSFT", CompanyName: "Microsoft"}), t0)
	require.NotNil(t, s.Profile)
	assert.Equal(t, "Microsoft", s.Profile.CompanyName)

	s, _ = r.Reduce(s, NewsLoaded("MSFT", nil), t0)
	assert.NotNil(t, s.News)
	assert.Empty(t, s.News)
}

func TestCandlesFailedKeepsSeriesAndShowsBanner(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), nil, model.ThemeDark)
	s, _ = r.Reduce(s, Refresh(), t0)
	s, _ = r.Reduce(s, CandlesLoaded(s.Generation, twoBars()), t0)

	s, _ = r.Reduce(s, Refresh(), t0)
	s, effects := r.Reduce(s, CandlesFailed(s.Generation, errors.New("ticker not found")), t0)

	assert.False(t, s.Loading)
	assert.Len(t, s.Series, 2, "previous chart stays")
	assert.Equal(t, "ticker not found", s.Banner.Message)
	require.Equal(t, []EffectKind{EffSend}, effectKinds(effects))
	assert.Contains(t, effects[0].Message, "ticker not found")

	// auto-dismiss after five seconds
	assert.True(t, s.Expire(t0.Add(4*time.Second)).Banner.Visible(t0.Add(4*time.Second)))
	s, _ = r.Reduce(s, Tick(), t0.Add(5*time.Second))
	assert.Empty(t, s.Banner.Message)
}

func TestCandlesFailedWithoutMessage(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), nil, model.ThemeDark)
	s, _ = r.Reduce(s, Refresh(), t0)
	s, _ = r.Reduce(s, CandlesFailed(s.Generation, nil), t0)
	assert.Equal(t, "Failed to load chart data", s.Banner.Message)
}

func TestRefreshClearsBanner(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), nil, model.ThemeDark)
	s, _ = r.Reduce(s, SelectSymbol("???"), t0)
	require.NotEmpty(t, s.Banner.Message)

	s, _ = r.Reduce(s, Refresh(), t0)
	assert.Empty(t, s.Banner.Message)
}

func TestAddSymbol(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), []string{"AAPL"}, model.ThemeDark)

	s, effects := r.Reduce(s, AddSymbol(" tsla "), t0)
	assert.Equal(t, Watchlist{"AAPL", "TSLA"}, s.Watchlist)
	require.Equal(t, []EffectKind{EffPersistWatchlist}, effectKinds(effects))
	assert.Equal(t, []string{"AAPL", "TSLA"}, effects[0].Watchlist)
	assert.Equal(t, "AAPL", s.Symbol, "adding does not change the selection")

	s, effects = r.Reduce(s, AddSymbol("TSLA"), t0)
	assert.Empty(t, effects)
	assert.Len(t, s.Watchlist, 2)

	s, effects = r.Reduce(s, AddSymbol(""), t0)
	assert.Empty(t, effects)
	assert.Empty(t, s.Banner.Message)

	s, effects = r.Reduce(s, AddSymbol("TOOLONGSYMBOL"), t0)
	assert.Empty(t, effects)
	assert.NotEmpty(t, s.Banner.Message)
}

func TestRemoveSelectedSymbolReselects(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), []string{"AAPL", "MSFT", "TSLA"}, model.ThemeDark)
	s, _ = r.Reduce(s, SelectSymbol("MSFT"), t0)

	s, effects := r.Reduce(s, RemoveSymbol("msft"), t0)
	assert.Equal(t, Watchlist{"AAPL", "TSLA"}, s.Watchlist)
	assert.Equal(t, "AAPL", s.Symbol)
	assert.Equal(t, []EffectKind{EffPersistWatchlist, EffFetchCandles, EffFetchAux}, effectKinds(effects))
}

func TestRemoveUnselectedSymbolKeepsSelection(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), []string{"AAPL", "MSFT"}, model.ThemeDark)

	s, effects := r.Reduce(s, RemoveSymbol("MSFT"), t0)
	assert.Equal(t, "AAPL", s.Symbol)
	assert.Equal(t, []EffectKind{EffPersistWatchlist}, effectKinds(effects))

	_, effects = r.Reduce(s, RemoveSymbol("NFLX"), t0)
	assert.Empty(t, effects)
}

func TestRemoveLastSymbolFallsBackToDefault(t *testing.T) {
	r := testReducer()
	d := testDefaults()
	d.Symbol = "NVDA"
	s := NewState(d, []string{"TSLA"}, model.ThemeDark)
	s, _ = r.Reduce(s, SelectSymbol("TSLA"), t0)

	s, effects := r.Reduce(s, RemoveSymbol("TSLA"), t0)
	assert.Empty(t, s.Watchlist)
	assert.Equal(t, "NVDA", s.Symbol)
	require.NotEmpty(t, effects)
	assert.Equal(t, []string(nil), effects[0].Watchlist)
}

func TestRemovedSelectionAlwaysValid(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), []string{"AAPL", "MSFT", "TSLA", "NVDA"}, model.ThemeDark)
	for _, sym := range []string{"NVDA", "AAPL", "TSLA", "MSFT"} {
		s, _ = r.Reduce(s, SelectSymbol(sym), t0)
		s, _ = r.Reduce(s, RemoveSymbol(sym), t0)
		assert.True(t, s.Watchlist.Contains(s.Symbol) || (len(s.Watchlist) == 0 && s.Symbol == "AAPL"),
			"selected %s with watchlist %v", s.Symbol, s.Watchlist)
	}
}

func TestToggleThemePersists(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), nil, model.ThemeDark)

	s, effects := r.Reduce(s, ToggleTheme(), t0)
	assert.Equal(t, model.ThemeLight, s.Theme())
	assert.Equal(t, []Effect{{Kind: EffPersistTheme, Theme: model.ThemeLight}}, effects)

	s, _ = r.Reduce(s, ToggleTheme(), t0)
	assert.Equal(t, model.ThemeDark, s.Theme())
}

func TestSetMANormalizes(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), nil, model.ThemeLight)

	s, effects := r.Reduce(s, SetMA(true, model.MATypeEMA, 0), t0)
	assert.Empty(t, effects)
	assert.True(t, s.Options.ShowMA)
	assert.Equal(t, model.MATypeEMA, s.Options.MAType)
	assert.Equal(t, model.DefaultMAPeriod, s.Options.MAPeriod)
	assert.Equal(t, model.ThemeLight, s.Theme(), "theme untouched")
}

func TestNotify(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), nil, model.ThemeDark)

	s, effects := r.Reduce(s, Notify(notifier.LevelNotice, "Exported"), t0)
	assert.Empty(t, effects)
	assert.True(t, s.Notice.Visible(t0.Add(2*time.Second)))
	assert.False(t, s.Notice.Visible(t0.Add(3*time.Second)))

	s, effects = r.Reduce(s, Notify(notifier.LevelError, "Export failed: disk full"), t0)
	require.Equal(t, []EffectKind{EffSend}, effectKinds(effects))
	assert.Equal(t, notifier.LevelError, s.Notice.Level)
	assert.Empty(t, s.Banner.Message, "notices do not replace the error banner")
}

func TestFocusAndClearError(t *testing.T) {
	r := testReducer()
	s := NewState(testDefaults(), nil, model.ThemeDark)
	s, _ = r.Reduce(s, FocusSymbolInput(), t0)
	assert.True(t, s.SymbolFocus)

	s, _ = r.Reduce(s, SelectSymbol("!"), t0)
	require.NotEmpty(t, s.Banner.Message)
	s, _ = r.Reduce(s, ClearError(), t0)
	assert.Empty(t, s.Banner.Message)
}

func TestActionNames(t *testing.T) {
	typ, ok := ParseActionType("selectSymbol")
	assert.True(t, ok)
	assert.Equal(t, ActSelectSymbol, typ)
	assert.Equal(t, "toggleTheme", ActToggleTheme.String())

	_, ok = ParseActionType("candlesLoaded")
	assert.False(t, ok, "result actions are internal")
	_, ok = ParseActionType("explode")
	assert.False(t, ok)
}
