package app

import (
	"fmt"

	"PixelTrader/internal/model"
	"PixelTrader/internal/notifier"
)

// ActionType enumerates everything that can change State.
type ActionType int

const (
	ActSelectSymbol ActionType = iota
	ActSetPeriod
	ActSetInterval
	ActSetMA
	ActRefresh
	ActToggleTheme
	ActAddSymbol
	ActRemoveSymbol
	ActFocusSymbolInput
	ActClearError
	ActCandlesLoaded
	ActCandlesFailed
	ActProfileLoaded
	ActNewsLoaded
	ActNotify
	ActTick
)

var actionNames = map[ActionType]string{
	ActSelectSymbol:     "selectSymbol",
	ActSetPeriod:        "setPeriod",
	ActSetInterval:      "setInterval",
	ActSetMA:            "setMA",
	ActRefresh:          "refresh",
	ActToggleTheme:      "toggleTheme",
	ActAddSymbol:        "addSymbol",
	ActRemoveSymbol:     "removeSymbol",
	ActFocusSymbolInput: "focusSymbolInput",
	ActClearError:       "clearError",
	ActCandlesLoaded:    "candlesLoaded",
	ActCandlesFailed:    "candlesFailed",
	ActProfileLoaded:    "profileLoaded",
	ActNewsLoaded:       "newsLoaded",
	ActNotify:           "notify",
	ActTick:             "tick",
}

func (t ActionType) String() string {
	if n, ok := actionNames[t]; ok {
		return n
	}
	return fmt.Sprintf("action(%d)", int(t))
}

// ParseActionType maps a wire name back to its type. Only user actions are accepted;
// result actions are produced by the controller itself.
func ParseActionType(name string) (ActionType, bool) {
	for t, n := range actionNames {
		if n == name && t.userFacing() {
			return t, true
		}
	}
	return 0, false
}

func (t ActionType) userFacing() bool {
	return t <= ActClearError || t == ActNotify
}

// Action is one message into the reducer. Only the fields relevant to Type are set.
type Action struct {
	Type ActionType

	Value string // symbol, period or interval

	ShowMA   bool
	MAType   model.MAType
	MAPeriod int

	Generation uint64
	Symbol     string // symbol an auxiliary result was fetched for
	Series     model.Series
	Err        error
	Profile    *model.CompanyProfile
	News       []model.NewsItem

	Level   notifier.Level
	Message string
}

func SelectSymbol(symbol string) Action { return Action{Type: ActSelectSymbol, Value: symbol} }
func SetPeriod(period string) Action    { return Action{Type: ActSetPeriod, Value: period} }
func SetInterval(iv string) Action      { return Action{Type: ActSetInterval, Value: iv} }
func Refresh() Action                   { return Action{Type: ActRefresh} }
func ToggleTheme() Action               { return Action{Type: ActToggleTheme} }
func AddSymbol(symbol string) Action    { return Action{Type: ActAddSymbol, Value: symbol} }
func RemoveSymbol(symbol string) Action { return Action{Type: ActRemoveSymbol, Value: symbol} }
func FocusSymbolInput() Action          { return Action{Type: ActFocusSymbolInput} }
func ClearError() Action                { return Action{Type: ActClearError} }
func Tick() Action                      { return Action{Type: ActTick} }

// SetMA changes the overlay settings. A non-positive period falls back to the default.
func SetMA(show bool, maType model.MAType, period int) Action {
	return Action{Type: ActSetMA, ShowMA: show, MAType: maType, MAPeriod: period}
}

func CandlesLoaded(gen uint64, series model.Series) Action {
	return Action{Type: ActCandlesLoaded, Generation: gen, Series: series}
}

func CandlesFailed(gen uint64, err error) Action {
	return Action{Type: ActCandlesFailed, Generation: gen, Err: err}
}

func ProfileLoaded(symbol string, p *model.CompanyProfile) Action {
	return Action{Type: ActProfileLoaded, Symbol: symbol, Profile: p}
}

func NewsLoaded(symbol string, items []model.NewsItem) Action {
	return Action{Type: ActNewsLoaded, Symbol: symbol, News: items}
}

// Notify shows a transient notice. Error-level notices are also forwarded to the chat sink.
func Notify(level notifier.Level, message string) Action {
	return Action{Type: ActNotify, Level: level, Message: message}
}

// EffectKind enumerates the side effects the reducer can request.
type EffectKind int

const (
	EffFetchCandles EffectKind = iota
	EffFetchAux
	EffPersistWatchlist
	EffPersistTheme
	EffSend
)

// Effect is work the controller performs outside the reducer.
type Effect struct {
	Kind       EffectKind
	Generation uint64
	Symbol     string
	Period     string
	Interval   string
	Watchlist  []string
	Theme      model.Theme
	Message    string
}
