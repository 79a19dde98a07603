package app

import (
	"slices"
	"strings"
)

// Watchlist is an ordered set of uppercase symbols. Methods never modify the receiver.
type Watchlist []string

// NormalizeEntry trims and uppercases a symbol typed by the user.
func NormalizeEntry(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func (w Watchlist) Contains(symbol string) bool {
	return slices.Contains(w, NormalizeEntry(symbol))
}

// Add appends symbol after normalizing it. Empty or already present symbols leave
// the list unchanged and report false.
func (w Watchlist) Add(symbol string) (Watchlist, bool) {
	symbol = NormalizeEntry(symbol)
	if symbol == "" || slices.Contains(w, symbol) {
		return w, false
	}
	out := make(Watchlist, len(w), len(w)+1)
	copy(out, w)
	return append(out, symbol), true
}

// Remove drops symbol and reports whether it was present.
func (w Watchlist) Remove(symbol string) (Watchlist, bool) {
	symbol = NormalizeEntry(symbol)
	i := slices.Index(w, symbol)
	if i < 0 {
		return w, false
	}
	out := make(Watchlist, 0, len(w)-1)
	out = append(out, w[:i]...)
	return append(out, w[i+1:]...), true
}

// First returns the first entry, or fallback when the list is empty.
func (w Watchlist) First(fallback string) string {
	if len(w) == 0 {
		return fallback
	}
	return w[0]
}
