package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"PixelTrader/internal/model"
)

// Storage keys, shared with the browser build of the dashboard.
const (
	WatchlistKey = "pixel_trader_watchlist"
	ThemeKey     = "pixel_trader_theme"
)

// Prefs reads and writes the persisted user preferences on top of a KV.
type Prefs struct {
	kv            KV
	defaultSymbol string
}

func NewPrefs(kv KV, defaultSymbol string) *Prefs {
	return &Prefs{kv: kv, defaultSymbol: defaultSymbol}
}

// Watchlist returns the stored symbols in order. A missing or malformed entry yields
// a list holding only the default symbol; a stored empty list stays empty.
// On a storage error the default list is returned together with the error.
func (p *Prefs) Watchlist(ctx context.Context) ([]string, error) {
	fallback := []string{p.defaultSymbol}

	raw, ok, err := p.kv.Get(ctx, WatchlistKey)
	if err != nil {
		return fallback, fmt.Errorf("load watchlist: %w", err)
	}
	if !ok {
		return fallback, nil
	}
	var symbols []string
	if err := json.Unmarshal([]byte(raw), &symbols); err != nil || symbols == nil {
		log.Warn().Err(err).Str("key", WatchlistKey).Msg("stored watchlist unreadable, using default")
		return fallback, nil
	}

	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

// SaveWatchlist stores symbols as a JSON array.
func (p *Prefs) SaveWatchlist(ctx context.Context, symbols []string) error {
	if symbols == nil {
		symbols = []string{}
	}
	data, err := json.Marshal(symbols)
	if err != nil {
		return err
	}
	if err := p.kv.Set(ctx, WatchlistKey, string(data)); err != nil {
		return fmt.Errorf("save watchlist: %w", err)
	}
	return nil
}

// Theme returns the stored theme, dark when absent or unknown.
func (p *Prefs) Theme(ctx context.Context) (model.Theme, error) {
	raw, ok, err := p.kv.Get(ctx, ThemeKey)
	if err != nil {
		return model.ThemeDark, fmt.Errorf("load theme: %w", err)
	}
	if !ok {
		return model.ThemeDark, nil
	}
	theme, _ := model.ParseTheme(raw)
	return theme, nil
}

func (p *Prefs) SaveTheme(ctx context.Context, theme model.Theme) error {
	if err := p.kv.Set(ctx, ThemeKey, string(theme)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
