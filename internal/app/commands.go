package app

import (
	"fmt"
	"strings"

	"PixelTrader/internal/notifier"
)

const commandHelp = "Commands:\n/refresh\n/symbol TICKER\n/summary\n/watchlist"

// HandleCommand answers a chat command. It dispatches actions and returns the reply text.
func (c *Controller) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return commandHelp
	}
	switch strings.ToLower(fields[0]) {
	case "/refresh":
		c.Dispatch(Refresh())
		return fmt.Sprintf("Refreshing %s", c.Snapshot().Symbol)
	case "/symbol":
		if len(fields) < 2 {
			return "Usage: /symbol TICKER"
		}
		sym := NormalizeEntry(fields[1])
		c.Dispatch(SelectSymbol(sym))
		return fmt.Sprintf("Loading %s", sym)
	case "/summary":
		s := c.Snapshot()
		if s.Summary == nil {
			return fmt.Sprintf("No performance data available for %s", s.Symbol)
		}
		return notifier.FormatSummary(s.Symbol, s.Period, s.Interval, *s.Summary)
	case "/watchlist":
		s := c.Snapshot()
		if len(s.Watchlist) == 0 {
			return "Watchlist is empty"
		}
		return "Watchlist: " + strings.Join(s.Watchlist, ", ")
	default:
		return commandHelp
	}
}
