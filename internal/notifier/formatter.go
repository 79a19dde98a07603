package notifier

import (
	"fmt"
	"html"
	"strings"

	"PixelTrader/internal/calculator"
	"PixelTrader/internal/model"
)

// FormatFetchFailure formats a hard candle fetch failure for the chat.
func FormatFetchFailure(symbol, period, interval, reason string) string {
	return fmt.Sprintf("❌ <b>PixelTrader</b>\n\nFailed to load %s (%s, %s)\n%s",
		html.EscapeString(symbol), period, interval, html.EscapeString(reason))
}

// FormatAlert formats any other error raised while symbol was on screen, e.g. a failed export.
func FormatAlert(symbol, message string) string {
	return fmt.Sprintf("⚠️ <b>PixelTrader</b> | %s\n%s", html.EscapeString(symbol), html.EscapeString(message))
}

// FormatSummary formats the performance panel for a chat reply.
func FormatSummary(symbol, period, interval string, s model.Summary) string {
	d := calculator.Format(s)
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>%s</b> | %s, %s\n\n", html.EscapeString(symbol), period, interval)
	fmt.Fprintf(&b, "Price: $%s\n", d.LatestClose)
	pct := d.ChangePercent
	if s.PercentDefined() {
		pct = calculator.Signed(pct, d.Positive) + "%"
	}
	fmt.Fprintf(&b, "Change: %s (%s)\n", calculator.Signed(d.Change, d.Positive), pct)
	fmt.Fprintf(&b, "High: $%s | Low: $%s\n", d.High, d.Low)
	fmt.Fprintf(&b, "Avg volume: %s\n", d.AvgVolume)
	return b.String()
}
