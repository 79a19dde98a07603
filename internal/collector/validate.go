package collector

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ErrInvalidParam is returned for a symbol, period or interval the API would reject.
var ErrInvalidParam = errors.New("invalid parameter")

const maxSymbolLength = 10

var (
	allowedPeriods = map[string]bool{
		"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
		"1y": true, "2y": true, "5y": true, "10y": true, "ytd": true, "max": true,
	}
	allowedIntervals = map[string]bool{
		"1m": true, "2m": true, "5m": true, "15m": true, "30m": true, "60m": true, "90m": true,
		"1h": true, "1d": true, "5d": true, "1wk": true, "1mo": true, "3mo": true,
	}
)

// NormalizeSymbol trims and uppercases s and checks it is 1-10 letters or digits.
func NormalizeSymbol(s string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(s))
	if sym == "" {
		return "", fmt.Errorf("%w: symbol is required", ErrInvalidParam)
	}
	if len(sym) > maxSymbolLength {
		return "", fmt.Errorf("%w: symbol too long (max %d characters)", ErrInvalidParam, maxSymbolLength)
	}
	for _, r := range sym {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return "", fmt.Errorf("%w: symbol must contain only letters and numbers", ErrInvalidParam)
		}
	}
	return sym, nil
}

// ValidatePeriod checks period against the ranges the candle API accepts.
func ValidatePeriod(period string) error {
	if !allowedPeriods[period] {
		return fmt.Errorf("%w: period %q, allowed: %s", ErrInvalidParam, period, strings.Join(Periods(), ", "))
	}
	return nil
}

// ValidateInterval checks interval against the bar sizes the candle API accepts.
func ValidateInterval(interval string) error {
	if !allowedIntervals[interval] {
		return fmt.Errorf("%w: interval %q, allowed: %s", ErrInvalidParam, interval, strings.Join(Intervals(), ", "))
	}
	return nil
}

// Periods lists the accepted periods, sorted.
func Periods() []string { return sortedKeys(allowedPeriods) }

// Intervals lists the accepted intervals, sorted.
func Intervals() []string { return sortedKeys(allowedIntervals) }

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
