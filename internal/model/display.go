package model

import "strings"

// MAType selects the smoothing formula of the overlay line.
type MAType string

const (
	MATypeSMA MAType = "SMA"
	MATypeEMA MAType = "EMA"
)

// Theme selects the chart palette.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultMAPeriod is used when the requested window is missing or not positive.
const DefaultMAPeriod = 10

// ParseMAType maps user input to an MAType. Anything but EMA is SMA.
func ParseMAType(s string) MAType {
	if strings.EqualFold(strings.TrimSpace(s), string(MATypeEMA)) {
		return MATypeEMA
	}
	return MATypeSMA
}

// ParseTheme returns the theme named by s and whether it was recognised.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, true
	case ThemeLight:
		return ThemeLight, true
	default:
		return ThemeDark, false
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// DisplayOptions controls what the chart draws.
type DisplayOptions struct {
	ShowMA   bool   `json:"showMA"`
	MAType   MAType `json:"maType"`
	MAPeriod int    `json:"maPeriod"`
	Theme    Theme  `json:"theme"`
}

// DefaultDisplayOptions returns the options used on first load.
func DefaultDisplayOptions() DisplayOptions {
	return DisplayOptions{
		ShowMA:   false,
		MAType:   MATypeSMA,
		MAPeriod: DefaultMAPeriod,
		Theme:    ThemeDark,
	}
}

// Normalize fills unset or invalid fields with defaults.
func (o DisplayOptions) Normalize() DisplayOptions {
	if o.MAType != MATypeEMA {
		o.MAType = MATypeSMA
	}
	if o.MAPeriod <= 0 {
		o.MAPeriod = DefaultMAPeriod
	}
	if o.Theme != ThemeLight {
		o.Theme = ThemeDark
	}
	return o
}
