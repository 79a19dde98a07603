package chart

import "PixelTrader/internal/model"

// Palette holds the colors for one theme.
type Palette struct {
	Background  string
	Axis        string
	VolumeAxis  string
	Rising      string
	Falling     string
	RisingVol   string
	FallingVol  string
	Overlay     string
	Placeholder string
}

var palettes = map[model.Theme]Palette{
	model.ThemeDark: {
		Background:  "#0a0a14",
		Axis:        "#0ff",
		VolumeAxis:  "#666",
		Rising:      "#0ff",
		Falling:     "#ff0cf7",
		RisingVol:   "#00ffff44",
		FallingVol:  "#ff0cf744",
		Overlay:     "#ff0cf7",
		Placeholder: "#f44",
	},
	model.ThemeLight: {
		Background:  "#f7f7fb",
		Axis:        "#234",
		VolumeAxis:  "#999",
		Rising:      "#00897b",
		Falling:     "#c2185b",
		RisingVol:   "#00897b55",
		FallingVol:  "#c2185b55",
		Overlay:     "#6a1b9a",
		Placeholder: "#d32f2f",
	},
}

// PaletteFor returns the palette of theme, dark when unknown.
func PaletteFor(theme model.Theme) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[model.ThemeDark]
}

func (p Palette) candle(rising bool) string {
	if rising {
		return p.Rising
	}
	return p.Falling
}

func (p Palette) volume(rising bool) string {
	if rising {
		return p.RisingVol
	}
	return p.FallingVol
}
