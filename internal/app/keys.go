package app

import "strings"

// keyBindings is the keyboard dispatch table.
var keyBindings = map[string]func() Action{
	"r":      Refresh,
	"t":      ToggleTheme,
	"/":      FocusSymbolInput,
	"Escape": ClearError,
}

// editableFocus lists element kinds that swallow shortcuts, so typing "r" into the
// symbol field does not trigger a refresh.
var editableFocus = map[string]bool{
	"input":    true,
	"select":   true,
	"textarea": true,
}

// KeyAction maps a key press to its action. focus is the tag name of the element
// that had focus when the key was pressed, empty for the page itself.
func KeyAction(key, focus string) (Action, bool) {
	if editableFocus[strings.ToLower(strings.TrimSpace(focus))] {
		return Action{}, false
	}
	bind, ok := keyBindings[key]
	if !ok {
		return Action{}, false
	}
	return bind(), true
}
