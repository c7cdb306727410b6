// internal/ui/keys.go

package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap definiuje skróty klawiszowe selektora
type KeyMap struct {
	Enter   key.Binding
	Refresh key.Binding
	Theme   key.Binding
	Quit    key.Binding
}

// DefaultKeyMap zwraca domyślne ustawienia klawiszy
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "connect"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh latencies"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

func (k KeyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Refresh, k.Theme}
}
