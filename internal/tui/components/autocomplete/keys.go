package autocomplete

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/barcoder/internal/core/selection"
)

// KeyMap holds the bindings the dropdown reacts to.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Commit   key.Binding
	Close    key.Binding
}

// DefaultKeyMap returns the standard dropdown bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "prev")),
		Down:     key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Commit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Commit, k.Close}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.PageUp, k.PageDown}, {k.Commit, k.Close}}
}

// translate maps a key press onto the selection key set.
func (k KeyMap) translate(msg tea.KeyMsg) selection.Key {
	switch {
	case key.Matches(msg, k.Close):
		return selection.KeyEscape
	case key.Matches(msg, k.Down):
		return selection.KeyDown
	case key.Matches(msg, k.Up):
		return selection.KeyUp
	case key.Matches(msg, k.PageDown):
		return selection.KeyPageDown
	case key.Matches(msg, k.PageUp):
		return selection.KeyPageUp
	case key.Matches(msg, k.Commit):
		return selection.KeyEnter
	}
	return selection.KeyOther
}
