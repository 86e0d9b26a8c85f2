package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the order screen bindings.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	SelectAll  key.Binding
	SelectNone key.Binding
	MoreExtra  key.Binding
	LessExtra  key.Binding
	EditQty    key.Binding
	SortField  key.Binding
	SortDir    key.Binding
	Generate   key.Binding
	Dismiss    key.Binding
	Pick       key.Binding
	Reload     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the standard order screen bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle line")),
		SelectAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		SelectNone: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "select none")),
		MoreExtra:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more extra")),
		LessExtra:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "less extra")),
		EditQty:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit qty")),
		SortField:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort field")),
		SortDir:    key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sort direction")),
		Generate:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
		Dismiss:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
		Pick:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "pick order")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.SelectAll, k.MoreExtra, k.LessExtra, k.Generate, k.Pick, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.SelectAll, k.SelectNone},
		{k.MoreExtra, k.LessExtra, k.EditQty, k.SortField, k.SortDir},
		{k.Generate, k.Dismiss, k.Pick, k.Reload, k.Quit},
	}
}
