// Package autocomplete is a type-ahead picker: a text box with a filtered
// dropdown of records, driven by selection.Input.
package autocomplete

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/hay-kot/barcoder/internal/core/selection"
	"github.com/hay-kot/barcoder/internal/core/styles"
	"github.com/hay-kot/barcoder/internal/tui/overlay"
)

const minPanelWidth = 20

// CommitMsg is sent once per commit gesture with the chosen record.
type CommitMsg[T any] struct {
	ID   string
	Item T
}

// Config configures a Model.
type Config[T any] struct {
	ID          string
	Label       string
	Placeholder string
	HelpText    string
	Width       int

	// Render returns the one-line text of a candidate row.
	Render  func(T) string
	ItemKey func(T) string
	Filter  selection.FilterFunc[T]
	// OnChange receives the query after every edit.
	OnChange func(string)

	MaxVisible   int
	PageStep     int
	ViewportRows int

	Positioner selection.Positioner
	Keys       *KeyMap
}

// Model renders a labelled text box and, while open, a dropdown panel
// spliced over the surrounding view.
type Model[T any] struct {
	cfg   Config[T]
	keys  KeyMap
	input *selection.Input[T]
	text  textinput.Model

	focused bool
	pending []T

	// panel is the dropdown rectangle from the last Overlay call, without
	// the arrow row. Mouse hit testing uses it.
	panel selection.Rect
	shown bool
}

// New creates a closed, blurred picker.
func New[T any](cfg Config[T]) *Model[T] {
	if cfg.Render == nil {
		cfg.Render = func(v T) string { return fmt.Sprint(v) }
	}
	if cfg.Positioner == nil {
		cfg.Positioner = selection.AnchorPositioner{}
	}
	if cfg.Width <= 0 {
		cfg.Width = 40
	}

	keys := DefaultKeyMap()
	if cfg.Keys != nil {
		keys = *cfg.Keys
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = cfg.Placeholder
	ti.Width = cfg.Width
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.ColorPrimary)

	m := &Model[T]{cfg: cfg, keys: keys, text: ti}
	m.input = selection.New(selection.Options[T]{
		ItemKey:      cfg.ItemKey,
		Filter:       cfg.Filter,
		OnChange:     cfg.OnChange,
		OnCommit:     func(rec T) { m.pending = append(m.pending, rec) },
		MaxVisible:   cfg.MaxVisible,
		PageStep:     cfg.PageStep,
		ViewportRows: cfg.ViewportRows,
	})
	return m
}

// SetData replaces the candidate records.
func (m *Model[T]) SetData(data []T) { m.input.SetData(data) }

// SetValue replaces the text and query without reporting a change.
func (m *Model[T]) SetValue(s string) {
	m.text.SetValue(s)
	m.input.SetQuery(s)
}

// Value returns the text box contents.
func (m *Model[T]) Value() string { return m.text.Value() }

// SetReadOnly toggles read-only mode.
func (m *Model[T]) SetReadOnly(v bool) { m.input.SetReadOnly(v) }

// SetDisabled toggles disabled mode.
func (m *Model[T]) SetDisabled(v bool) { m.input.SetDisabled(v) }

// Focus gives the picker keyboard focus and opens the dropdown when there
// is something to show.
func (m *Model[T]) Focus() tea.Cmd {
	if m.input.ReadOnly() || m.input.Disabled() {
		return nil
	}
	m.focused = true
	m.input.Focus()
	return m.text.Focus()
}

// Blur drops keyboard focus and closes the dropdown.
func (m *Model[T]) Blur() {
	m.focused = false
	m.text.Blur()
	m.input.Blur()
}

func (m *Model[T]) Focused() bool { return m.focused }
func (m *Model[T]) Open() bool    { return m.input.Open() }

// State returns a copy of the selection state.
func (m *Model[T]) State() selection.Snapshot[T] { return m.input.Snapshot() }

// KeyMap returns the active bindings.
func (m *Model[T]) KeyMap() KeyMap { return m.keys }

// Update handles key, mouse and focus messages. Commits are returned as
// CommitMsg commands.
func (m *Model[T]) Update(msg tea.Msg) (*Model[T], tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.BlurMsg:
		m.input.Blur()
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		cmds = append(cmds, m.handleKey(msg))
	default:
		// cursor blink and other text box traffic
		if m.focused {
			var cmd tea.Cmd
			m.text, cmd = m.text.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, m.flush())
	return m, tea.Batch(cmds...)
}

func (m *Model[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	if k := m.keys.translate(msg); k != selection.KeyOther {
		m.input.Press(k)
		return nil
	}

	if m.input.ReadOnly() || m.input.Disabled() {
		return nil
	}

	before := m.text.Value()
	var cmd tea.Cmd
	m.text, cmd = m.text.Update(msg)
	if after := m.text.Value(); after != before {
		m.input.Type(after)
	} else {
		m.input.Press(selection.KeyOther)
	}
	return cmd
}

func (m *Model[T]) handleMouse(msg tea.MouseMsg) {
	inPanel := m.shown && m.input.Open() && m.panel.Contains(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		if i, ok := m.rowAt(msg.Y); ok && inPanel {
			m.input.Hover(i)
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if !inPanel {
			m.input.PointerDownOutside()
			return
		}
		if i, ok := m.rowAt(msg.Y); ok {
			m.input.Click(i)
		}
	}
}

// rowAt maps a screen row inside the panel to a visible candidate index.
func (m *Model[T]) rowAt(y int) (int, bool) {
	window, offset := m.input.Window()
	row := y - m.panel.Y - 1 // top border
	if row < 0 || row >= len(window) {
		return 0, false
	}
	return offset + row, true
}

func (m *Model[T]) flush() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(m.pending))
	for _, rec := range m.pending {
		msg := CommitMsg[T]{ID: m.cfg.ID, Item: rec}
		cmds = append(cmds, func() tea.Msg { return msg })
	}
	m.pending = m.pending[:0]
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

// View renders the labelled text box.
func (m *Model[T]) View() string {
	titleStyle := styles.FormTitleBlurredStyle
	if m.focused {
		titleStyle = styles.FormTitleStyle
	}

	parts := []string{titleStyle.Render(m.cfg.Label), m.text.View()}
	if m.cfg.HelpText != "" {
		parts = append(parts, styles.FormHelpStyle.Render(m.cfg.HelpText))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	borderStyle := styles.FormFieldStyle
	if m.focused {
		borderStyle = styles.FormFieldFocusedStyle
	}
	return borderStyle.Render(content)
}

// Overlay draws the open dropdown over view. anchor is the screen
// rectangle of the text box and viewport the visible screen.
func (m *Model[T]) Overlay(view string, anchor, viewport selection.Rect) string {
	m.shown = false
	if !m.input.Open() {
		return view
	}

	lines := m.renderPanel(max(anchor.W, minPanelWidth))
	if len(lines) == 0 {
		return view
	}

	w := overlay.Width(lines)
	h := len(lines) + 1 // arrow row
	pos := m.cfg.Positioner.Place(anchor, selection.Rect{W: w, H: h}, viewport)

	arrow := styles.IconArrowUp
	panelY, arrowY := pos.Y+1, pos.Y
	if pos.Placement == selection.PlacementTop {
		arrow = styles.IconArrowDown
		panelY, arrowY = pos.Y, pos.Y+len(lines)
	}

	m.panel = selection.Rect{X: pos.X, Y: panelY, W: w, H: len(lines)}
	m.shown = true

	view = overlay.Splice(view, lines, pos.X, panelY)
	return overlay.Splice(view, []string{styles.DropdownArrowStyle.Render(arrow)}, pos.ArrowX, arrowY)
}

func (m *Model[T]) renderPanel(width int) []string {
	window, offset := m.input.Window()
	if len(window) == 0 {
		return nil
	}

	inner := width - 2 // border
	rows := make([]string, 0, len(window)+1)
	for i, rec := range window {
		style := styles.DropdownItemStyle
		if offset+i == m.input.Highlighted() {
			style = styles.DropdownSelectedStyle
		}
		text := ansi.Truncate(m.cfg.Render(rec), inner-2, "…")
		rows = append(rows, style.Width(inner).Render(text))
	}

	if total := len(m.input.Visible()); total > len(window) {
		info := fmt.Sprintf("%d-%d of %d", offset+1, offset+len(window), total)
		rows = append(rows, styles.DropdownMatchStyle.Width(inner).Align(lipgloss.Right).Render(info))
	}

	return strings.Split(styles.DropdownStyle.Render(strings.Join(rows, "\n")), "\n")
}
