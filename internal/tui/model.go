// Package tui implements the interactive order sticker screen.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/hay-kot/barcoder/internal/barcoder"
	"github.com/hay-kot/barcoder/internal/core/config"
	"github.com/hay-kot/barcoder/internal/core/logging"
	"github.com/hay-kot/barcoder/internal/core/salesorder"
	"github.com/hay-kot/barcoder/internal/core/selection"
	"github.com/hay-kot/barcoder/internal/core/styles"
	"github.com/hay-kot/barcoder/internal/tui/components/autocomplete"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateBrowsing UIState = iota
	statePicking
	stateEditingQty
)

const pickerID = "order"

// Key constants for event handling.
const (
	keyEnter = "enter"
	keyEsc   = "esc"
	keyCtrlC = "ctrl+c"
)

type ordersListedMsg struct {
	orders []salesorder.OrderSummary
	err    error
}

// orderEventMsg carries a reconciler event produced by a background fetch.
// Events are applied in the order they arrive.
type orderEventMsg struct {
	event salesorder.Event
}

type catalogFailedMsg struct {
	orderNumber string
	err         error
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	cfg    *config.Config
	orders *barcoder.OrderService
	log    zerolog.Logger
	ctx    context.Context

	state    UIState
	keys     KeyMap
	picker   *autocomplete.Model[salesorder.OrderSummary]
	qtyInput textinput.Model
	spinner  spinner.Model
	help     help.Model

	width  int
	height int

	cursorKey string
	notice    string
	err       error
	quitting  bool
}

// New creates the order screen with the picker focused.
func New(app *barcoder.App) Model {
	cfg := app.Config

	picker := autocomplete.New(autocomplete.Config[salesorder.OrderSummary]{
		ID:           pickerID,
		Label:        "Sales order",
		Placeholder:  "order number or customer",
		HelpText:     "↑/↓ move • enter open • esc close",
		Render:       salesorder.OrderSummary.Label,
		ItemKey:      func(o salesorder.OrderSummary) string { return o.OrderNumber },
		Filter:       selection.ByMatch(cfg.Selection.Match, barcoder.OrderFields),
		MaxVisible:   cfg.Selection.MaxVisible,
		PageStep:     cfg.Selection.PageStep,
		ViewportRows: cfg.Selection.ViewportRows,
	})
	picker.Focus()

	qty := textinput.New()
	qty.Prompt = "sticker qty: "
	qty.CharLimit = 5
	qty.Width = 6
	qty.PromptStyle = styles.HeaderLabelStyle
	qty.Cursor.Style = lipgloss.NewStyle().Foreground(styles.ColorPrimary)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.ColorPrimary)

	h := help.New()
	h.ShortSeparator = " • "
	h.Styles.ShortKey = styles.StatusBarStyle
	h.Styles.ShortDesc = styles.StatusBarStyle
	h.Styles.ShortSeparator = styles.StatusBarStyle
	h.Styles.FullKey = styles.StatusBarStyle
	h.Styles.FullDesc = styles.StatusBarStyle
	h.Styles.FullSeparator = styles.StatusBarStyle

	return Model{
		cfg:      cfg,
		orders:   app.Orders,
		log:      logging.Component("tui"),
		ctx:      context.Background(),
		state:    statePicking,
		keys:     DefaultKeyMap(),
		picker:   picker,
		qtyInput: qty,
		spinner:  sp,
		help:     h,
	}
}

// Init starts loading the order list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listOrders(), m.spinner.Tick, textinput.Blink)
}

// listOrders returns a command that loads the picker candidates.
func (m Model) listOrders() tea.Cmd {
	return func() tea.Msg {
		orders, err := m.orders.ListOrders(m.ctx, "", selection.MatchContains)
		return ordersListedMsg{orders: orders, err: err}
	}
}

// fetchOrder returns a command that reads one order in the background.
func (m Model) fetchOrder(orderNumber string) tea.Cmd {
	return func() tea.Msg {
		return orderEventMsg{event: m.orders.FetchOrder(m.ctx, orderNumber)}
	}
}

// fetchCatalog returns a command that reads a customer catalog tagged with
// the order it was requested for.
func (m Model) fetchCatalog(orderNumber, customerNumber string) tea.Cmd {
	return func() tea.Msg {
		ev, err := m.orders.FetchCatalog(m.ctx, orderNumber, customerNumber)
		if err != nil {
			return catalogFailedMsg{orderNumber: orderNumber, err: err}
		}
		return orderEventMsg{event: ev}
	}
}

// submitBatch returns a command that writes a sticker batch.
func (m Model) submitBatch(batch salesorder.Batch) tea.Cmd {
	return func() tea.Msg {
		return orderEventMsg{event: m.orders.SubmitBatch(m.ctx, batch)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ordersListedMsg:
		return m.handleOrdersListed(msg)
	case autocomplete.CommitMsg[salesorder.OrderSummary]:
		return m.handleOrderPicked(msg)
	case orderEventMsg:
		return m.handleOrderEvent(msg)
	case catalogFailedMsg:
		return m.handleCatalogFailed(msg)

	case tea.BlurMsg:
		m.picker, _ = m.picker.Update(msg)
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.handleFallthrough(msg)
}

// handleFallthrough forwards unclaimed messages to the focused input so
// cursor blinks keep running.
func (m Model) handleFallthrough(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case stateEditingQty:
		m.qtyInput, cmd = m.qtyInput.Update(msg)
	case statePicking:
		m.picker, cmd = m.picker.Update(msg)
	}
	return m, cmd
}

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}
