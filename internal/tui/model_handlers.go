package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/barcoder/internal/core/salesorder"
	"github.com/hay-kot/barcoder/internal/tui/components/autocomplete"
)

func (m Model) handleOrdersListed(msg ordersListedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = fmt.Errorf("list orders: %w", msg.err)
		return m, nil
	}

	m.picker.SetData(msg.orders)
	if m.state == statePicking {
		// reopen now that there is something to show
		return m, m.picker.Focus()
	}
	return m, nil
}

func (m Model) handleOrderPicked(msg autocomplete.CommitMsg[salesorder.OrderSummary]) (tea.Model, tea.Cmd) {
	if msg.ID != pickerID {
		return m, nil
	}
	m.picker.SetValue(msg.Item.OrderNumber)
	m.picker.Blur()
	m.state = stateBrowsing
	return m.startLoad(msg.Item.OrderNumber)
}

// startLoad marks the order as loading and fetches it in the background.
func (m Model) startLoad(orderNumber string) (Model, tea.Cmd) {
	orderNumber = strings.TrimSpace(orderNumber)
	m.err = nil
	m.notice = ""
	if orderNumber != m.orders.State().OrderNumber {
		m.cursorKey = ""
	}
	m.orders.Apply(salesorder.OrderLoadStarted{OrderNumber: orderNumber})
	return m, tea.Batch(m.fetchOrder(orderNumber), m.spinner.Tick)
}

func (m Model) handleOrderEvent(msg orderEventMsg) (tea.Model, tea.Cmd) {
	m.orders.Apply(msg.event)

	switch ev := msg.event.(type) {
	case salesorder.OrderLoaded:
		st := m.orders.State()
		if st.OrderNumber != ev.Header.OrderNumber {
			return m, nil
		}
		m.clampCursor()
		return m, m.fetchCatalog(ev.Header.OrderNumber, ev.Header.CustomerNumber)
	case salesorder.OrderLoadFailed:
		if ev.OrderNumber == m.orders.State().OrderNumber {
			m.err = ev.Err
		}
	case salesorder.GenerateFailed:
		m.err = fmt.Errorf("generate stickers: %w", ev.Err)
	case salesorder.GenerateSucceeded:
		m.err = nil
	}
	return m, nil
}

func (m Model) handleCatalogFailed(msg catalogFailedMsg) (tea.Model, tea.Cmd) {
	if msg.orderNumber != m.orders.State().OrderNumber {
		return m, nil
	}
	if errors.Is(msg.err, salesorder.ErrCatalogNotFound) {
		m.notice = "no catalog for this customer; stickers cannot be computed"
		return m, nil
	}
	m.err = msg.err
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state == statePicking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.pickerAnchor().Contains(msg.X, msg.Y) {
		return m.openPicker()
	}
	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == keyCtrlC {
		return m.quit()
	}

	switch m.state {
	case statePicking:
		return m.handlePickerKey(msg, keyStr)
	case stateEditingQty:
		return m.handleQtyKey(msg, keyStr)
	}
	return m.handleBrowseKey(msg)
}

func (m Model) handlePickerKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	if keyStr == keyEsc && !m.picker.Open() && m.orders.State().OrderNumber != "" {
		m.picker.Blur()
		m.state = stateBrowsing
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m Model) handleQtyKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case keyEsc:
		m.qtyInput.Blur()
		m.state = stateBrowsing
		return m, nil
	case keyEnter:
		qty, err := strconv.Atoi(strings.TrimSpace(m.qtyInput.Value()))
		if err != nil || qty < 0 {
			m.err = fmt.Errorf("sticker qty must be a whole number, got %q", m.qtyInput.Value())
			return m, nil
		}
		m.err = nil
		m.orders.Apply(salesorder.LineQtySet{LineKey: m.cursorKey, Qty: qty})
		m.qtyInput.Blur()
		m.state = stateBrowsing
		return m, nil
	}

	var cmd tea.Cmd
	m.qtyInput, cmd = m.qtyInput.Update(msg)
	return m, cmd
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.orders.State()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Pick):
		return m.openPicker()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if !st.Loaded {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(st.Detail, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(st.Detail, 1)
	case key.Matches(msg, m.keys.Toggle):
		if m.cursorKey != "" {
			m.orders.Apply(salesorder.LineSelectionToggled{LineKey: m.cursorKey})
		}
	case key.Matches(msg, m.keys.SelectAll):
		m.orders.Apply(salesorder.AllSelectionToggled{Selected: true})
	case key.Matches(msg, m.keys.SelectNone):
		m.orders.Apply(salesorder.AllSelectionToggled{Selected: false})
	case key.Matches(msg, m.keys.MoreExtra):
		m.orders.Apply(salesorder.ExtraStickersSet{Count: st.ExtraStickers + 1})
	case key.Matches(msg, m.keys.LessExtra):
		m.orders.Apply(salesorder.ExtraStickersSet{Count: st.ExtraStickers - 1})
	case key.Matches(msg, m.keys.SortField):
		m.orders.Apply(salesorder.SortChanged{Spec: salesorder.SortSpec{Field: st.Sort.Field.Next(), Ascending: st.Sort.Ascending}})
	case key.Matches(msg, m.keys.SortDir):
		m.orders.Apply(salesorder.SortChanged{Spec: salesorder.SortSpec{Field: st.Sort.Field, Ascending: !st.Sort.Ascending}})
	case key.Matches(msg, m.keys.Dismiss):
		m.orders.Apply(salesorder.GeneratedQtyDismissed{})
		m.notice = ""
	case key.Matches(msg, m.keys.EditQty):
		return m.openQtyEditor()
	case key.Matches(msg, m.keys.Generate):
		return m.generate()
	case key.Matches(msg, m.keys.Reload):
		return m.startLoad(st.OrderNumber)
	}
	return m, nil
}

func (m Model) openPicker() (Model, tea.Cmd) {
	m.state = statePicking
	return m, m.picker.Focus()
}

func (m Model) openQtyEditor() (Model, tea.Cmd) {
	line, ok := findLine(m.orders.State().Detail, m.cursorKey)
	if !ok {
		return m, nil
	}
	m.qtyInput.SetValue(strconv.Itoa(line.StickerQty))
	m.qtyInput.CursorEnd()
	m.state = stateEditingQty
	return m, m.qtyInput.Focus()
}

func (m Model) generate() (Model, tea.Cmd) {
	if m.orders.State().SaveStatus == salesorder.StatusPending {
		return m, nil
	}

	batch, err := m.orders.PendingBatch()
	if err != nil {
		m.err = err
		return m, nil
	}
	if len(batch.Requests) == 0 {
		m.notice = "select at least one line with stickers to generate"
		return m, nil
	}

	m.notice = ""
	m.orders.Apply(salesorder.GenerateStarted{})
	return m, tea.Batch(m.submitBatch(batch), m.spinner.Tick)
}

// moveCursor moves the cursor by delta lines, clamped to the detail.
func (m *Model) moveCursor(detail []salesorder.DetailLine, delta int) {
	if len(detail) == 0 {
		m.cursorKey = ""
		return
	}
	i := cursorIndex(detail, m.cursorKey)
	if i < 0 {
		i = 0
	} else {
		i = min(max(i+delta, 0), len(detail)-1)
	}
	m.cursorKey = detail[i].LineKey
}

// clampCursor points the cursor at an existing line.
func (m *Model) clampCursor() {
	detail := m.orders.State().Detail
	if _, ok := findLine(detail, m.cursorKey); ok {
		return
	}
	m.cursorKey = ""
	if len(detail) > 0 {
		m.cursorKey = detail[0].LineKey
	}
}

func cursorIndex(detail []salesorder.DetailLine, key string) int {
	for i, l := range detail {
		if l.LineKey == key {
			return i
		}
	}
	return -1
}

func findLine(detail []salesorder.DetailLine, key string) (salesorder.DetailLine, bool) {
	for _, l := range detail {
		if l.LineKey == key {
			return l, true
		}
	}
	return salesorder.DetailLine{}, false
}
