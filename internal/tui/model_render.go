package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/hay-kot/barcoder/internal/barcoder"
	"github.com/hay-kot/barcoder/internal/core/salesorder"
	"github.com/hay-kot/barcoder/internal/core/selection"
	"github.com/hay-kot/barcoder/internal/core/styles"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	minTableRows  = 3
)

type column struct {
	title string
	width int
	right bool
}

var columns = []column{
	{title: "", width: 2},
	{title: "Line", width: 6},
	{title: "Item", width: 14},
	{title: "Description", width: 28},
	{title: "Bin", width: 8},
	{title: "Ordered", width: 8, right: true},
	{title: "UOM", width: 4},
	{title: "Stickers", width: 8, right: true},
}

// View renders the screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width, height := m.size()
	st := m.orders.State()

	top := []string{m.picker.View()}
	top = append(top, m.renderHeader(st)...)
	top = append(top, m.renderBanners(st)...)

	bottom := []string{m.renderStatus(st)}
	if m.state == stateEditingQty {
		bottom = append(bottom, m.qtyInput.View())
	}
	bottom = append(bottom, m.renderHelp())

	used := lipgloss.Height(strings.Join(top, "\n")) + lipgloss.Height(strings.Join(bottom, "\n")) + 1
	rows := max(height-used, minTableRows)

	body := append(top, m.renderTable(st, rows, width))
	body = append(body, bottom...)
	view := strings.Join(body, "\n")

	if m.state == statePicking {
		view = m.picker.Overlay(view, m.pickerAnchor(), selection.Rect{W: width, H: height})
	}
	return view
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// pickerAnchor is the screen rectangle of the order picker box.
func (m Model) pickerAnchor() selection.Rect {
	v := m.picker.View()
	return selection.Rect{X: 0, Y: 0, W: lipgloss.Width(v), H: lipgloss.Height(v)}
}

func (m Model) renderHeader(st barcoder.State) []string {
	if st.OrderNumber == "" {
		return []string{styles.HeaderLabelStyle.Render("Pick an order to start.")}
	}

	if st.LoadStatus == salesorder.StatusPending {
		return []string{fmt.Sprintf("%s Loading order %s…", m.spinner.View(), st.OrderNumber)}
	}

	if st.Header == nil {
		return []string{styles.HeaderTitleStyle.Render("Order " + st.OrderNumber)}
	}

	h := st.Header
	title := styles.HeaderTitleStyle.Render(fmt.Sprintf("Order %s", h.OrderNumber)) + "  " +
		styles.HeaderValueStyle.Render(fmt.Sprintf("%s (%s)", h.CustomerName, h.CustomerNumber))

	var meta []string
	for _, f := range []struct{ label, value string }{
		{"date", h.OrderDate},
		{"po", h.PurchaseOrder},
		{"ship via", h.ShipVia},
	} {
		if f.value != "" {
			meta = append(meta, styles.HeaderLabelStyle.Render(f.label+" ")+styles.HeaderValueStyle.Render(f.value))
		}
	}

	lines := []string{title}
	if len(meta) > 0 {
		lines = append(lines, strings.Join(meta, "   "))
	}
	return lines
}

func (m Model) renderBanners(st barcoder.State) []string {
	var out []string

	if st.MissingItems > 0 {
		out = append(out, styles.BannerWarningStyle.Render(fmt.Sprintf(
			"%s %d line(s) reference items missing from the customer catalog", styles.IconWarning, st.MissingItems)))
	}

	switch {
	case st.SaveStatus == salesorder.StatusPending:
		out = append(out, fmt.Sprintf("%s Generating stickers…", m.spinner.View()))
	case st.Generated:
		out = append(out, styles.BannerSuccessStyle.Render(fmt.Sprintf(
			"%s Generated %d sticker(s). Press x to dismiss.", styles.IconCheck, st.GeneratedQty)))
	}

	if m.err != nil {
		out = append(out, styles.BannerErrorStyle.Render(m.err.Error()))
	}
	if m.notice != "" {
		out = append(out, styles.HeaderLabelStyle.Render(m.notice))
	}
	return out
}

func (m Model) renderTable(st barcoder.State, rows, width int) string {
	var b strings.Builder

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = pad(c.title, c.width, c.right)
	}
	b.WriteString(styles.TableHeaderStyle.Render(ansi.Truncate(strings.Join(header, " "), width, "")))

	if !st.Loaded || len(st.Detail) == 0 {
		return b.String()
	}

	cur := max(cursorIndex(st.Detail, m.cursorKey), 0)
	start := 0
	if len(st.Detail) > rows {
		start = min(max(cur-rows/2, 0), len(st.Detail)-rows)
	}
	end := min(start+rows, len(st.Detail))

	for i := start; i < end; i++ {
		line := st.Detail[i]
		b.WriteString("\n")
		b.WriteString(renderRow(line, i == cur, width))
	}
	return b.String()
}

func renderRow(l salesorder.DetailLine, cursor bool, width int) string {
	mark := styles.IconUnchecked
	if l.Selected {
		mark = styles.IconCheck
	}
	if cursor {
		mark = styles.IconCursor + mark
	}

	desc := l.Description
	if desc == "" && l.Item != nil {
		desc = l.Item.Description
	}

	stickers := "-"
	if l.Resolved() {
		stickers = fmt.Sprintf("%d", l.StickerQty)
	} else if l.Missing() {
		stickers = styles.IconWarning
	}

	cells := []string{
		mark,
		l.LineKey,
		l.ItemCode,
		desc,
		l.BinLocation,
		formatQty(l.QuantityOrdered),
		l.UnitOfMeasure,
		stickers,
	}
	parts := make([]string, len(cells))
	for i, c := range columns {
		parts[i] = pad(cells[i], c.width, c.right)
	}
	row := ansi.Truncate(strings.Join(parts, " "), width, "")

	switch {
	case cursor:
		return styles.RowCursorStyle.Render(row)
	case !l.Eligible():
		return styles.RowIneligibleStyle.Render(row)
	default:
		return styles.RowStyle.Render(row)
	}
}

func (m Model) renderStatus(st barcoder.State) string {
	if !st.Loaded {
		return ""
	}
	dir := "asc"
	if !st.Sort.Ascending {
		dir = "desc"
	}
	return styles.StatusBarStyle.Render(fmt.Sprintf(
		"sort %s %s • extra %d • %d selected • %d stickers",
		st.Sort.Field, dir, st.ExtraStickers, st.SelectedCount, st.TotalStickers))
}

func (m Model) renderHelp() string {
	if m.state == statePicking {
		return m.help.View(m.picker.KeyMap())
	}
	return m.help.View(m.keys)
}

// pad fits s into width cells, truncating with an ellipsis.
func pad(s string, width int, right bool) string {
	s = ansi.Truncate(s, width, "…")
	gap := width - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

func formatQty(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%.2f", q)
}
