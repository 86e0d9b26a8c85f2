package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/barcoder/internal/barcoder"
	"github.com/hay-kot/barcoder/internal/core/config"
	"github.com/hay-kot/barcoder/internal/core/salesorder"
	"github.com/hay-kot/barcoder/internal/tui/components/autocomplete"
	"github.com/hay-kot/barcoder/pkg/tuitest"
)

type memOrders map[string]salesorder.Header

var memLines = map[string][]salesorder.DetailLine{
	"0012345": {
		{LineKey: "000001", ItemType: salesorder.ItemTypeInventory, ItemCode: "BKP-100", Description: "Trail backpack", QuantityOrdered: 10, BinLocation: "C-02"},
		{LineKey: "000002", ItemType: salesorder.ItemTypeInventory, ItemCode: "TNT-200", Description: "Tent", QuantityOrdered: 2, UOMConvFactor: 6, BinLocation: "A-10"},
		{LineKey: "000003", ItemType: salesorder.ItemTypeInventory, ItemCode: "LMP-300", Description: "Lamp", QuantityOrdered: 1, BinLocation: "B-01"},
		{LineKey: "000004", ItemType: salesorder.ItemTypeCharge, ItemCode: "/FREIGHT", Description: "Freight", BinLocation: "ZZ"},
	},
	"0012399": {
		{LineKey: "000001", ItemType: salesorder.ItemTypeInventory, ItemCode: "BKP-100", QuantityOrdered: 4},
	},
}

func (o memOrders) ListOrders(context.Context) ([]salesorder.OrderSummary, error) {
	return []salesorder.OrderSummary{
		{OrderNumber: "0012345", CustomerNumber: "01-ACME", CustomerName: "Acme Outdoor"},
		{OrderNumber: "0012399", CustomerNumber: "01-ACME", CustomerName: "Acme Outdoor"},
	}, nil
}

func (o memOrders) LoadOrder(_ context.Context, n string) (salesorder.Header, []salesorder.DetailLine, error) {
	h, ok := o[n]
	if !ok {
		return salesorder.Header{}, nil, fmt.Errorf("%w: %s", salesorder.ErrOrderNotFound, n)
	}
	return h, memLines[n], nil
}

type memCatalogs struct{}

func (memCatalogs) LoadCatalog(_ context.Context, customer string) (salesorder.Catalog, error) {
	if customer != "01-ACME" {
		return nil, salesorder.ErrCatalogNotFound
	}
	return salesorder.Catalog{
		"BKP-100": {ItemCode: "BKP-100", CaseQty: 4},
		"TNT-200": {ItemCode: "TNT-200", CaseQty: 6},
	}, nil
}

type memSink struct {
	err   error
	total int
}

func (s *memSink) Generate(_ context.Context, b salesorder.Batch) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.total += b.Total()
	return b.Total(), nil
}

func newTestModel(t *testing.T, sink *memSink) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	orders := barcoder.NewOrderService(
		memOrders{
			"0012345": {OrderNumber: "0012345", CustomerNumber: "01-ACME", CustomerName: "Acme Outdoor", PurchaseOrder: "PO-77"},
			"0012399": {OrderNumber: "0012399", CustomerNumber: "01-ACME", CustomerName: "Acme Outdoor"},
		},
		memCatalogs{},
		sink,
		zerolog.Nop(),
		salesorder.WithExtraStickers(cfg.ExtraStickers()),
		salesorder.WithSort(cfg.SortSpec()),
	)
	return New(barcoder.NewApp(orders, &cfg))
}

func update(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

// loadOrder drives the picker commit and both background fetches.
func loadOrder(t *testing.T, m Model, number string) Model {
	t.Helper()
	m, _ = update(t, m, autocomplete.CommitMsg[salesorder.OrderSummary]{
		ID:   pickerID,
		Item: salesorder.OrderSummary{OrderNumber: number, CustomerNumber: "01-ACME"},
	})
	require.Equal(t, salesorder.StatusPending, m.orders.State().LoadStatus)

	m, cmd := update(t, m, m.fetchOrder(number)())
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	return m
}

func TestModel_ListOrdersOpensPicker(t *testing.T) {
	m := newTestModel(t, &memSink{})
	assert.Equal(t, statePicking, m.state)

	m, _ = update(t, m, m.listOrders()())
	assert.True(t, m.picker.Open())
	assert.Len(t, m.picker.State().Visible, 2)

	out := tuitest.StripANSI(m.View())
	assert.Contains(t, out, "0012345  01-ACME  Acme Outdoor")
}

func TestModel_PickAndLoad(t *testing.T) {
	m := newTestModel(t, &memSink{})
	m, _ = update(t, m, m.listOrders()())

	m = loadOrder(t, m, "0012345")

	assert.Equal(t, stateBrowsing, m.state)
	st := m.orders.State()
	assert.True(t, st.Loaded)
	assert.Equal(t, 1, st.MissingItems)
	assert.Equal(t, "000002", m.cursorKey) // bin A-10 sorts first among inventory lines

	out := tuitest.StripANSI(m.View())
	assert.Contains(t, out, "Order 0012345")
	assert.Contains(t, out, "PO-77")
	assert.Contains(t, out, "BKP-100")
	assert.Contains(t, out, "1 line(s) reference items missing")
	assert.Contains(t, out, "sort bin_location asc")
}

func TestModel_PaddedOrderNumberLoads(t *testing.T) {
	m := newTestModel(t, &memSink{})
	m = loadOrder(t, m, " 0012345 ")

	st := m.orders.State()
	assert.True(t, st.Loaded)
	assert.Equal(t, salesorder.StatusFulfilled, st.LoadStatus)
	assert.Equal(t, "0012345", st.OrderNumber)
}

func TestModel_SelectionKeys(t *testing.T) {
	m := newTestModel(t, &memSink{})
	m = loadOrder(t, m, "0012345")

	m, _ = update(t, m, tuitest.KeySpace())
	line, ok := findLine(m.orders.State().Detail, m.cursorKey)
	require.True(t, ok)
	assert.True(t, line.Selected)

	m, _ = update(t, m, tuitest.KeyPress('a'))
	assert.Equal(t, 2, m.orders.State().SelectedCount)

	m, _ = update(t, m, tuitest.KeyPress('A'))
	assert.Zero(t, m.orders.State().SelectedCount)
}

func TestModel_ExtraAndQtyEdit(t *testing.T) {
	m := newTestModel(t, &memSink{})
	m = loadOrder(t, m, "0012345")

	m, _ = update(t, m, tuitest.KeyPress('+'))
	assert.Equal(t, 4, m.orders.State().ExtraStickers)
	m, _ = update(t, m, tuitest.KeyPress('-'), tuitest.KeyPress('-'))
	assert.Equal(t, 2, m.orders.State().ExtraStickers)

	m, _ = update(t, m, tuitest.KeyPress('e'))
	require.Equal(t, stateEditingQty, m.state)
	assert.Equal(t, "4", m.qtyInput.Value()) // TNT: ceil(12/6) + 2

	m.qtyInput.SetValue("9")
	m, _ = update(t, m, tuitest.KeyEnter())
	assert.Equal(t, stateBrowsing, m.state)

	line, _ := findLine(m.orders.State().Detail, "000002")
	assert.Equal(t, 9, line.StickerQty)
}

func TestModel_QtyEditRejectsGarbage(t *testing.T) {
	m := newTestModel(t, &memSink{})
	m = loadOrder(t, m, "0012345")

	m, _ = update(t, m, tuitest.KeyPress('e'))
	m.qtyInput.SetValue("lots")
	m, _ = update(t, m, tuitest.KeyEnter())

	assert.Equal(t, stateEditingQty, m.state)
	require.Error(t, m.err)

	m, _ = update(t, m, tuitest.KeyEsc())
	assert.Equal(t, stateBrowsing, m.state)
}

func TestModel_CursorFollowsLineAcrossSort(t *testing.T) {
	m := newTestModel(t, &memSink{})
	m = loadOrder(t, m, "0012345")

	m, _ = update(t, m, tuitest.KeyDown())
	key := m.cursorKey
	require.NotEqual(t, "000002", key)

	m, _ = update(t, m, tuitest.KeyPress('S'))
	assert.False(t, m.orders.State().Sort.Ascending)
	assert.Equal(t, key, m.cursorKey)

	m, _ = update(t, m, tuitest.KeyPress('s'))
	assert.Equal(t, salesorder.SortLineSeq, m.orders.State().Sort.Field)
}

func TestModel_Generate(t *testing.T) {
	sink := &memSink{}
	m := newTestModel(t, sink)
	m = loadOrder(t, m, "0012345")

	// nothing selected
	m, cmd := update(t, m, tuitest.KeyPress('g'))
	assert.Nil(t, cmd)
	assert.NotEmpty(t, m.notice)

	m, _ = update(t, m, tuitest.KeyPress('a'))
	m, cmd = update(t, m, tuitest.KeyPress('g'))
	require.NotNil(t, cmd)
	assert.Equal(t, salesorder.StatusPending, m.orders.State().SaveStatus)

	for _, msg := range runCmd(cmd) {
		m, _ = update(t, m, msg)
	}

	st := m.orders.State()
	assert.Equal(t, salesorder.StatusFulfilled, st.SaveStatus)
	assert.True(t, st.Generated)
	assert.Equal(t, 11, st.GeneratedQty)
	assert.Equal(t, 11, sink.total)
	assert.Contains(t, tuitest.StripANSI(m.View()), "Generated 11 sticker(s)")

	m, _ = update(t, m, tuitest.KeyPress('x'))
	assert.False(t, m.orders.State().Generated)
}

func TestModel_GenerateFailure(t *testing.T) {
	m := newTestModel(t, &memSink{err: errors.New("printer offline")})
	m = loadOrder(t, m, "0012345")

	m, _ = update(t, m, tuitest.KeyPress('a'))
	m, cmd := update(t, m, tuitest.KeyPress('g'))
	for _, msg := range runCmd(cmd) {
		m, _ = update(t, m, msg)
	}

	assert.Equal(t, salesorder.StatusRejected, m.orders.State().SaveStatus)
	assert.Contains(t, tuitest.StripANSI(m.View()), "printer offline")
}

func TestModel_StaleCatalogIgnored(t *testing.T) {
	m := newTestModel(t, &memSink{})
	m = loadOrder(t, m, "0012345")

	// start a second order, then deliver the first order's catalog late
	late := m.fetchCatalog("0012345", "01-ACME")
	m, _ = update(t, m, autocomplete.CommitMsg[salesorder.OrderSummary]{
		ID:   pickerID,
		Item: salesorder.OrderSummary{OrderNumber: "0012399"},
	})
	m, _ = update(t, m, m.fetchOrder("0012399")())
	m, _ = update(t, m, late())

	st := m.orders.State()
	assert.Equal(t, "0012399", st.OrderNumber)
	assert.Equal(t, 1, st.MissingItems)
}

func TestModel_LoadFailure(t *testing.T) {
	m := newTestModel(t, &memSink{})
	m, _ = update(t, m, autocomplete.CommitMsg[salesorder.OrderSummary]{
		ID:   pickerID,
		Item: salesorder.OrderSummary{OrderNumber: "0099999"},
	})
	m, _ = update(t, m, m.fetchOrder("0099999")())

	assert.Equal(t, salesorder.StatusRejected, m.orders.State().LoadStatus)
	require.ErrorIs(t, m.err, salesorder.ErrOrderNotFound)
}

func TestModel_PickerEscReturnsToOrder(t *testing.T) {
	m := newTestModel(t, &memSink{})
	m = loadOrder(t, m, "0012345")

	m, _ = update(t, m, tuitest.KeyPress('/'))
	require.Equal(t, statePicking, m.state)

	m, _ = update(t, m, tuitest.KeyEsc()) // closes dropdown
	m, _ = update(t, m, tuitest.KeyEsc()) // leaves picker
	assert.Equal(t, stateBrowsing, m.state)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, &memSink{})
	m = loadOrder(t, m, "0012345")

	m, cmd := update(t, m, tuitest.KeyPress('q'))
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

// runCmd executes cmd and returns the order events it produced.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, runCmd(c)...)
		}
		return out
	case orderEventMsg:
		return []tea.Msg{msg}
	}
	return nil
}
