package salesorder

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(number string) OrderLoaded {
	return OrderLoaded{
		Header: Header{OrderNumber: number, CustomerNumber: "01-TEST", CustomerName: "Test Outfitters"},
		Detail: []DetailLine{
			{LineKey: "000001", LineSeq: 1, ItemType: ItemTypeInventory, ItemCode: "BKP-100", QuantityOrdered: 10, UOMConvFactor: 1, BinLocation: "C-02"},
			{LineKey: "000002", LineSeq: 2, ItemType: ItemTypeInventory, ItemCode: "TNT-200", QuantityOrdered: 2, UOMConvFactor: 6, UnitOfMeasure: "CS", BinLocation: "A-10"},
			{LineKey: "000003", LineSeq: 3, ItemType: ItemTypeInventory, ItemCode: "LMP-300", QuantityOrdered: 4, UOMConvFactor: 1, BinLocation: "B-01"},
			{LineKey: "000004", LineSeq: 4, ItemType: ItemTypeCharge, ItemCode: "/FREIGHT", QuantityOrdered: 1, BinLocation: ""},
			{LineKey: "000005", LineSeq: 5, ItemType: ItemTypeMisc, Description: "Ship complete", BinLocation: ""},
		},
	}
}

func testCatalog(number string) CatalogLoaded {
	return CatalogLoaded{
		OrderNumber: number,
		Items: Catalog{
			"BKP-100": {ItemCode: "BKP-100", UPC: "012345678905", CaseQty: 4},
			"TNT-200": {ItemCode: "TNT-200", UPC: "012345678912", CaseQty: 6},
		},
	}
}

func loaded(t *testing.T, number string) *Reconciler {
	t.Helper()
	r := NewReconciler()
	r.Apply(OrderLoadStarted{OrderNumber: number})
	r.Apply(testOrder(number))
	return r
}

func lineKeys(lines []DetailLine) []string {
	keys := make([]string, len(lines))
	for i, l := range lines {
		keys[i] = l.LineKey
	}
	return keys
}

func assertConsistent(t *testing.T, r *Reconciler) {
	t.Helper()
	detail := r.Detail()
	assert.True(t, r.Sort().IsSorted(detail), "detail not sorted by %s: %v", r.Sort(), lineKeys(detail))
	seen := map[string]bool{}
	for _, l := range detail {
		assert.False(t, seen[l.LineKey], "duplicate line key %s", l.LineKey)
		seen[l.LineKey] = true
	}
}

func TestReconciler_OrderLoad(t *testing.T) {
	t.Run("new reconciler is empty and idle", func(t *testing.T) {
		r := NewReconciler()
		assert.Nil(t, r.Header())
		assert.Empty(t, r.Detail())
		assert.Equal(t, StatusIdle, r.LoadStatus())
		assert.Equal(t, StatusIdle, r.SaveStatus())
		assert.Equal(t, DefaultExtraStickers, r.ExtraStickers())
		assert.Equal(t, DefaultSort, r.Sort())
	})

	t.Run("success replaces header and sorts detail", func(t *testing.T) {
		r := loaded(t, "0100001")
		require.NotNil(t, r.Header())
		assert.Equal(t, "0100001", r.Header().OrderNumber)
		assert.Equal(t, StatusFulfilled, r.LoadStatus())
		assert.True(t, r.Loaded())
		assert.Equal(t, []string{"000004", "000005", "000002", "000003", "000001"}, lineKeys(r.Detail()))
		for _, l := range r.Detail() {
			assert.Zero(t, l.StickerQty)
			assert.False(t, l.Resolved())
		}
	})

	t.Run("switching orders clears before the new load resolves", func(t *testing.T) {
		r := loaded(t, "A")
		r.Apply(OrderLoadStarted{OrderNumber: "B"})

		assert.Nil(t, r.Header())
		assert.Empty(t, r.Detail())
		assert.False(t, r.Loaded())
		assert.Equal(t, StatusPending, r.LoadStatus())
	})

	t.Run("reloading the same order keeps state while pending", func(t *testing.T) {
		r := loaded(t, "A")
		r.Apply(OrderLoadStarted{OrderNumber: "A"})

		assert.NotNil(t, r.Header())
		assert.Len(t, r.Detail(), 5)
		assert.Equal(t, StatusPending, r.LoadStatus())
	})

	t.Run("failure keeps last known state", func(t *testing.T) {
		r := loaded(t, "A")
		r.Apply(OrderLoadStarted{OrderNumber: "A"})
		r.Apply(OrderLoadFailed{OrderNumber: "A", Err: errors.New("timeout")})

		assert.Equal(t, StatusRejected, r.LoadStatus())
		assert.Len(t, r.Detail(), 5)
		assert.NotNil(t, r.Header())
	})

	t.Run("stale order result is discarded", func(t *testing.T) {
		r := NewReconciler()
		r.Apply(OrderLoadStarted{OrderNumber: "A"})
		r.Apply(OrderLoadStarted{OrderNumber: "B"})
		r.Apply(testOrder("A"))

		assert.Empty(t, r.Detail())
		assert.Equal(t, StatusPending, r.LoadStatus())
		assert.Equal(t, "B", r.OrderNumber())
	})

	t.Run("duplicate line keys are dropped", func(t *testing.T) {
		order := testOrder("A")
		dup := order.Detail[0]
		dup.ItemCode = "OTHER"
		order.Detail = append(order.Detail, dup)

		r := NewReconciler()
		r.Apply(OrderLoadStarted{OrderNumber: "A"})
		r.Apply(order)

		require.Len(t, r.Detail(), 5)
		line, ok := r.Line("000001")
		require.True(t, ok)
		assert.Equal(t, "BKP-100", line.ItemCode)
	})

	t.Run("load start clears generated quantity", func(t *testing.T) {
		r := loaded(t, "A")
		r.Apply(GenerateSucceeded{Count: 12})
		r.Apply(OrderLoadStarted{OrderNumber: "A"})
		_, ok := r.LastGeneratedQty()
		assert.False(t, ok)
	})
}

func TestReconciler_Catalog(t *testing.T) {
	t.Run("merge resolves matching lines", func(t *testing.T) {
		r := loaded(t, "A")
		r.Apply(testCatalog("A"))

		bkp, _ := r.Line("000001")
		require.True(t, bkp.Resolved())
		assert.Equal(t, "012345678905", bkp.Item.UPC)
		// ceil(10/4) + 3
		assert.Equal(t, 6, bkp.StickerQty)

		tnt, _ := r.Line("000002")
		// 2 cases x 6 units / 6 per sticker + 3
		assert.Equal(t, 5, tnt.StickerQty)

		lmp, _ := r.Line("000003")
		assert.False(t, lmp.Resolved())
		assert.Zero(t, lmp.StickerQty)

		assert.Equal(t, 1, r.MissingItems())
		assertConsistent(t, r)
	})

	t.Run("catalog arriving before the order is applied on load", func(t *testing.T) {
		r := NewReconciler()
		r.Apply(OrderLoadStarted{OrderNumber: "A"})
		r.Apply(testCatalog("A"))
		r.Apply(testOrder("A"))

		bkp, _ := r.Line("000001")
		assert.True(t, bkp.Resolved())
		assert.Equal(t, 6, bkp.StickerQty)
	})

	t.Run("stale catalog produces no visible change", func(t *testing.T) {
		r := NewReconciler()
		r.Apply(OrderLoadStarted{OrderNumber: "A"})
		r.Apply(OrderLoadStarted{OrderNumber: "B"})
		r.Apply(testOrder("B"))
		before := r.Detail()

		r.Apply(testCatalog("A"))

		assert.Equal(t, before, r.Detail())
		assert.Equal(t, 3, r.MissingItems())
	})

	t.Run("catalog from previous order is not carried into the next", func(t *testing.T) {
		r := loaded(t, "A")
		r.Apply(testCatalog("A"))
		r.Apply(OrderLoadStarted{OrderNumber: "B"})
		r.Apply(testOrder("B"))

		for _, l := range r.Detail() {
			assert.False(t, l.Resolved())
		}
	})

	t.Run("unmatched lines keep manual quantities", func(t *testing.T) {
		r := loaded(t, "A")
		r.Apply(LineQtySet{LineKey: "000003", Qty: 9})
		r.Apply(testCatalog("A"))

		lmp, _ := r.Line("000003")
		assert.Equal(t, 9, lmp.StickerQty)
	})
}

func TestReconciler_ExtraStickers(t *testing.T) {
	r := loaded(t, "A")
	r.Apply(testCatalog("A"))

	r.Apply(ExtraStickersSet{Count: 0})
	bkp, _ := r.Line("000001")
	assert.Equal(t, 3, bkp.StickerQty)

	r.Apply(ExtraStickersSet{Count: 3})
	bkp, _ = r.Line("000001")
	assert.Equal(t, StickerQtyFor(bkp, 3), bkp.StickerQty)
	assert.Equal(t, 6, bkp.StickerQty)

	r.Apply(ExtraStickersSet{Count: -2})
	assert.Equal(t, 0, r.ExtraStickers())

	lmp, _ := r.Line("000003")
	assert.Zero(t, lmp.StickerQty)
}

func TestReconciler_LineQty(t *testing.T) {
	r := loaded(t, "A")
	r.Apply(testCatalog("A"))
	before := r.Detail()

	r.Apply(LineQtySet{LineKey: "000002", Qty: 40})
	once := r.Detail()
	r.Apply(LineQtySet{LineKey: "000002", Qty: 40})
	assert.Equal(t, once, r.Detail())

	for i, l := range once {
		if l.LineKey == "000002" {
			assert.Equal(t, 40, l.StickerQty)
			continue
		}
		assert.Equal(t, before[i], l)
	}

	r.Apply(LineQtySet{LineKey: "missing", Qty: 1})
	assert.Equal(t, once, r.Detail())
}

func TestReconciler_Selection(t *testing.T) {
	t.Run("toggle flips and forces one line", func(t *testing.T) {
		r := loaded(t, "A")
		r.Apply(LineSelectionToggled{LineKey: "000003"})
		l, _ := r.Line("000003")
		assert.True(t, l.Selected)

		r.Apply(LineSelectionToggled{LineKey: "000003"})
		l, _ = r.Line("000003")
		assert.False(t, l.Selected)

		r.Apply(LineSelectionToggled{LineKey: "000003", Forced: Forced(true)})
		r.Apply(LineSelectionToggled{LineKey: "000003", Forced: Forced(true)})
		l, _ = r.Line("000003")
		assert.True(t, l.Selected)
	})

	t.Run("bulk toggle touches only eligible lines", func(t *testing.T) {
		r := loaded(t, "A")
		r.Apply(testCatalog("A"))
		r.Apply(LineSelectionToggled{LineKey: "000004", Forced: Forced(true)})

		r.Apply(AllSelectionToggled{Selected: true})
		assert.ElementsMatch(t, []string{"000001", "000002", "000004"}, lineKeys(r.SelectedLines()))

		r.Apply(AllSelectionToggled{Selected: false})
		assert.Equal(t, []string{"000004"}, lineKeys(r.SelectedLines()))
		for _, l := range r.Detail() {
			if l.Eligible() {
				assert.False(t, l.Selected)
			}
		}
	})

	t.Run("bulk toggle on empty detail is a no-op", func(t *testing.T) {
		r := NewReconciler()
		r.Apply(AllSelectionToggled{Selected: true})
		assert.Empty(t, r.Detail())
	})

	t.Run("total stickers sums selected lines", func(t *testing.T) {
		r := loaded(t, "A")
		r.Apply(testCatalog("A"))
		r.Apply(AllSelectionToggled{Selected: true})
		assert.Equal(t, 11, r.TotalStickers())
	})
}

func TestReconciler_Sort(t *testing.T) {
	r := loaded(t, "A")
	r.Apply(testCatalog("A"))

	r.Apply(SortChanged{Spec: SortSpec{Field: SortLineSeq, Ascending: false}})
	assert.Equal(t, []string{"000005", "000004", "000003", "000002", "000001"}, lineKeys(r.Detail()))

	r.Apply(SortChanged{Spec: SortSpec{Field: SortStickerQty, Ascending: true}})
	// zero-quantity ties fall back to line key
	assert.Equal(t, []string{"000003", "000004", "000005", "000002", "000001"}, lineKeys(r.Detail()))

	r.Apply(SortChanged{Spec: SortSpec{Field: "bogus"}})
	assert.Equal(t, SortStickerQty, r.Sort().Field)

	r.Apply(SortChanged{Spec: SortSpec{Field: SortSelected, Ascending: false}})
	r.Apply(LineSelectionToggled{LineKey: "000003"})
	assert.Equal(t, "000003", r.Detail()[0].LineKey)
}

func TestReconciler_Generate(t *testing.T) {
	t.Run("zero count still registers", func(t *testing.T) {
		r := loaded(t, "A")
		r.Apply(GenerateStarted{})
		assert.Equal(t, StatusPending, r.SaveStatus())

		r.Apply(GenerateSucceeded{Count: 0})
		assert.Equal(t, StatusFulfilled, r.SaveStatus())
		qty, ok := r.LastGeneratedQty()
		assert.True(t, ok)
		assert.Zero(t, qty)

		r.Apply(GeneratedQtyDismissed{})
		_, ok = r.LastGeneratedQty()
		assert.False(t, ok)
		assert.Equal(t, StatusIdle, r.SaveStatus())
	})

	t.Run("failure is a status flag", func(t *testing.T) {
		r := loaded(t, "A")
		r.Apply(GenerateStarted{})
		r.Apply(GenerateFailed{Err: errors.New("printer offline")})
		assert.Equal(t, StatusRejected, r.SaveStatus())
		assert.Len(t, r.Detail(), 5)
	})
}

func TestReconciler_InvariantsHoldForEventSequences(t *testing.T) {
	keys := []string{"000001", "000002", "000003", "000004", "000005", "nope"}
	orders := []string{"A", "B"}

	events := func(seed int) Event {
		switch seed % 12 {
		case 0:
			return OrderLoadStarted{OrderNumber: orders[seed%len(orders)]}
		case 1:
			return testOrder(orders[(seed/7)%len(orders)])
		case 2:
			return OrderLoadFailed{OrderNumber: "A", Err: errors.New("boom")}
		case 3:
			return testCatalog(orders[(seed/5)%len(orders)])
		case 4:
			return ExtraStickersSet{Count: seed % 6}
		case 5:
			return LineQtySet{LineKey: keys[seed%len(keys)], Qty: seed % 50}
		case 6:
			return LineSelectionToggled{LineKey: keys[seed%len(keys)]}
		case 7:
			return AllSelectionToggled{Selected: seed%2 == 0}
		case 8:
			return SortChanged{Spec: SortSpec{Field: SortFields[seed%len(SortFields)], Ascending: seed%3 != 0}}
		case 9:
			return GenerateSucceeded{Count: seed % 4}
		case 10:
			return GeneratedQtyDismissed{}
		default:
			return GenerateStarted{}
		}
	}

	for run := range 20 {
		t.Run(fmt.Sprintf("run %d", run), func(t *testing.T) {
			r := NewReconciler()
			seed := run*7919 + 1
			for range 300 {
				seed = (seed*1103515245 + 12345) & 0x7fffffff
				r.Apply(events(seed >> 4))
				assertConsistent(t, r)
			}
		})
	}
}

func TestReconciler_LogsEventNames(t *testing.T) {
	var buf bytes.Buffer
	r := NewReconciler(WithLogger(zerolog.New(&buf)))

	r.Apply(nil)
	r.Apply(OrderLoadStarted{OrderNumber: "0012345"})
	r.Apply(testOrder("0099999"))
	r.Apply(GenerateFailed{Err: errors.New("printer offline")})

	type entry struct {
		Level   string `json:"level"`
		Event   string `json:"event"`
		Message string `json:"message"`
	}
	var entries []entry
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var e entry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}

	assert.Contains(t, entries, entry{Level: "debug", Event: "order.load.started", Message: "apply"})
	assert.Contains(t, entries, entry{Level: "info", Event: "order.load.fulfilled", Message: "discarding stale order result"})
	assert.Contains(t, entries, entry{Level: "warn", Event: "stickers.generate.rejected", Message: "sticker generation failed"})
	assert.Equal(t, StatusPending, r.LoadStatus())
}
