package salesorder

import (
	"github.com/rs/zerolog"
)

// DefaultExtraStickers is the extra-stock buffer a new Reconciler starts with.
const DefaultExtraStickers = 3

// Reconciler holds one sales order's header and detail lines and folds
// order, catalog and edit events into them. After every Apply the detail
// collection is sorted by the active SortSpec and line keys are unique.
//
// A Reconciler is owned by a single goroutine; it performs no locking.
type Reconciler struct {
	log zerolog.Logger

	orderNumber string
	header      *Header
	detail      []DetailLine
	loaded      bool
	catalog     Catalog

	extra int
	sort  SortSpec

	loadStatus    Status
	saveStatus    Status
	generatedQty  int
	generatedSeen bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithExtraStickers sets the initial extra-stock buffer.
func WithExtraStickers(n int) Option {
	return func(r *Reconciler) { r.extra = max(n, 0) }
}

// WithSort sets the initial sort.
func WithSort(s SortSpec) Option {
	return func(r *Reconciler) {
		if s.Field.IsValid() {
			r.sort = s
		}
	}
}

// WithLogger sets the logger used for discarded and failed events.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Reconciler) { r.log = l }
}

// NewReconciler returns an empty Reconciler.
func NewReconciler(opts ...Option) *Reconciler {
	r := &Reconciler{
		log:        zerolog.Nop(),
		extra:      DefaultExtraStickers,
		sort:       DefaultSort,
		loadStatus: StatusIdle,
		saveStatus: StatusIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply folds one event into the state.
func (r *Reconciler) Apply(ev Event) {
	if ev == nil {
		return
	}
	r.log.Debug().Str("event", ev.eventName()).Str("order_number", r.orderNumber).Msg("apply")

	switch e := ev.(type) {
	case OrderLoadStarted:
		r.orderLoadStarted(e)
	case OrderLoaded:
		r.orderLoaded(e)
	case OrderLoadFailed:
		r.loadStatus = StatusRejected
		r.log.Warn().Err(e.Err).Str("event", e.eventName()).Str("order_number", e.OrderNumber).Msg("order load failed")
	case CatalogLoaded:
		r.catalogLoaded(e)
	case ExtraStickersSet:
		r.extra = max(e.Count, 0)
		for i := range r.detail {
			r.detail[i].StickerQty = StickerQtyFor(r.detail[i], r.extra)
		}
	case LineQtySet:
		r.updateLine(e.LineKey, func(l *DetailLine) { l.StickerQty = max(e.Qty, 0) })
	case LineSelectionToggled:
		r.updateLine(e.LineKey, func(l *DetailLine) {
			if e.Forced != nil {
				l.Selected = *e.Forced
			} else {
				l.Selected = !l.Selected
			}
		})
	case AllSelectionToggled:
		for i := range r.detail {
			if r.detail[i].Eligible() {
				r.detail[i].Selected = e.Selected
			}
		}
	case SortChanged:
		if !e.Spec.Field.IsValid() {
			r.log.Debug().Str("event", e.eventName()).Str("field", string(e.Spec.Field)).Msg("ignoring unknown sort field")
			return
		}
		r.sort = e.Spec
	case GenerateStarted:
		r.saveStatus = StatusPending
	case GenerateSucceeded:
		r.saveStatus = StatusFulfilled
		r.generatedQty = e.Count
		r.generatedSeen = true
	case GenerateFailed:
		r.saveStatus = StatusRejected
		r.log.Warn().Err(e.Err).Str("event", e.eventName()).Str("order_number", r.orderNumber).Msg("sticker generation failed")
	case GeneratedQtyDismissed:
		r.saveStatus = StatusIdle
		r.generatedQty = 0
		r.generatedSeen = false
	default:
		r.log.Debug().Str("event", ev.eventName()).Msg("ignoring unknown event")
		return
	}

	r.sort.Sort(r.detail)
}

func (r *Reconciler) orderLoadStarted(e OrderLoadStarted) {
	if e.OrderNumber != r.orderNumber {
		r.header = nil
		r.detail = nil
		r.loaded = false
		r.catalog = nil
	}
	r.orderNumber = e.OrderNumber
	r.loadStatus = StatusPending
	r.generatedQty = 0
	r.generatedSeen = false
}

func (r *Reconciler) orderLoaded(e OrderLoaded) {
	if r.orderNumber != "" && e.Header.OrderNumber != r.orderNumber {
		r.log.Info().
			Str("event", e.eventName()).
			Str("order_number", r.orderNumber).
			Str("stale_order_number", e.Header.OrderNumber).
			Msg("discarding stale order result")
		return
	}

	header := e.Header
	seen := make(map[string]bool, len(e.Detail))
	detail := make([]DetailLine, 0, len(e.Detail))
	for _, line := range e.Detail {
		if seen[line.LineKey] {
			r.log.Warn().Str("line_key", line.LineKey).Msg("dropping duplicate order line")
			continue
		}
		seen[line.LineKey] = true
		line.Item = nil
		line.StickerQty = 0
		detail = append(detail, line)
	}

	r.orderNumber = header.OrderNumber
	r.header = &header
	r.detail = detail
	r.loaded = true
	r.loadStatus = StatusFulfilled
	r.generatedQty = 0
	r.generatedSeen = false

	if r.catalog != nil {
		r.merge(r.catalog)
	}
}

func (r *Reconciler) catalogLoaded(e CatalogLoaded) {
	if e.OrderNumber != "" && e.OrderNumber != r.orderNumber {
		r.log.Info().
			Str("event", e.eventName()).
			Str("order_number", r.orderNumber).
			Str("stale_order_number", e.OrderNumber).
			Msg("discarding stale catalog result")
		return
	}
	r.catalog = e.Items
	r.merge(e.Items)
}

// merge copies catalog items into lines with a matching item code and
// recomputes their sticker quantities. Other lines are left alone.
func (r *Reconciler) merge(items Catalog) {
	for i := range r.detail {
		line := &r.detail[i]
		if line.ItemCode == "" {
			continue
		}
		item, ok := items[line.ItemCode]
		if !ok {
			continue
		}
		line.Item = &item
		line.StickerQty = StickerQtyFor(*line, r.extra)
	}
}

func (r *Reconciler) updateLine(key string, fn func(*DetailLine)) {
	for i := range r.detail {
		if r.detail[i].LineKey == key {
			fn(&r.detail[i])
			return
		}
	}
}

// OrderNumber returns the order being loaded or shown.
func (r *Reconciler) OrderNumber() string { return r.orderNumber }

// Header returns the loaded header, nil before a load completes.
func (r *Reconciler) Header() *Header {
	if r.header == nil {
		return nil
	}
	h := *r.header
	return &h
}

// Detail returns a copy of the sorted detail lines.
func (r *Reconciler) Detail() []DetailLine {
	out := make([]DetailLine, len(r.detail))
	copy(out, r.detail)
	return out
}

// Line returns the line with the given key.
func (r *Reconciler) Line(key string) (DetailLine, bool) {
	for _, l := range r.detail {
		if l.LineKey == key {
			return l, true
		}
	}
	return DetailLine{}, false
}

// Loaded reports whether the current order finished loading.
func (r *Reconciler) Loaded() bool { return r.loaded }

// LoadStatus returns the order fetch status.
func (r *Reconciler) LoadStatus() Status { return r.loadStatus }

// SaveStatus returns the sticker generation status.
func (r *Reconciler) SaveStatus() Status { return r.saveStatus }

// ExtraStickers returns the extra-stock buffer.
func (r *Reconciler) ExtraStickers() int { return r.extra }

// Sort returns the active sort.
func (r *Reconciler) Sort() SortSpec { return r.sort }

// LastGeneratedQty returns the count from the last successful generation.
// ok is false when nothing has been generated since the last dismissal;
// a zero count with ok true is a real result.
func (r *Reconciler) LastGeneratedQty() (qty int, ok bool) {
	return r.generatedQty, r.generatedSeen
}

// MissingItems counts lines whose catalog item never resolved.
func (r *Reconciler) MissingItems() int {
	n := 0
	for _, l := range r.detail {
		if l.Missing() {
			n++
		}
	}
	return n
}

// SelectedLines returns the selected lines in display order.
func (r *Reconciler) SelectedLines() []DetailLine {
	var out []DetailLine
	for _, l := range r.detail {
		if l.Selected {
			out = append(out, l)
		}
	}
	return out
}

// TotalStickers sums the sticker quantity of the selected lines.
func (r *Reconciler) TotalStickers() int {
	total := 0
	for _, l := range r.detail {
		if l.Selected {
			total += l.StickerQty
		}
	}
	return total
}
