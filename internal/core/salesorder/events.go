package salesorder

// Event is an input to Reconciler.Apply. Order, catalog and sticker events
// come from asynchronous loaders; the rest come from the UI.
type Event interface {
	eventName() string
}

// OrderLoadStarted marks the start of an order fetch.
type OrderLoadStarted struct {
	OrderNumber string
}

// OrderLoaded carries a fetched order. Lines carry no catalog data.
type OrderLoaded struct {
	Header Header
	Detail []DetailLine
}

// OrderLoadFailed marks a failed order fetch. Err is logged, not retained.
type OrderLoadFailed struct {
	OrderNumber string
	Err         error
}

// CatalogLoaded carries catalog items for the order that was current when the
// request was made. An empty OrderNumber applies to whatever order is loaded.
type CatalogLoaded struct {
	OrderNumber string
	Items       Catalog
}

// ExtraStickersSet changes the extra-stock sticker buffer.
type ExtraStickersSet struct {
	Count int
}

// LineQtySet overrides the sticker quantity of one line.
type LineQtySet struct {
	LineKey string
	Qty     int
}

// LineSelectionToggled flips one line's selection, or forces it when Forced
// is set.
type LineSelectionToggled struct {
	LineKey string
	Forced  *bool
}

// AllSelectionToggled sets selection on every eligible line.
type AllSelectionToggled struct {
	Selected bool
}

// SortChanged replaces the active sort.
type SortChanged struct {
	Spec SortSpec
}

// GenerateStarted marks the start of a sticker generation request.
type GenerateStarted struct{}

// GenerateSucceeded carries the number of stickers generated.
type GenerateSucceeded struct {
	Count int
}

// GenerateFailed marks a failed generation request.
type GenerateFailed struct {
	Err error
}

// GeneratedQtyDismissed acknowledges a finished generation.
type GeneratedQtyDismissed struct{}

func (OrderLoadStarted) eventName() string      { return "order.load.started" }
func (OrderLoaded) eventName() string           { return "order.load.fulfilled" }
func (OrderLoadFailed) eventName() string       { return "order.load.rejected" }
func (CatalogLoaded) eventName() string         { return "catalog.load.fulfilled" }
func (ExtraStickersSet) eventName() string      { return "stickers.extra.set" }
func (LineQtySet) eventName() string            { return "line.qty.set" }
func (LineSelectionToggled) eventName() string  { return "line.selection.toggled" }
func (AllSelectionToggled) eventName() string   { return "lines.selection.toggled" }
func (SortChanged) eventName() string           { return "lines.sort.changed" }
func (GenerateStarted) eventName() string       { return "stickers.generate.started" }
func (GenerateSucceeded) eventName() string     { return "stickers.generate.fulfilled" }
func (GenerateFailed) eventName() string        { return "stickers.generate.rejected" }
func (GeneratedQtyDismissed) eventName() string { return "stickers.generate.dismissed" }

// Forced returns a pointer to v for LineSelectionToggled.Forced.
func Forced(v bool) *bool { return &v }
