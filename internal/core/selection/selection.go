// Package selection implements the state machine behind a type-ahead
// selection control: a text query, a live-filtered candidate list, keyboard
// navigation and a single commit event per selection gesture.
//
// The package performs no rendering and no I/O. Callers own the candidate
// data and the query text and feed changes in through SetData, SetQuery and
// Type; the control reports back through Options.OnChange and
// Options.OnCommit only.
package selection

// Key is a keyboard gesture understood by Input.
type Key int

const (
	KeyOther Key = iota
	KeyEscape
	KeyDown
	KeyUp
	KeyPageDown
	KeyPageUp
	KeyEnter
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "escape"
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	case KeyPageDown:
		return "pgdown"
	case KeyPageUp:
		return "pgup"
	case KeyEnter:
		return "enter"
	default:
		return "other"
	}
}

const (
	DefaultMaxVisible   = 50
	DefaultPageStep     = 10
	DefaultViewportRows = 8
)

// Options configures an Input.
type Options[T any] struct {
	// ItemKey returns a stable unique key for a record.
	ItemKey func(T) string
	// Filter builds a predicate for the current query.
	Filter func(query string) func(T) bool
	// OnCommit receives the record chosen by Enter or Click. It is never
	// called without a record.
	OnCommit func(T)
	// OnChange receives the query text after every edit made through Type.
	OnChange func(query string)

	MaxVisible   int
	PageStep     int
	ViewportRows int
}

func (o *Options[T]) applyDefaults() {
	if o.MaxVisible <= 0 {
		o.MaxVisible = DefaultMaxVisible
	}
	if o.PageStep <= 0 {
		o.PageStep = DefaultPageStep
	}
	if o.ViewportRows <= 0 {
		o.ViewportRows = DefaultViewportRows
	}
	if o.ItemKey == nil {
		o.ItemKey = func(T) string { return "" }
	}
	if o.Filter == nil {
		o.Filter = func(string) func(T) bool { return func(T) bool { return true } }
	}
}

// Snapshot is a read-only view of the control state.
type Snapshot[T any] struct {
	Query       string
	Open        bool
	Highlighted int
	Visible     []T
	Offset      int
}

// Input is a type-ahead selection state machine with two states, open and
// closed. The zero value is not usable; construct with New.
type Input[T any] struct {
	opts Options[T]

	data        []T
	query       string
	open        bool
	highlighted int
	visible     []T
	offset      int

	readOnly bool
	disabled bool
}

// New returns a closed Input with no data.
func New[T any](opts Options[T]) *Input[T] {
	opts.applyDefaults()
	return &Input[T]{
		opts:        opts,
		highlighted: -1,
	}
}

// SetData replaces the candidate snapshot and recomputes the visible list.
// The slice is not retained for mutation; callers may reuse it afterwards.
func (in *Input[T]) SetData(data []T) {
	in.data = append([]T(nil), data...)
	in.recompute()
}

// SetQuery replaces the query text without firing OnChange.
func (in *Input[T]) SetQuery(q string) {
	if q == in.query {
		return
	}
	in.query = q
	in.recompute()
}

// Type records a keystroke that edited the query text. OnChange fires, the
// candidates are recomputed and the control opens like any other
// non-navigation key.
func (in *Input[T]) Type(q string) {
	if in.inert() {
		return
	}
	if in.opts.OnChange != nil {
		in.opts.OnChange(q)
	}
	in.SetQuery(q)
	in.Press(KeyOther)
}

// SetReadOnly toggles read-only mode. Read-only controls ignore keys and focus.
func (in *Input[T]) SetReadOnly(v bool) {
	in.readOnly = v
	if v {
		in.open = false
	}
}

// SetDisabled toggles disabled mode. Disabled controls ignore keys and focus.
func (in *Input[T]) SetDisabled(v bool) {
	in.disabled = v
	if v {
		in.open = false
	}
}

func (in *Input[T]) inert() bool { return in.readOnly || in.disabled }

// Focus opens the dropdown when there is something to show.
func (in *Input[T]) Focus() {
	if in.inert() || len(in.visible) == 0 {
		return
	}
	in.open = true
}

// Blur closes the dropdown.
func (in *Input[T]) Blur() { in.open = false }

// PointerDownOutside closes the dropdown after a pointer press landed
// outside the control's container.
func (in *Input[T]) PointerDownOutside() { in.open = false }

// Press applies a keyboard gesture and reports whether the key was consumed
// by the control (navigation, escape and commit keys).
func (in *Input[T]) Press(k Key) bool {
	if in.inert() {
		return false
	}

	n := len(in.visible)
	switch k {
	case KeyEscape:
		in.open = false
		return true
	case KeyDown:
		if n == 0 {
			return true
		}
		in.open = true
		in.highlight((in.highlighted + 1) % n)
		return true
	case KeyUp:
		if n == 0 {
			return true
		}
		in.open = true
		if in.highlighted <= 0 {
			in.highlight(n - 1)
		} else {
			in.highlight(in.highlighted - 1)
		}
		return true
	case KeyPageDown:
		if n == 0 {
			return true
		}
		in.open = true
		in.highlight(min(in.highlighted+in.opts.PageStep, n-1))
		return true
	case KeyPageUp:
		if n == 0 {
			return true
		}
		in.open = true
		in.highlight(max(in.highlighted-in.opts.PageStep, 0))
		return true
	case KeyEnter:
		if !in.open {
			return false
		}
		in.open = false
		in.commit(in.highlighted)
		return true
	}

	if !in.open && n > 0 {
		in.open = true
	}
	return false
}

// Click commits the i-th visible candidate and closes the dropdown.
func (in *Input[T]) Click(i int) {
	if in.inert() {
		return
	}
	in.open = false
	in.commit(i)
}

// Hover moves the highlight to the i-th visible candidate.
func (in *Input[T]) Hover(i int) {
	if in.inert() || i < 0 || i >= len(in.visible) {
		return
	}
	in.highlight(i)
}

func (in *Input[T]) commit(i int) {
	if i < 0 || i >= len(in.visible) {
		return
	}
	if in.opts.OnCommit != nil {
		in.opts.OnCommit(in.visible[i])
	}
}

func (in *Input[T]) highlight(i int) {
	in.highlighted = i
	in.scrollIntoView()
}

// scrollIntoView moves the viewport the minimum distance needed to show the
// highlighted row.
func (in *Input[T]) scrollIntoView() {
	if in.highlighted < 0 {
		in.offset = 0
		return
	}
	rows := in.opts.ViewportRows
	switch {
	case in.highlighted < in.offset:
		in.offset = in.highlighted
	case in.highlighted >= in.offset+rows:
		in.offset = in.highlighted - rows + 1
	}
}

func (in *Input[T]) recompute() {
	keep := in.opts.Filter(in.query)
	visible := make([]T, 0, min(len(in.data), in.opts.MaxVisible))
	for _, rec := range in.data {
		if len(visible) == in.opts.MaxVisible {
			break
		}
		if keep(rec) {
			visible = append(visible, rec)
		}
	}
	in.visible = visible

	in.offset = 0
	if in.query != "" && len(visible) > 0 {
		in.highlight(0)
	} else {
		in.highlighted = -1
	}
	if len(visible) == 0 {
		in.open = false
	}
}

// Query returns the current query text.
func (in *Input[T]) Query() string { return in.query }

// Open reports whether the dropdown is open.
func (in *Input[T]) Open() bool { return in.open }

// Highlighted returns the highlighted index, -1 when nothing is highlighted.
func (in *Input[T]) Highlighted() int { return in.highlighted }

// Offset returns the first visible row of the dropdown viewport.
func (in *Input[T]) Offset() int { return in.offset }

// Visible returns a copy of the filtered candidates.
func (in *Input[T]) Visible() []T { return append([]T(nil), in.visible...) }

// Window returns the candidates inside the dropdown viewport together with
// the index of the first one.
func (in *Input[T]) Window() ([]T, int) {
	end := min(in.offset+in.opts.ViewportRows, len(in.visible))
	if in.offset >= end {
		return nil, in.offset
	}
	return in.visible[in.offset:end], in.offset
}

// Current returns the highlighted candidate if there is one.
func (in *Input[T]) Current() (T, bool) {
	var zero T
	if in.highlighted < 0 || in.highlighted >= len(in.visible) {
		return zero, false
	}
	return in.visible[in.highlighted], true
}

// Key returns the configured key for a record.
func (in *Input[T]) Key(rec T) string { return in.opts.ItemKey(rec) }

// ViewportRows returns the number of candidate rows the dropdown shows.
func (in *Input[T]) ViewportRows() int { return in.opts.ViewportRows }

// ReadOnly reports whether the control is read-only.
func (in *Input[T]) ReadOnly() bool { return in.readOnly }

// Disabled reports whether the control is disabled.
func (in *Input[T]) Disabled() bool { return in.disabled }

// Snapshot returns a copy of the current state.
func (in *Input[T]) Snapshot() Snapshot[T] {
	return Snapshot[T]{
		Query:       in.query,
		Open:        in.open,
		Highlighted: in.highlighted,
		Visible:     in.Visible(),
		Offset:      in.offset,
	}
}
