package selection

// Rect is a screen rectangle in cells.
type Rect struct {
	X, Y int
	W, H int
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Placement is the side of the anchor the panel is drawn on.
type Placement int

const (
	PlacementBottom Placement = iota
	PlacementTop
)

func (p Placement) String() string {
	if p == PlacementTop {
		return "top"
	}
	return "bottom"
}

// Position is where a dropdown panel should be drawn. ArrowX is the absolute
// column of the indicator pointing back at the anchor.
type Position struct {
	Placement Placement
	X, Y      int
	ArrowX    int
}

// Rect returns the panel rectangle for a content size.
func (p Position) Rect(w, h int) Rect { return Rect{X: p.X, Y: p.Y, W: w, H: h} }

// Positioner chooses where to draw a panel of size content.W x content.H
// next to anchor without leaving viewport.
type Positioner interface {
	Place(anchor, content, viewport Rect) Position
}

// PositionerFunc adapts a function to Positioner.
type PositionerFunc func(anchor, content, viewport Rect) Position

func (f PositionerFunc) Place(anchor, content, viewport Rect) Position {
	return f(anchor, content, viewport)
}

// AnchorPositioner places the panel below the anchor with right edges
// aligned, flips above the anchor when the panel would run off the bottom
// and there is more room above, and shifts horizontally to stay on screen.
type AnchorPositioner struct{}

func (AnchorPositioner) Place(anchor, content, viewport Rect) Position {
	pos := Position{Placement: PlacementBottom}

	below := viewport.Bottom() - anchor.Bottom()
	above := anchor.Y - viewport.Y
	if content.H > below && above > below {
		pos.Placement = PlacementTop
		pos.Y = max(anchor.Y-content.H, viewport.Y)
	} else {
		pos.Y = anchor.Bottom()
	}

	pos.X = anchor.Right() - content.W
	if pos.X+content.W > viewport.Right() {
		pos.X = viewport.Right() - content.W
	}
	if pos.X < viewport.X {
		pos.X = viewport.X
	}

	center := anchor.X + anchor.W/2
	lo, hi := pos.X, pos.X+max(content.W-1, 0)
	pos.ArrowX = min(max(center, lo), hi)

	return pos
}
