package salesorder

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortField names a sortable detail column.
type SortField string

const (
	SortLineKey         SortField = "line_key"
	SortLineSeq         SortField = "line_seq"
	SortItemCode        SortField = "item_code"
	SortDescription     SortField = "description"
	SortBinLocation     SortField = "bin_location"
	SortQuantityOrdered SortField = "quantity_ordered"
	SortUnitOfMeasure   SortField = "unit_of_measure"
	SortStickerQty      SortField = "sticker_qty"
	SortSelected        SortField = "selected"
)

// SortFields lists every sortable field in display order.
var SortFields = []SortField{
	SortBinLocation,
	SortLineSeq,
	SortItemCode,
	SortDescription,
	SortQuantityOrdered,
	SortUnitOfMeasure,
	SortStickerQty,
	SortSelected,
	SortLineKey,
}

// IsValid reports whether f is a known field.
func (f SortField) IsValid() bool { return slices.Contains(SortFields, f) }

// Next returns the field after f in SortFields, wrapping around.
func (f SortField) Next() SortField {
	i := slices.Index(SortFields, f)
	return SortFields[(i+1)%len(SortFields)]
}

// ParseSortField parses a field name.
func ParseSortField(s string) (SortField, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("unknown sort field %q", s)
	}
	return f, nil
}

// SortSpec is the active ordering of the detail collection.
type SortSpec struct {
	Field     SortField `json:"field" yaml:"field"`
	Ascending bool      `json:"ascending" yaml:"ascending"`
}

// DefaultSort orders lines by warehouse bin so stickers print in pick order.
var DefaultSort = SortSpec{Field: SortBinLocation, Ascending: true}

func (s SortSpec) String() string {
	dir := "asc"
	if !s.Ascending {
		dir = "desc"
	}
	return string(s.Field) + " " + dir
}

func compareField(f SortField, a, b DetailLine) int {
	switch f {
	case SortLineKey:
		return strings.Compare(a.LineKey, b.LineKey)
	case SortLineSeq:
		return cmp.Compare(a.LineSeq, b.LineSeq)
	case SortItemCode:
		return strings.Compare(strings.ToUpper(a.ItemCode), strings.ToUpper(b.ItemCode))
	case SortDescription:
		return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
	case SortBinLocation:
		return strings.Compare(strings.ToUpper(a.BinLocation), strings.ToUpper(b.BinLocation))
	case SortQuantityOrdered:
		return cmp.Compare(a.QuantityOrdered, b.QuantityOrdered)
	case SortUnitOfMeasure:
		return strings.Compare(strings.ToUpper(a.UnitOfMeasure), strings.ToUpper(b.UnitOfMeasure))
	case SortStickerQty:
		return cmp.Compare(a.StickerQty, b.StickerQty)
	case SortSelected:
		return cmp.Compare(boolRank(a.Selected), boolRank(b.Selected))
	default:
		return 0
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Compare orders two lines by s, breaking ties by LineKey ascending
// regardless of direction.
func (s SortSpec) Compare(a, b DetailLine) int {
	c := compareField(s.Field, a, b)
	if !s.Ascending {
		c = -c
	}
	if c != 0 {
		return c
	}
	return strings.Compare(a.LineKey, b.LineKey)
}

// Sort orders lines in place.
func (s SortSpec) Sort(lines []DetailLine) {
	slices.SortStableFunc(lines, s.Compare)
}

// IsSorted reports whether lines are ordered by s.
func (s SortSpec) IsSorted(lines []DetailLine) bool {
	return slices.IsSortedFunc(lines, s.Compare)
}
