// Package salesorder defines sales-order domain types and the Reconciler that
// merges order lines with a customer item catalog.
package salesorder

import "math"

// Status is the lifecycle of an asynchronous request.
// ENUM(idle, pending, fulfilled, rejected).
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

// ItemType classifies an order line.
type ItemType string

const (
	ItemTypeInventory ItemType = "1" // physical stock item
	ItemTypeSpecial   ItemType = "2"
	ItemTypeCharge    ItemType = "3"
	ItemTypeMisc      ItemType = "4"
)

// IsPhysical reports whether lines of this type ship as stock.
func (t ItemType) IsPhysical() bool { return t == ItemTypeInventory }

// Header is the order-level record.
type Header struct {
	OrderNumber    string `json:"order_number" yaml:"order_number"`
	CustomerNumber string `json:"customer_number" yaml:"customer_number"`
	CustomerName   string `json:"customer_name" yaml:"customer_name"`
	OrderDate      string `json:"order_date,omitempty" yaml:"order_date"`
	ShipVia        string `json:"ship_via,omitempty" yaml:"ship_via"`
	PurchaseOrder  string `json:"purchase_order,omitempty" yaml:"purchase_order"`
}

// CatalogItem is a customer catalog entry for one item code.
type CatalogItem struct {
	ItemCode    string  `json:"item_code" yaml:"item_code"`
	Description string  `json:"description,omitempty" yaml:"description"`
	UPC         string  `json:"upc,omitempty" yaml:"upc"`
	CustomerSKU string  `json:"customer_sku,omitempty" yaml:"customer_sku"`
	CaseQty     float64 `json:"case_qty,omitempty" yaml:"case_qty"` // units covered by one sticker
}

// Catalog indexes catalog items by item code.
type Catalog map[string]CatalogItem

// DetailLine is one order line plus the derived sticker state.
type DetailLine struct {
	LineKey         string       `json:"line_key" yaml:"line_key"`
	LineSeq         int          `json:"line_seq" yaml:"line_seq"`
	ItemType        ItemType     `json:"item_type" yaml:"item_type"`
	ItemCode        string       `json:"item_code,omitempty" yaml:"item_code"`
	Description     string       `json:"description,omitempty" yaml:"description"`
	UnitOfMeasure   string       `json:"unit_of_measure,omitempty" yaml:"unit_of_measure"`
	UOMConvFactor   float64      `json:"uom_conv_factor,omitempty" yaml:"uom_conv_factor"`
	QuantityOrdered float64      `json:"quantity_ordered" yaml:"quantity_ordered"`
	BinLocation     string       `json:"bin_location,omitempty" yaml:"bin_location"`
	Selected        bool         `json:"selected" yaml:"-"`
	StickerQty      int          `json:"sticker_qty" yaml:"-"`
	Item            *CatalogItem `json:"item,omitempty" yaml:"-"`
}

// Resolved reports whether a catalog item has been merged into the line.
func (l DetailLine) Resolved() bool { return l.Item != nil }

// Eligible reports whether bulk selection may touch the line.
func (l DetailLine) Eligible() bool { return l.ItemType.IsPhysical() && l.Resolved() }

// Missing reports whether the line references a catalog item that has not
// resolved.
func (l DetailLine) Missing() bool {
	return l.ItemType.IsPhysical() && l.ItemCode != "" && !l.Resolved()
}

// Units returns the ordered quantity in stocking units.
func (l DetailLine) Units() float64 {
	factor := l.UOMConvFactor
	if factor <= 0 {
		factor = 1
	}
	return l.QuantityOrdered * factor
}

// StickerQtyFor computes the sticker count for a line from its catalog item
// and the extra-stock buffer. Lines without a catalog item get none.
func StickerQtyFor(l DetailLine, extra int) int {
	if l.Item == nil {
		return 0
	}
	caseQty := l.Item.CaseQty
	if caseQty <= 0 {
		caseQty = 1
	}
	units := l.Units()
	if units <= 0 {
		return max(extra, 0)
	}
	// epsilon absorbs float noise from fractional conversion factors
	return int(math.Ceil(units/caseQty-1e-9)) + max(extra, 0)
}
