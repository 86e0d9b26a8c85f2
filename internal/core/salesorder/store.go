package salesorder

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrOrderNotFound   = errors.New("sales order not found")
	ErrCatalogNotFound = errors.New("customer catalog not found")
)

// OrderSummary is the picker row for one order.
type OrderSummary struct {
	OrderNumber    string `json:"order_number"`
	CustomerNumber string `json:"customer_number"`
	CustomerName   string `json:"customer_name"`
	OrderDate      string `json:"order_date,omitempty"`
	Lines          int    `json:"lines"`
}

// Label is the text shown for the order in pickers and listings.
func (s OrderSummary) Label() string {
	return fmt.Sprintf("%s  %s  %s", s.OrderNumber, s.CustomerNumber, s.CustomerName)
}

// OrderSource reads sales orders.
type OrderSource interface {
	// ListOrders returns every order sorted by order number.
	ListOrders(ctx context.Context) ([]OrderSummary, error)
	// LoadOrder returns the header and lines of one order.
	// Returns ErrOrderNotFound if not found.
	LoadOrder(ctx context.Context, orderNumber string) (Header, []DetailLine, error)
}

// CatalogSource reads customer item catalogs.
type CatalogSource interface {
	// LoadCatalog returns the catalog of one customer.
	// Returns ErrCatalogNotFound if not found.
	LoadCatalog(ctx context.Context, customerNumber string) (Catalog, error)
}

// StickerRequest asks for Qty stickers of one line.
type StickerRequest struct {
	LineKey     string `json:"line_key"`
	ItemCode    string `json:"item_code"`
	Description string `json:"description,omitempty"`
	UPC         string `json:"upc,omitempty"`
	CustomerSKU string `json:"customer_sku,omitempty"`
	BinLocation string `json:"bin_location,omitempty"`
	Qty         int    `json:"qty"`
}

// Batch is one generation request for the selected lines of an order.
type Batch struct {
	OrderNumber    string           `json:"order_number"`
	CustomerNumber string           `json:"customer_number"`
	CreatedAt      time.Time        `json:"created_at"`
	Requests       []StickerRequest `json:"requests"`
}

// Total sums the requested sticker quantity.
func (b Batch) Total() int {
	n := 0
	for _, r := range b.Requests {
		n += r.Qty
	}
	return n
}

// StickerSink records sticker batches.
type StickerSink interface {
	// Generate records the batch and returns the number of stickers produced.
	Generate(ctx context.Context, batch Batch) (int, error)
}

// NewBatch builds a batch from the given lines. Lines with a zero sticker
// quantity are skipped.
func NewBatch(header Header, lines []DetailLine, now time.Time) Batch {
	b := Batch{
		OrderNumber:    header.OrderNumber,
		CustomerNumber: header.CustomerNumber,
		CreatedAt:      now,
	}
	for _, l := range lines {
		if l.StickerQty <= 0 {
			continue
		}
		req := StickerRequest{
			LineKey:     l.LineKey,
			ItemCode:    l.ItemCode,
			Description: l.Description,
			BinLocation: l.BinLocation,
			Qty:         l.StickerQty,
		}
		if l.Item != nil {
			req.UPC = l.Item.UPC
			req.CustomerSKU = l.Item.CustomerSKU
			if req.Description == "" {
				req.Description = l.Item.Description
			}
		}
		b.Requests = append(b.Requests, req)
	}
	return b
}
