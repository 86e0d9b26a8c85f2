package barcoder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/barcoder/internal/core/logging"
	"github.com/hay-kot/barcoder/internal/core/salesorder"
	"github.com/hay-kot/barcoder/internal/core/selection"
)

// ErrNoOrder is returned when an operation needs a loaded order.
var ErrNoOrder = errors.New("no order loaded")

// State is a point-in-time copy of the reconciler read surface.
type State struct {
	OrderNumber   string
	Header        *salesorder.Header
	Detail        []salesorder.DetailLine
	Loaded        bool
	LoadStatus    salesorder.Status
	SaveStatus    salesorder.Status
	ExtraStickers int
	Sort          salesorder.SortSpec
	GeneratedQty  int
	Generated     bool
	MissingItems  int
	SelectedCount int
	TotalStickers int
}

// OrderService owns one sales order Reconciler and runs the order, catalog
// and sticker collaborators around it. Fetch methods perform I/O only and
// return the resulting event; Apply folds events in the order the caller
// delivers them. LoadOrder, LoadCatalog and Generate combine both for
// synchronous callers.
type OrderService struct {
	orders   salesorder.OrderSource
	catalogs salesorder.CatalogSource
	stickers salesorder.StickerSink
	log      zerolog.Logger
	now      func() time.Time

	mu  sync.Mutex
	rec *salesorder.Reconciler
}

// NewOrderService creates an order service. opts configure the reconciler.
func NewOrderService(
	orders salesorder.OrderSource,
	catalogs salesorder.CatalogSource,
	stickers salesorder.StickerSink,
	log zerolog.Logger,
	opts ...salesorder.Option,
) *OrderService {
	opts = append([]salesorder.Option{salesorder.WithLogger(log)}, opts...)
	return &OrderService{
		orders:   orders,
		catalogs: catalogs,
		stickers: stickers,
		log:      log,
		now:      time.Now,
		rec:      salesorder.NewReconciler(opts...),
	}
}

// Apply folds one event into the reconciler.
func (s *OrderService) Apply(ev salesorder.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.Apply(ev)
}

// State returns a copy of the current reconciler state.
func (s *OrderService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	qty, generated := s.rec.LastGeneratedQty()
	return State{
		OrderNumber:   s.rec.OrderNumber(),
		Header:        s.rec.Header(),
		Detail:        s.rec.Detail(),
		Loaded:        s.rec.Loaded(),
		LoadStatus:    s.rec.LoadStatus(),
		SaveStatus:    s.rec.SaveStatus(),
		ExtraStickers: s.rec.ExtraStickers(),
		Sort:          s.rec.Sort(),
		GeneratedQty:  qty,
		Generated:     generated,
		MissingItems:  s.rec.MissingItems(),
		SelectedCount: len(s.rec.SelectedLines()),
		TotalStickers: s.rec.TotalStickers(),
	}
}

// OrderFields returns the fields order queries match against.
func OrderFields(o salesorder.OrderSummary) []string {
	return []string{o.OrderNumber, o.CustomerNumber, o.CustomerName}
}

// ListOrders returns the orders matching query. An empty query returns all.
func (s *OrderService) ListOrders(ctx context.Context, query string, match selection.Match) ([]salesorder.OrderSummary, error) {
	all, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if query == "" {
		return all, nil
	}

	filter := selection.ByMatch(match, OrderFields)

	keep := filter(query)
	out := make([]salesorder.OrderSummary, 0, len(all))
	for _, o := range all {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

// FetchOrder reads one order and returns OrderLoaded or OrderLoadFailed.
func (s *OrderService) FetchOrder(ctx context.Context, orderNumber string) salesorder.Event {
	orderNumber = strings.TrimSpace(orderNumber)
	ctx = logging.WithOrderNumber(ctx, orderNumber)

	header, lines, err := s.orders.LoadOrder(ctx, orderNumber)
	if err != nil {
		s.log.Debug().Ctx(ctx).Err(err).Msg("fetch order failed")
		return salesorder.OrderLoadFailed{OrderNumber: orderNumber, Err: err}
	}

	s.log.Debug().Ctx(ctx).Int("lines", len(lines)).Msg("fetched order")
	return salesorder.OrderLoaded{Header: header, Detail: lines}
}

// FetchCatalog reads a customer catalog and returns CatalogLoaded tagged
// with orderNumber. The second result is nil on success.
func (s *OrderService) FetchCatalog(ctx context.Context, orderNumber, customerNumber string) (salesorder.Event, error) {
	ctx = logging.WithCustomerNumber(logging.WithOrderNumber(ctx, orderNumber), customerNumber)

	items, err := s.catalogs.LoadCatalog(ctx, customerNumber)
	if err != nil {
		s.log.Warn().Ctx(ctx).Err(err).Msg("catalog load failed")
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	s.log.Debug().Ctx(ctx).Int("items", len(items)).Msg("fetched catalog")
	return salesorder.CatalogLoaded{OrderNumber: orderNumber, Items: items}, nil
}

// PendingBatch builds the sticker batch for the selected lines. It returns
// ErrNoOrder when nothing is loaded.
func (s *OrderService) PendingBatch() (salesorder.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	header := s.rec.Header()
	if header == nil || !s.rec.Loaded() {
		return salesorder.Batch{}, ErrNoOrder
	}
	return salesorder.NewBatch(*header, s.rec.SelectedLines(), s.now()), nil
}

// SubmitBatch sends the batch to the sticker sink and returns
// GenerateSucceeded or GenerateFailed.
func (s *OrderService) SubmitBatch(ctx context.Context, batch salesorder.Batch) salesorder.Event {
	ctx = logging.WithCustomerNumber(logging.WithOrderNumber(ctx, batch.OrderNumber), batch.CustomerNumber)

	n, err := s.stickers.Generate(ctx, batch)
	if err != nil {
		return salesorder.GenerateFailed{Err: err}
	}

	s.log.Info().Ctx(ctx).Int("stickers", n).Int("lines", len(batch.Requests)).Msg("stickers generated")
	return salesorder.GenerateSucceeded{Count: n}
}

// LoadOrder loads an order and its customer catalog. A missing catalog is
// not an error; the lines stay unresolved.
func (s *OrderService) LoadOrder(ctx context.Context, orderNumber string) error {
	orderNumber = strings.TrimSpace(orderNumber)
	s.Apply(salesorder.OrderLoadStarted{OrderNumber: orderNumber})

	ev := s.FetchOrder(ctx, orderNumber)
	s.Apply(ev)
	if failed, ok := ev.(salesorder.OrderLoadFailed); ok {
		return failed.Err
	}

	return s.LoadCatalog(ctx)
}

// LoadCatalog loads the catalog of the current order's customer.
func (s *OrderService) LoadCatalog(ctx context.Context) error {
	st := s.State()
	if st.Header == nil {
		return ErrNoOrder
	}

	ev, err := s.FetchCatalog(ctx, st.OrderNumber, st.Header.CustomerNumber)
	if err != nil {
		if errors.Is(err, salesorder.ErrCatalogNotFound) {
			return nil
		}
		return err
	}

	s.Apply(ev)
	return nil
}

// Generate records stickers for the selected lines and returns the count.
func (s *OrderService) Generate(ctx context.Context) (int, error) {
	batch, err := s.PendingBatch()
	if err != nil {
		return 0, err
	}

	s.Apply(salesorder.GenerateStarted{})
	ev := s.SubmitBatch(ctx, batch)
	s.Apply(ev)

	switch e := ev.(type) {
	case salesorder.GenerateSucceeded:
		return e.Count, nil
	case salesorder.GenerateFailed:
		return 0, fmt.Errorf("generate stickers: %w", e.Err)
	}
	return 0, nil
}
