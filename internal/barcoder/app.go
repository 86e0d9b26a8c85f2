// Package barcoder wires the sales-order reconciler to its data sources and
// sticker sink.
package barcoder

import (
	"github.com/hay-kot/barcoder/internal/core/config"
	"github.com/hay-kot/barcoder/internal/core/logging"
	"github.com/hay-kot/barcoder/internal/core/salesorder"
	"github.com/hay-kot/barcoder/internal/data/jsonfile"
	"github.com/hay-kot/barcoder/internal/data/yamlfile"
)

// App is the central entry point for all barcoder operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Orders *OrderService
	Config *config.Config
}

// NewApp constructs an App from explicit dependencies.
func NewApp(orders *OrderService, cfg *config.Config) *App {
	return &App{Orders: orders, Config: cfg}
}

// NewFileApp builds an App backed by the YAML order and catalog files and
// the JSON-lines sticker file named by cfg.
func NewFileApp(cfg *config.Config) *App {
	orders := NewOrderService(
		yamlfile.NewOrderStore(cfg.OrdersDir(), logging.Component("orderstore")),
		yamlfile.NewCatalogStore(cfg.CustomersDir()),
		jsonfile.NewStickerStore(cfg.StickersFile()),
		logging.Component("orders"),
		salesorder.WithExtraStickers(cfg.ExtraStickers()),
		salesorder.WithSort(cfg.SortSpec()),
	)
	return NewApp(orders, cfg)
}
