// Package app wires the storefront together. Construction order is
// fixed: event bus, then models, then orchestrator, then views -- nothing
// is shared as module-level state.
package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/xenking/storefront-challenge/internal/api"
	"github.com/xenking/storefront-challenge/internal/checkout"
	"github.com/xenking/storefront-challenge/internal/domain/basket"
	"github.com/xenking/storefront-challenge/internal/domain/buyer"
	"github.com/xenking/storefront-challenge/internal/domain/catalog"
	"github.com/xenking/storefront-challenge/internal/event"
)

// App owns one storefront session.
type App struct {
	Bus      *event.Bus
	Catalog  *catalog.Model
	Basket   *basket.Model
	Buyer    *buyer.Model
	Checkout *checkout.Orchestrator
}

// New creates a session talking to the API configured in cfg.
func New(ctx context.Context, lg *zap.Logger, cfg *Config, view checkout.Renderer) *App {
	client := api.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout)
	return NewWithClient(ctx, lg, client, view)
}

// NewWithClient creates a session over an explicit network client.
func NewWithClient(ctx context.Context, lg *zap.Logger, client api.Client, view checkout.Renderer) *App {
	bus := event.NewBus(lg.Named("bus"))

	cat := catalog.New(bus)
	bsk := basket.New(bus)
	byr := buyer.New(bus)

	orch := checkout.New(ctx, lg.Named("checkout"), bus, cat, bsk, byr, client, view)
	orch.Bind()

	return &App{
		Bus:      bus,
		Catalog:  cat,
		Basket:   bsk,
		Buyer:    byr,
		Checkout: orch,
	}
}

// Start loads the catalog. A failed load is surfaced as an error event
// and leaves the session usable; the catalog can be reloaded later.
func (a *App) Start(ctx context.Context) {
	a.Checkout.LoadCatalog(ctx)
}
