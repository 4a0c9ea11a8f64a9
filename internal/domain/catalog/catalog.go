// Package catalog holds the product list loaded from the storefront API.
package catalog

import (
	"github.com/xenking/storefront-challenge/internal/domain/product"
	"github.com/xenking/storefront-challenge/internal/event"
)

// Model stores the catalog and the product currently opened for preview.
// The catalog is replaced wholesale on every load; nothing mutates single
// entries.
type Model struct {
	bus     *event.Bus
	items   []product.Product
	preview *product.Product
}

// New creates an empty catalog publishing changes on bus.
func New(bus *event.Bus) *Model {
	return &Model{bus: bus}
}

// ReplaceAll stores an independent copy of items and publishes
// event.CatalogChanged with a snapshot.
func (m *Model) ReplaceAll(items []product.Product) {
	m.items = make([]product.Product, len(items))
	copy(m.items, items)
	m.bus.Publish(event.CatalogChanged, event.CatalogChangedData{Items: m.Items()})
}

// Items returns a defensive copy of the product list.
func (m *Model) Items() []product.Product {
	out := make([]product.Product, len(m.items))
	copy(out, m.items)
	return out
}

// Lookup finds a product by id.
func (m *Model) Lookup(id string) (product.Product, bool) {
	for _, p := range m.items {
		if p.ID == id {
			return p, true
		}
	}
	return product.Product{}, false
}

// SelectForPreview marks p as the previewed product and publishes
// event.ProductSelected.
func (m *Model) SelectForPreview(p product.Product) {
	cp := p
	m.preview = &cp
	m.bus.Publish(event.ProductSelected, event.ProductSelectedData{Item: p})
}

// CurrentPreview returns the previewed product, if any.
func (m *Model) CurrentPreview() (product.Product, bool) {
	if m.preview == nil {
		return product.Product{}, false
	}
	return *m.preview, true
}

// ClearPreview drops the preview selection. Called when the modal closes.
func (m *Model) ClearPreview() {
	m.preview = nil
}
