// Package basket holds the products a buyer intends to purchase. Each
// product occupies at most one line; there is no quantity concept.
package basket

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-challenge/internal/domain/product"
	"github.com/xenking/storefront-challenge/internal/event"
)

// Model is the session basket. It publishes event.BasketChanged with a
// fresh snapshot after every actual mutation; a Remove of an id that is
// not present publishes nothing.
type Model struct {
	bus   *event.Bus
	items []product.Product
}

// New creates an empty basket publishing changes on bus.
func New(bus *event.Bus) *Model {
	return &Model{bus: bus}
}

// Items returns a defensive copy of the basket lines in insertion order.
func (m *Model) Items() []product.Product {
	out := make([]product.Product, len(m.items))
	copy(out, m.items)
	return out
}

// Add appends p as a new line. Adding an id already in the basket is a
// no-op, not an error.
func (m *Model) Add(p product.Product) {
	if m.Has(p.ID) {
		return
	}
	m.items = append(m.items, p)
	m.publishChanged()
}

// Remove deletes the line with the given id, if present.
func (m *Model) Remove(id string) {
	for i, p := range m.items {
		if p.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			m.publishChanged()
			return
		}
	}
}

// Clear empties the basket.
func (m *Model) Clear() {
	if len(m.items) == 0 {
		return
	}
	m.items = nil
	m.publishChanged()
}

// Total sums the prices of all lines. Lines without a price contribute
// zero.
func (m *Model) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range m.items {
		total = total.Add(p.PriceOrZero())
	}
	return total
}

// Count returns the number of lines.
func (m *Model) Count() int {
	return len(m.items)
}

// Has reports whether a line with the given id exists.
func (m *Model) Has(id string) bool {
	for _, p := range m.items {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (m *Model) publishChanged() {
	m.bus.Publish(event.BasketChanged, event.BasketChangedData{
		Items: m.Items(),
		Total: m.Total(),
		Count: m.Count(),
	})
}
