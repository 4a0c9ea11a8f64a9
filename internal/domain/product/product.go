package product

import (
	"github.com/shopspring/decimal"
)

// Product represents a catalog item. It is immutable once loaded from the
// catalog endpoint.
type Product struct {
	ID          string
	Title       string
	Description string
	Image       string
	Category    string

	// Price is absent (Valid == false) for items that are not for sale.
	// Such items may be browsed but never added to a basket.
	Price decimal.NullDecimal
}

// ForSale reports whether the product can be purchased.
func (p Product) ForSale() bool {
	return p.Price.Valid
}

// PriceOrZero returns the price, or zero for items without one. Basket
// totals sum this, so absent prices contribute nothing.
func (p Product) PriceOrZero() decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}
