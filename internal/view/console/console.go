// Package console renders storefront screens as plain text. It exists so
// the binary is usable end-to-end; a browser front end would implement
// the same Renderer contract.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/xenking/storefront-challenge/internal/checkout"
	"github.com/xenking/storefront-challenge/internal/domain/product"
)

// View writes each screen to w. Image paths are prefixed with the CDN
// base here, not in the core.
type View struct {
	w       io.Writer
	cdnBase string
}

var _ checkout.Renderer = (*View)(nil)

// New creates a console view writing to w.
func New(w io.Writer, cdnBase string) *View {
	return &View{w: w, cdnBase: cdnBase}
}

func (v *View) RenderCatalog(data checkout.CatalogData) {
	fmt.Fprintf(v.w, "\n=== Catalog (%d items) ===\n", len(data.Items))
	for _, p := range data.Items {
		fmt.Fprintf(v.w, "  [%s] %s - %s (%s)\n", shortID(p.ID), p.Title, priceLabel(p), p.Category)
	}
}

func (v *View) RenderPreview(data checkout.PreviewData) {
	p := data.Item
	fmt.Fprintf(v.w, "\n--- %s ---\n", p.Title)
	fmt.Fprintf(v.w, "%s\n", p.Description)
	fmt.Fprintf(v.w, "image: %s%s\n", v.cdnBase, p.Image)
	fmt.Fprintf(v.w, "price: %s\n", priceLabel(p))
	switch {
	case data.InBasket:
		fmt.Fprintln(v.w, "[remove from basket]")
	case data.CanBuy:
		fmt.Fprintln(v.w, "[add to basket]")
	default:
		fmt.Fprintln(v.w, "(not available for purchase)")
	}
}

func (v *View) RenderBasket(data checkout.BasketData) {
	fmt.Fprintf(v.w, "\n--- Basket (%d) ---\n", len(data.Items))
	for i, p := range data.Items {
		fmt.Fprintf(v.w, "  %d. %s - %s\n", i+1, p.Title, priceLabel(p))
	}
	fmt.Fprintf(v.w, "total: %s\n", data.Total)
	if data.CanCheckout {
		fmt.Fprintln(v.w, "[checkout]")
	}
}

func (v *View) RenderOrderForm(data checkout.OrderFormData) {
	fmt.Fprintln(v.w, "\n--- Order: payment & address ---")
	fmt.Fprintf(v.w, "payment: %s\n", orEmpty(data.Payment))
	fmt.Fprintf(v.w, "address: %s\n", orEmpty(data.Address))
	printErrors(v.w, data.Errors)
	if data.Valid {
		fmt.Fprintln(v.w, "[continue]")
	}
}

func (v *View) RenderContacts(data checkout.ContactsData) {
	fmt.Fprintln(v.w, "\n--- Order: contacts ---")
	fmt.Fprintf(v.w, "email: %s\n", orEmpty(data.Email))
	fmt.Fprintf(v.w, "phone: %s\n", orEmpty(data.Phone))
	printErrors(v.w, data.Errors)
	if data.Valid {
		fmt.Fprintln(v.w, "[pay]")
	}
}

func (v *View) RenderSuccess(data checkout.SuccessData) {
	fmt.Fprintln(v.w, "\n=== Order placed ===")
	fmt.Fprintf(v.w, "charged: %s\n", data.Total)
}

func (v *View) RenderError(message string) {
	fmt.Fprintf(v.w, "\n! %s\n", message)
}

func (v *View) SetBasketCounter(count int) {
	fmt.Fprintf(v.w, "(basket: %d)\n", count)
}

func (v *View) CloseModal() {
	fmt.Fprintln(v.w, "(closed)")
}

func printErrors(w io.Writer, errs []string) {
	for _, e := range errs {
		fmt.Fprintf(w, "  ! %s\n", e)
	}
}

func priceLabel(p product.Product) string {
	if !p.Price.Valid {
		return "priceless"
	}
	return p.Price.Decimal.String()
}

func orEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(empty)"
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
