package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-challenge/internal/domain/product"
)

// Renderer is the view layer as the orchestrator sees it: one render
// operation per screen kind, each a pure function of its data. How a
// screen is built (markup, styling, CDN prefixes) is entirely the
// renderer's business.
type Renderer interface {
	RenderCatalog(data CatalogData)
	RenderPreview(data PreviewData)
	RenderBasket(data BasketData)
	RenderOrderForm(data OrderFormData)
	RenderContacts(data ContactsData)
	RenderSuccess(data SuccessData)
	RenderError(message string)

	// SetBasketCounter updates the header basket badge.
	SetBasketCounter(count int)
	// CloseModal hides whatever modal is currently shown.
	CloseModal()
}

// CatalogData feeds the browsing gallery.
type CatalogData struct {
	Items []product.Product
}

// PreviewData feeds the single-product modal.
type PreviewData struct {
	Item product.Product
	// InBasket selects the "remove from basket" affordance.
	InBasket bool
	// CanBuy is false for products without a price; the renderer must
	// show a non-purchasable affordance.
	CanBuy bool
}

// BasketData feeds the basket modal.
type BasketData struct {
	Items       []product.Product
	Total       decimal.Decimal
	CanCheckout bool
}

// OrderFormData feeds the payment/address form.
type OrderFormData struct {
	Payment string
	Address string
	Valid   bool
	Errors  []string
}

// ContactsData feeds the email/phone form.
type ContactsData struct {
	Email  string
	Phone  string
	Valid  bool
	Errors []string
}

// SuccessData feeds the order confirmation. Total is the server-returned
// amount, not the local basket sum.
type SuccessData struct {
	Total decimal.Decimal
}
