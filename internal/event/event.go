// Package event implements the publish/subscribe dispatcher that all
// storefront components communicate through. Event names form a closed set
// and every event kind carries a dedicated payload type, so subscribers
// dispatch on concrete types instead of duck-typed maps.
package event

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-challenge/internal/domain/product"
)

// Name identifies an event kind. The set of names is fixed at compile time.
type Name string

// UI- and model-originated events.
const (
	CatalogChanged      Name = "catalog:changed"
	ProductSelect       Name = "product:select"
	ProductSelected     Name = "product:selected"
	ProductAdd          Name = "product:add"
	ProductRemove       Name = "product:remove"
	BasketChanged       Name = "basket:changed"
	BasketOpen          Name = "basket:open"
	OrderStart          Name = "order:start"
	OrderPaymentChange  Name = "order.payment:change"
	OrderAddressChange  Name = "order.address:change"
	OrderSubmit         Name = "order:submit"
	ContactsEmailChange Name = "contacts.email:change"
	ContactsPhoneChange Name = "contacts.phone:change"
	ContactsSubmit      Name = "contacts:submit"
	OrderSuccess        Name = "order:success"
	BuyerChanged        Name = "buyer:changed"
	ModalClose          Name = "modal:close"
	Error               Name = "error"
)

// SplitFieldChange parses names of the form "<scope>.<field>:change".
// It reports ok == false for every other shape.
func (n Name) SplitFieldChange() (scope, field string, ok bool) {
	s, rest, found := strings.Cut(string(n), ".")
	if !found {
		return "", "", false
	}
	f, found := strings.CutSuffix(rest, ":change")
	if !found || s == "" || f == "" {
		return "", "", false
	}
	return s, f, true
}

// Data is the payload of an emission. The interface is sealed: only the
// types below implement it, one per event kind.
type Data interface {
	eventData()
}

// Emission wraps a payload with its literal event name. Wildcard
// subscribers receive emissions; everyone else receives the payload only.
type Emission struct {
	Name Name
	Data Data
}

// CatalogChangedData accompanies CatalogChanged with the new product list.
type CatalogChangedData struct {
	Items []product.Product
}

// ProductSelectData carries the id of a product clicked in the gallery.
type ProductSelectData struct {
	ID string
}

// ProductSelectedData carries the resolved product chosen for preview.
type ProductSelectedData struct {
	Item product.Product
}

// ProductAddData requests that a product be added to the basket.
type ProductAddData struct {
	ID string
}

// ProductRemoveData requests that a product be removed from the basket.
type ProductRemoveData struct {
	ID string
}

// BasketChangedData is the basket snapshot published after every mutation.
type BasketChangedData struct {
	Items []product.Product
	Total decimal.Decimal
	Count int
}

// BasketOpenData accompanies BasketOpen.
type BasketOpenData struct{}

// OrderStartData accompanies OrderStart.
type OrderStartData struct{}

// OrderPaymentChangeData carries an edit of the payment method field.
type OrderPaymentChangeData struct {
	Payment string
}

// OrderAddressChangeData carries an edit of the address field.
type OrderAddressChangeData struct {
	Address string
}

// OrderSubmitData carries the order form values at submit time.
type OrderSubmitData struct {
	Payment string
	Address string
}

// ContactsEmailChangeData carries an edit of the email field.
type ContactsEmailChangeData struct {
	Email string
}

// ContactsPhoneChangeData carries an edit of the phone field.
type ContactsPhoneChangeData struct {
	Phone string
}

// ContactsSubmitData carries the contact form values at submit time.
type ContactsSubmitData struct {
	Email string
	Phone string
}

// OrderSuccessData accompanies OrderSuccess when the confirmation closes.
type OrderSuccessData struct{}

// BuyerChangedData is published after any buyer field mutation or clear.
type BuyerChangedData struct {
	Payment string
	Address string
	Phone   string
	Email   string
}

// ModalCloseData accompanies ModalClose (close button, escape, overlay).
type ModalCloseData struct{}

// ErrorData carries a human-readable failure message for the active screen.
type ErrorData struct {
	Message string
}

func (CatalogChangedData) eventData()      {}
func (ProductSelectData) eventData()       {}
func (ProductSelectedData) eventData()     {}
func (ProductAddData) eventData()          {}
func (ProductRemoveData) eventData()       {}
func (BasketChangedData) eventData()       {}
func (BasketOpenData) eventData()          {}
func (OrderStartData) eventData()          {}
func (OrderPaymentChangeData) eventData()  {}
func (OrderAddressChangeData) eventData()  {}
func (OrderSubmitData) eventData()         {}
func (ContactsEmailChangeData) eventData() {}
func (ContactsPhoneChangeData) eventData() {}
func (ContactsSubmitData) eventData()      {}
func (OrderSuccessData) eventData()        {}
func (BuyerChangedData) eventData()        {}
func (ModalCloseData) eventData()          {}
func (ErrorData) eventData()               {}
