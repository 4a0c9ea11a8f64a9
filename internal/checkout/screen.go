package checkout

// Screen identifies which modal surface is currently shown. ScreenNone is
// the resting state: the catalog is visible and no modal is open.
type Screen uint8

// Screen kinds, in checkout order.
const (
	ScreenNone Screen = iota
	ScreenPreview
	ScreenBasket
	ScreenOrderForm
	ScreenContacts
	ScreenSuccess
)

// String representation (for logging).
func (s Screen) String() string {
	switch s {
	case ScreenNone:
		return "none"
	case ScreenPreview:
		return "preview"
	case ScreenBasket:
		return "basket"
	case ScreenOrderForm:
		return "order-form"
	case ScreenContacts:
		return "contacts"
	case ScreenSuccess:
		return "success"
	}
	return "unknown"
}
