// Package buyer holds the checkout form data and its validation rules.
// Validity is computed on demand; the stored fields are never partially
// rejected.
package buyer

import (
	"regexp"
	"strings"

	"github.com/xenking/storefront-challenge/internal/event"
)

// Payment is the selected payment method. Empty means "not chosen yet".
type Payment string

// Supported payment methods.
const (
	PaymentUnset Payment = ""
	PaymentCard  Payment = "card"
	PaymentCash  Payment = "cash"
)

// Field names buyer form fields in validation results.
type Field string

// Form fields.
const (
	FieldPayment Field = "payment"
	FieldAddress Field = "address"
	FieldPhone   Field = "phone"
	FieldEmail   Field = "email"
)

// Info is a snapshot of the buyer form values.
type Info struct {
	Payment Payment
	Address string
	Phone   string
	Email   string
}

// Model is the session buyer data. Setters mutate exactly one field and
// publish event.BuyerChanged; no validation happens inside them.
type Model struct {
	bus  *event.Bus
	info Info
}

// New creates a buyer model with all fields empty.
func New(bus *event.Bus) *Model {
	return &Model{bus: bus}
}

// SetPayment stores the payment method.
func (m *Model) SetPayment(p Payment) {
	m.info.Payment = p
	m.publishChanged()
}

// SetAddress stores the delivery address.
func (m *Model) SetAddress(address string) {
	m.info.Address = address
	m.publishChanged()
}

// SetPhone stores the phone number.
func (m *Model) SetPhone(phone string) {
	m.info.Phone = phone
	m.publishChanged()
}

// SetEmail stores the email address.
func (m *Model) SetEmail(email string) {
	m.info.Email = email
	m.publishChanged()
}

// Snapshot returns the current field values.
func (m *Model) Snapshot() Info {
	return m.info
}

// Clear resets every field to its zero value.
func (m *Model) Clear() {
	m.info = Info{}
	m.publishChanged()
}

// CheckValidity returns a message per invalid field. An empty map means
// the buyer data is fully valid.
func (m *Model) CheckValidity() map[Field]string {
	errs := make(map[Field]string)

	if m.info.Payment == PaymentUnset {
		errs[FieldPayment] = "select a payment method"
	}
	if strings.TrimSpace(m.info.Address) == "" {
		errs[FieldAddress] = "address is required"
	}
	if phone := strings.TrimSpace(m.info.Phone); phone == "" {
		errs[FieldPhone] = "phone number is required"
	} else if !validPhone(phone) {
		errs[FieldPhone] = "phone number looks invalid"
	}
	if email := strings.TrimSpace(m.info.Email); email == "" {
		errs[FieldEmail] = "email is required"
	} else if !emailRe.MatchString(email) {
		errs[FieldEmail] = "email looks invalid"
	}

	return errs
}

func (m *Model) publishChanged() {
	m.bus.Publish(event.BuyerChanged, event.BuyerChangedData{
		Payment: string(m.info.Payment),
		Address: m.info.Address,
		Phone:   m.info.Phone,
		Email:   m.info.Email,
	})
}

// emailRe checks the basic local@domain.tld shape; full RFC parsing is the
// server's problem.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validPhone accepts numbers that contain 10-11 digits after dropping
// separators and a leading "+" of the "+7" country prefix. Both
// "+71234567890" and "81234567890" pass, as does a bare 10-digit number.
func validPhone(s string) bool {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, s)
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) >= 10 && len(s) <= 11
}
