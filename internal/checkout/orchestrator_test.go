package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/storefront-challenge/internal/api"
	"github.com/xenking/storefront-challenge/internal/domain/basket"
	"github.com/xenking/storefront-challenge/internal/domain/buyer"
	"github.com/xenking/storefront-challenge/internal/domain/catalog"
	"github.com/xenking/storefront-challenge/internal/domain/product"
	"github.com/xenking/storefront-challenge/internal/event"
)

// --- Mock implementations ---

type mockClient struct {
	products  []product.Product
	fetchErr  error
	conf      api.OrderConfirmation
	submitErr error
	lastOrder *api.OrderPayload
}

func (m *mockClient) FetchCatalog(_ context.Context) ([]product.Product, error) {
	return m.products, m.fetchErr
}

func (m *mockClient) SubmitOrder(_ context.Context, p api.OrderPayload) (api.OrderConfirmation, error) {
	m.lastOrder = &p
	return m.conf, m.submitErr
}

type mockRenderer struct {
	catalogs   []CatalogData
	previews   []PreviewData
	baskets    []BasketData
	orderForms []OrderFormData
	contacts   []ContactsData
	successes  []SuccessData
	errorMsgs  []string
	counter    int
	closed     int
}

func (m *mockRenderer) RenderCatalog(d CatalogData)     { m.catalogs = append(m.catalogs, d) }
func (m *mockRenderer) RenderPreview(d PreviewData)     { m.previews = append(m.previews, d) }
func (m *mockRenderer) RenderBasket(d BasketData)       { m.baskets = append(m.baskets, d) }
func (m *mockRenderer) RenderOrderForm(d OrderFormData) { m.orderForms = append(m.orderForms, d) }
func (m *mockRenderer) RenderContacts(d ContactsData)   { m.contacts = append(m.contacts, d) }
func (m *mockRenderer) RenderSuccess(d SuccessData)     { m.successes = append(m.successes, d) }
func (m *mockRenderer) RenderError(msg string)          { m.errorMsgs = append(m.errorMsgs, msg) }
func (m *mockRenderer) SetBasketCounter(count int)      { m.counter = count }
func (m *mockRenderer) CloseModal()                     { m.closed++ }

// --- Helpers ---

type fixture struct {
	bus     *event.Bus
	catalog *catalog.Model
	basket  *basket.Model
	buyer   *buyer.Model
	client  *mockClient
	view    *mockRenderer
	orch    *Orchestrator
}

func newFixture(t *testing.T, products ...product.Product) *fixture {
	t.Helper()
	f := &fixture{
		bus:    event.NewBus(zap.NewNop()),
		client: &mockClient{products: products, conf: api.OrderConfirmation{ID: "ord-1", Total: decimal.NewFromInt(100)}},
		view:   &mockRenderer{},
	}
	f.catalog = catalog.New(f.bus)
	f.basket = basket.New(f.bus)
	f.buyer = buyer.New(f.bus)
	f.orch = New(context.Background(), zap.NewNop(), f.bus, f.catalog, f.basket, f.buyer, f.client, f.view)
	f.orch.Bind()
	f.orch.LoadCatalog(context.Background())
	return f
}

func priced(id string, price int64) product.Product {
	return product.Product{
		ID:    id,
		Title: "item " + id,
		Price: decimal.NewNullDecimal(decimal.NewFromInt(price)),
	}
}

func priceless(id string) product.Product {
	return product.Product{ID: id, Title: "item " + id}
}

func (f *fixture) fillOrderForm() {
	f.bus.Publish(event.OrderPaymentChange, event.OrderPaymentChangeData{Payment: "card"})
	f.bus.Publish(event.OrderAddressChange, event.OrderAddressChangeData{Address: "Street 1"})
}

// --- Tests ---

func TestLoadCatalog_RendersGallery(t *testing.T) {
	f := newFixture(t, priced("p1", 100), priced("p2", 50))

	require.Len(t, f.view.catalogs, 1)
	assert.Len(t, f.view.catalogs[0].Items, 2)
}

func TestLoadCatalog_FailureLeavesBrowsingScreen(t *testing.T) {
	f := newFixture(t, priced("p1", 100))
	f.client.fetchErr = &api.StatusError{Code: 500, Message: "boom"}

	f.orch.LoadCatalog(context.Background())

	assert.Len(t, f.view.catalogs, 1, "catalog stays at the last good load")
	assert.Equal(t, ScreenNone, f.orch.Screen())
	require.Len(t, f.view.errorMsgs, 1)
}

func TestSelectProduct_RendersPreview(t *testing.T) {
	f := newFixture(t, priced("p1", 100))

	f.bus.Publish(event.ProductSelect, event.ProductSelectData{ID: "p1"})

	require.Len(t, f.view.previews, 1)
	assert.Equal(t, "p1", f.view.previews[0].Item.ID)
	assert.True(t, f.view.previews[0].CanBuy)
	assert.False(t, f.view.previews[0].InBasket)
	assert.Equal(t, ScreenPreview, f.orch.Screen())
}

func TestSelectProduct_UnknownIDIsNoOp(t *testing.T) {
	f := newFixture(t, priced("p1", 100))

	f.bus.Publish(event.ProductSelect, event.ProductSelectData{ID: "ghost"})

	assert.Empty(t, f.view.previews)
	assert.Equal(t, ScreenNone, f.orch.Screen())
}

func TestSelectProduct_ReclickOpenPreviewDoesNotRerender(t *testing.T) {
	f := newFixture(t, priced("p1", 100))

	f.bus.Publish(event.ProductSelect, event.ProductSelectData{ID: "p1"})
	f.bus.Publish(event.ProductSelect, event.ProductSelectData{ID: "p1"})

	assert.Len(t, f.view.previews, 1)
}

func TestPreview_PricelessProductNotBuyable(t *testing.T) {
	f := newFixture(t, priceless("p1"))

	f.bus.Publish(event.ProductSelect, event.ProductSelectData{ID: "p1"})

	require.Len(t, f.view.previews, 1)
	assert.False(t, f.view.previews[0].CanBuy)
}

func TestAddToBasket_GatedByCanBuy(t *testing.T) {
	f := newFixture(t, priceless("p1"), priced("p2", 100))

	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p1"})
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p2"})

	assert.False(t, f.basket.Has("p1"), "priceless product must be rejected by the guard")
	assert.True(t, f.basket.Has("p2"))
	assert.Equal(t, 1, f.view.counter)
}

func TestAddFromPreview_ClosesModal(t *testing.T) {
	f := newFixture(t, priced("p1", 100))

	f.bus.Publish(event.ProductSelect, event.ProductSelectData{ID: "p1"})
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p1"})

	assert.Equal(t, 1, f.view.closed)
	assert.Equal(t, ScreenNone, f.orch.Screen())
	_, previewing := f.catalog.CurrentPreview()
	assert.False(t, previewing)
}

func TestOpenBasket_RendersWithTotal(t *testing.T) {
	f := newFixture(t, priced("p1", 100), priced("p2", 50))
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p1"})
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p2"})

	f.bus.Publish(event.BasketOpen, event.BasketOpenData{})

	require.NotEmpty(t, f.view.baskets)
	last := f.view.baskets[len(f.view.baskets)-1]
	assert.True(t, decimal.NewFromInt(150).Equal(last.Total))
	assert.True(t, last.CanCheckout)
	assert.Equal(t, ScreenBasket, f.orch.Screen())
}

func TestRemoveWhileBasketOpen_RerendersBasket(t *testing.T) {
	f := newFixture(t, priced("p1", 100), priced("p2", 50))
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p1"})
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p2"})
	f.bus.Publish(event.BasketOpen, event.BasketOpenData{})
	rendered := len(f.view.baskets)

	f.bus.Publish(event.ProductRemove, event.ProductRemoveData{ID: "p1"})

	require.Len(t, f.view.baskets, rendered+1)
	last := f.view.baskets[len(f.view.baskets)-1]
	assert.Len(t, last.Items, 1)
	assert.True(t, decimal.NewFromInt(50).Equal(last.Total))
}

func TestOrderStart_EmptyBasketDoesNotAdvance(t *testing.T) {
	f := newFixture(t, priced("p1", 100))

	f.bus.Publish(event.OrderStart, event.OrderStartData{})

	assert.Empty(t, f.view.orderForms)
	assert.NotEqual(t, ScreenOrderForm, f.orch.Screen())
}

func TestOrderStart_RendersFormWithValidationErrors(t *testing.T) {
	f := newFixture(t, priced("p1", 100))
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p1"})

	f.bus.Publish(event.OrderStart, event.OrderStartData{})

	require.Len(t, f.view.orderForms, 1)
	form := f.view.orderForms[0]
	assert.Empty(t, form.Payment)
	assert.Empty(t, form.Address)
	assert.False(t, form.Valid)
	assert.Len(t, form.Errors, 2, "payment and address errors expected")
	assert.Equal(t, ScreenOrderForm, f.orch.Screen())
}

func TestOrderFormFieldEdit_Rerenders(t *testing.T) {
	f := newFixture(t, priced("p1", 100))
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p1"})
	f.bus.Publish(event.OrderStart, event.OrderStartData{})

	f.bus.Publish(event.OrderPaymentChange, event.OrderPaymentChangeData{Payment: "card"})

	require.Len(t, f.view.orderForms, 2)
	form := f.view.orderForms[1]
	assert.Equal(t, "card", form.Payment)
	assert.Len(t, form.Errors, 1, "only the address error remains")
}

func TestOrderFormFieldEdit_NoRerenderWhenFormClosed(t *testing.T) {
	f := newFixture(t, priced("p1", 100))
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p1"})

	f.bus.Publish(event.OrderPaymentChange, event.OrderPaymentChangeData{Payment: "card"})

	assert.Empty(t, f.view.orderForms)
	assert.Equal(t, buyer.PaymentCard, f.buyer.Snapshot().Payment, "the model still records the edit")
}

func TestOrderSubmit_InvalidStaysOnForm(t *testing.T) {
	f := newFixture(t, priced("p1", 100))
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p1"})
	f.bus.Publish(event.OrderStart, event.OrderStartData{})

	f.bus.Publish(event.OrderSubmit, event.OrderSubmitData{Payment: "", Address: ""})

	assert.Empty(t, f.view.contacts)
	assert.Equal(t, ScreenOrderForm, f.orch.Screen())
	last := f.view.orderForms[len(f.view.orderForms)-1]
	assert.False(t, last.Valid)
	assert.Len(t, last.Errors, 2)
}

func TestOrderSubmit_ValidAdvancesToContacts(t *testing.T) {
	f := newFixture(t, priced("p1", 100))
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p1"})
	f.bus.Publish(event.OrderStart, event.OrderStartData{})
	f.fillOrderForm()

	f.bus.Publish(event.OrderSubmit, event.OrderSubmitData{Payment: "card", Address: "Street 1"})

	require.NotEmpty(t, f.view.contacts)
	form := f.view.contacts[len(f.view.contacts)-1]
	assert.False(t, form.Valid, "email and phone are still empty")
	assert.Equal(t, ScreenContacts, f.orch.Screen())
}

func TestOrderSubmit_IgnoredOutsideOrderForm(t *testing.T) {
	f := newFixture(t, priced("p1", 100))
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p1"})

	f.bus.Publish(event.OrderSubmit, event.OrderSubmitData{Payment: "card", Address: "Street 1"})

	assert.Empty(t, f.view.contacts)
}

func TestContactsSubmit_InvalidStaysOnContacts(t *testing.T) {
	f := newFixture(t, priced("p1", 100))
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p1"})
	f.bus.Publish(event.OrderStart, event.OrderStartData{})
	f.bus.Publish(event.OrderSubmit, event.OrderSubmitData{Payment: "card", Address: "Street 1"})

	f.bus.Publish(event.ContactsSubmit, event.ContactsSubmitData{Email: "bogus", Phone: "123"})

	assert.Nil(t, f.client.lastOrder, "network must not be called")
	assert.Equal(t, ScreenContacts, f.orch.Screen())
	last := f.view.contacts[len(f.view.contacts)-1]
	assert.Len(t, last.Errors, 2)
}

func TestFullCheckout_SubmitsPayloadAndClearsSession(t *testing.T) {
	f := newFixture(t, priced("p1", 100), priced("p2", 50))
	f.client.conf = api.OrderConfirmation{ID: "ord-42", Total: decimal.NewFromInt(150)}

	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p1"})
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p2"})
	f.bus.Publish(event.OrderStart, event.OrderStartData{})
	f.bus.Publish(event.OrderSubmit, event.OrderSubmitData{Payment: "card", Address: "Street 1"})
	f.bus.Publish(event.ContactsSubmit, event.ContactsSubmitData{Email: "a@b.com", Phone: "+71234567890"})

	require.NotNil(t, f.client.lastOrder)
	payload := *f.client.lastOrder
	assert.Equal(t, []string{"p1", "p2"}, payload.Items, "items keep basket order")
	assert.True(t, decimal.NewFromInt(150).Equal(payload.Total))
	assert.Equal(t, "card", payload.Payment)
	assert.Equal(t, "a@b.com", payload.Email)

	require.Len(t, f.view.successes, 1)
	assert.True(t, decimal.NewFromInt(150).Equal(f.view.successes[0].Total), "server total is rendered")

	assert.Equal(t, 0, f.basket.Count())
	assert.Equal(t, buyer.Info{}, f.buyer.Snapshot())
	assert.Equal(t, ScreenSuccess, f.orch.Screen())
}

func TestContactsSubmit_NetworkFailureKeepsContactsScreen(t *testing.T) {
	f := newFixture(t, priced("p1", 100))
	f.client.submitErr = &api.StatusError{Code: 422, Message: "total mismatch"}

	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p1"})
	f.bus.Publish(event.OrderStart, event.OrderStartData{})
	f.bus.Publish(event.OrderSubmit, event.OrderSubmitData{Payment: "card", Address: "Street 1"})
	f.bus.Publish(event.ContactsSubmit, event.ContactsSubmitData{Email: "a@b.com", Phone: "+71234567890"})

	assert.Equal(t, ScreenContacts, f.orch.Screen())
	assert.Equal(t, 1, f.basket.Count(), "basket survives a failed submission")
	require.NotEmpty(t, f.view.errorMsgs)
	assert.Equal(t, "total mismatch", f.view.errorMsgs[len(f.view.errorMsgs)-1])
	assert.Empty(t, f.view.successes)
}

func TestSuccessClose_ReturnsToResting(t *testing.T) {
	f := newFixture(t, priced("p1", 100))
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p1"})
	f.bus.Publish(event.OrderStart, event.OrderStartData{})
	f.bus.Publish(event.OrderSubmit, event.OrderSubmitData{Payment: "card", Address: "Street 1"})
	f.bus.Publish(event.ContactsSubmit, event.ContactsSubmitData{Email: "a@b.com", Phone: "+71234567890"})
	require.Equal(t, ScreenSuccess, f.orch.Screen())

	f.bus.Publish(event.OrderSuccess, event.OrderSuccessData{})

	assert.Equal(t, ScreenNone, f.orch.Screen())
}

func TestModalClose_ClearsScreenAndPreview(t *testing.T) {
	f := newFixture(t, priced("p1", 100))
	f.bus.Publish(event.ProductSelect, event.ProductSelectData{ID: "p1"})

	f.bus.Publish(event.ModalClose, event.ModalCloseData{})

	assert.Equal(t, ScreenNone, f.orch.Screen())
	_, ok := f.catalog.CurrentPreview()
	assert.False(t, ok)

	// The same product can now be previewed again.
	f.bus.Publish(event.ProductSelect, event.ProductSelectData{ID: "p1"})
	assert.Len(t, f.view.previews, 2)
}

func TestPreview_InBasketAffordance(t *testing.T) {
	f := newFixture(t, priced("p1", 100))
	f.bus.Publish(event.ProductAdd, event.ProductAddData{ID: "p1"})

	f.bus.Publish(event.ProductSelect, event.ProductSelectData{ID: "p1"})

	require.Len(t, f.view.previews, 1)
	assert.True(t, f.view.previews[0].InBasket)
}
