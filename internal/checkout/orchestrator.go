// Package checkout sequences the storefront screens: browse, preview,
// basket, order form, contact form, confirmation. The flow the original
// markup wired up implicitly through scattered handlers lives here as an
// explicit state machine: a Screen enum, a transition table, and pure
// guard predicates.
package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/storefront-challenge/internal/api"
	"github.com/xenking/storefront-challenge/internal/domain/basket"
	"github.com/xenking/storefront-challenge/internal/domain/buyer"
	"github.com/xenking/storefront-challenge/internal/domain/catalog"
	"github.com/xenking/storefront-challenge/internal/event"
)

// Orchestrator subscribes to UI- and model-originated events, decides
// which screen to show next, enforces the validation gates between steps,
// and invokes the network client to submit the order.
type Orchestrator struct {
	lg      *zap.Logger
	bus     *event.Bus
	catalog *catalog.Model
	basket  *basket.Model
	buyer   *buyer.Model
	client  api.Client
	view    Renderer

	ctx       context.Context
	screen    Screen
	previewID string
}

// New wires an orchestrator over already-constructed collaborators. The
// context bounds the network calls the orchestrator makes.
func New(
	ctx context.Context,
	lg *zap.Logger,
	bus *event.Bus,
	cat *catalog.Model,
	bsk *basket.Model,
	byr *buyer.Model,
	client api.Client,
	view Renderer,
) *Orchestrator {
	return &Orchestrator{
		lg:      lg,
		bus:     bus,
		catalog: cat,
		basket:  bsk,
		buyer:   byr,
		client:  client,
		view:    view,
		ctx:     ctx,
	}
}

// Screen returns the currently shown screen.
func (o *Orchestrator) Screen() Screen {
	return o.screen
}

// rule is one row of the transition table. before runs unconditionally
// (field staging), then guard decides between apply and reject. A nil
// from list means the trigger fires from any screen; a trigger arriving
// on a screen outside its from list is ignored.
type rule struct {
	from   []Screen
	before func(o *Orchestrator, d event.Data)
	guard  func(o *Orchestrator, d event.Data) bool
	apply  func(o *Orchestrator, d event.Data)
	reject func(o *Orchestrator, d event.Data)
}

// transitions is the screen state machine, one row per UI trigger.
// Everything outside this table is a direct event-to-render mapping.
var transitions = map[event.Name]rule{
	event.ProductSelect: {
		guard: (*Orchestrator).canPreview,
		apply: (*Orchestrator).selectProduct,
	},
	event.ProductSelected: {
		apply: (*Orchestrator).showPreview,
	},
	event.ProductAdd: {
		guard: (*Orchestrator).canBuy,
		apply: (*Orchestrator).addToBasket,
	},
	event.ProductRemove: {
		apply: (*Orchestrator).removeFromBasket,
	},
	event.BasketOpen: {
		apply: (*Orchestrator).showBasket,
	},
	event.OrderStart: {
		guard: (*Orchestrator).basketNotEmpty,
		apply: (*Orchestrator).showOrderForm,
	},
	event.OrderPaymentChange: {
		apply: (*Orchestrator).setPayment,
	},
	event.OrderAddressChange: {
		apply: (*Orchestrator).setAddress,
	},
	event.OrderSubmit: {
		from:   []Screen{ScreenOrderForm},
		before: (*Orchestrator).stageOrderFields,
		guard:  (*Orchestrator).orderFormValid,
		apply:  (*Orchestrator).showContacts,
		reject: (*Orchestrator).rerenderOrderForm,
	},
	event.ContactsEmailChange: {
		apply: (*Orchestrator).setEmail,
	},
	event.ContactsPhoneChange: {
		apply: (*Orchestrator).setPhone,
	},
	event.ContactsSubmit: {
		from:   []Screen{ScreenContacts},
		before: (*Orchestrator).stageContactFields,
		guard:  (*Orchestrator).contactsValid,
		apply:  (*Orchestrator).submitOrder,
		reject: (*Orchestrator).rerenderContacts,
	},
	event.OrderSuccess: {
		apply: (*Orchestrator).closeActiveModal,
	},
	event.ModalClose: {
		apply: (*Orchestrator).onModalClosed,
	},
}

// Bind subscribes the orchestrator on the bus. Must be called once,
// after the models are constructed and before any event is published.
func (o *Orchestrator) Bind() {
	for name := range transitions {
		n := name
		o.bus.Subscribe(event.Exact(n), func(d event.Data) {
			o.handle(n, d)
		})
	}

	// Direct event-to-render mappings outside the transition table.
	o.bus.Subscribe(event.Exact(event.CatalogChanged), o.onCatalogChanged)
	o.bus.Subscribe(event.Exact(event.BasketChanged), o.onBasketChanged)
	o.bus.Subscribe(event.Exact(event.Error), o.onError)

	// Re-validate and re-render the active form on every field edit.
	// Registered after the table handlers so the setter has already run.
	o.bus.Subscribe(event.FieldChange("order"), o.onOrderFieldEdited)
	o.bus.Subscribe(event.FieldChange("contacts"), o.onContactsFieldEdited)
}

func (o *Orchestrator) handle(name event.Name, d event.Data) {
	r := transitions[name]
	if len(r.from) > 0 && !screenIn(o.screen, r.from) {
		o.lg.Debug("trigger ignored on current screen",
			zap.String("event", string(name)),
			zap.Stringer("screen", o.screen),
		)
		return
	}
	if r.before != nil {
		r.before(o, d)
	}
	if r.guard != nil && !r.guard(o, d) {
		if r.reject != nil {
			r.reject(o, d)
		}
		return
	}
	if r.apply != nil {
		r.apply(o, d)
	}
}

func screenIn(s Screen, set []Screen) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// LoadCatalog fetches the product list and replaces the catalog. A failed
// load leaves the browsing screen with the catalog unchanged and surfaces
// an error event.
func (o *Orchestrator) LoadCatalog(ctx context.Context) {
	items, err := o.client.FetchCatalog(ctx)
	if err != nil {
		o.lg.Error("catalog load failed", zap.Error(err))
		o.bus.Publish(event.Error, event.ErrorData{Message: "could not load products"})
		return
	}
	o.catalog.ReplaceAll(items)
}

// --- Guards ---

// canPreview holds when the product exists and its preview is not already
// the open screen. Re-clicking an open product must not re-render.
func (o *Orchestrator) canPreview(d event.Data) bool {
	sel := d.(event.ProductSelectData)
	if o.screen == ScreenPreview && o.previewID == sel.ID {
		return false
	}
	_, ok := o.catalog.Lookup(sel.ID)
	return ok
}

// canBuy holds when the product exists and has a price. The basket never
// sees unpurchasable products; this is the single gate.
func (o *Orchestrator) canBuy(d event.Data) bool {
	p, ok := o.catalog.Lookup(d.(event.ProductAddData).ID)
	return ok && p.ForSale()
}

func (o *Orchestrator) basketNotEmpty(event.Data) bool {
	return o.basket.Count() > 0
}

func (o *Orchestrator) orderFormValid(event.Data) bool {
	return len(o.orderFormErrors()) == 0
}

func (o *Orchestrator) contactsValid(event.Data) bool {
	return len(o.contactErrors()) == 0
}

// --- Field staging ---

// stageOrderFields stores the submitted form values before validation, so
// a submit of a form the user never touched still validates real data.
func (o *Orchestrator) stageOrderFields(d event.Data) {
	sub := d.(event.OrderSubmitData)
	o.buyer.SetPayment(buyer.Payment(sub.Payment))
	o.buyer.SetAddress(sub.Address)
}

func (o *Orchestrator) stageContactFields(d event.Data) {
	sub := d.(event.ContactsSubmitData)
	o.buyer.SetEmail(sub.Email)
	o.buyer.SetPhone(sub.Phone)
}

// --- Transitions ---

func (o *Orchestrator) selectProduct(d event.Data) {
	p, _ := o.catalog.Lookup(d.(event.ProductSelectData).ID)
	o.catalog.SelectForPreview(p)
}

func (o *Orchestrator) showPreview(d event.Data) {
	p := d.(event.ProductSelectedData).Item
	o.screen = ScreenPreview
	o.previewID = p.ID
	o.view.RenderPreview(PreviewData{
		Item:     p,
		InBasket: o.basket.Has(p.ID),
		CanBuy:   p.ForSale(),
	})
}

func (o *Orchestrator) addToBasket(d event.Data) {
	p, _ := o.catalog.Lookup(d.(event.ProductAddData).ID)
	o.basket.Add(p)
	if o.screen == ScreenPreview {
		o.closeActiveModal(nil)
	}
}

func (o *Orchestrator) removeFromBasket(d event.Data) {
	o.basket.Remove(d.(event.ProductRemoveData).ID)
	if o.screen == ScreenPreview {
		o.closeActiveModal(nil)
	}
}

func (o *Orchestrator) showBasket(event.Data) {
	o.screen = ScreenBasket
	o.view.RenderBasket(BasketData{
		Items:       o.basket.Items(),
		Total:       o.basket.Total(),
		CanCheckout: o.basket.Count() > 0,
	})
}

func (o *Orchestrator) showOrderForm(event.Data) {
	o.screen = ScreenOrderForm
	o.rerenderOrderForm(nil)
}

func (o *Orchestrator) rerenderOrderForm(event.Data) {
	info := o.buyer.Snapshot()
	errs := o.orderFormErrors()
	o.view.RenderOrderForm(OrderFormData{
		Payment: string(info.Payment),
		Address: info.Address,
		Valid:   len(errs) == 0,
		Errors:  errs,
	})
}

func (o *Orchestrator) showContacts(event.Data) {
	o.screen = ScreenContacts
	o.rerenderContacts(nil)
}

func (o *Orchestrator) rerenderContacts(event.Data) {
	info := o.buyer.Snapshot()
	errs := o.contactErrors()
	o.view.RenderContacts(ContactsData{
		Email:  info.Email,
		Phone:  info.Phone,
		Valid:  len(errs) == 0,
		Errors: errs,
	})
}

func (o *Orchestrator) setPayment(d event.Data) {
	o.buyer.SetPayment(buyer.Payment(d.(event.OrderPaymentChangeData).Payment))
}

func (o *Orchestrator) setAddress(d event.Data) {
	o.buyer.SetAddress(d.(event.OrderAddressChangeData).Address)
}

func (o *Orchestrator) setEmail(d event.Data) {
	o.buyer.SetEmail(d.(event.ContactsEmailChangeData).Email)
}

func (o *Orchestrator) setPhone(d event.Data) {
	o.buyer.SetPhone(d.(event.ContactsPhoneChangeData).Phone)
}

// submitOrder builds the payload from the basket and buyer snapshots and
// invokes the network client. Success clears both models and shows the
// confirmation with the server-returned total; failure keeps the contact
// form so the buyer can retry.
func (o *Orchestrator) submitOrder(event.Data) {
	info := o.buyer.Snapshot()
	items := o.basket.Items()
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}

	conf, err := o.client.SubmitOrder(o.ctx, api.OrderPayload{
		Payment: string(info.Payment),
		Address: info.Address,
		Email:   info.Email,
		Phone:   info.Phone,
		Total:   o.basket.Total(),
		Items:   ids,
	})

	// The buyer may have navigated away while the submission was
	// pending; a late result must not resurrect the flow.
	if o.screen != ScreenContacts {
		o.lg.Debug("submission result ignored, contacts screen no longer active",
			zap.Stringer("screen", o.screen))
		return
	}

	if err != nil {
		o.lg.Error("order submission failed", zap.Error(err))
		msg := "could not place the order"
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.Message != "" {
			msg = statusErr.Message
		}
		o.bus.Publish(event.Error, event.ErrorData{Message: msg})
		return
	}

	o.lg.Info("order placed",
		zap.String("order_id", conf.ID),
		zap.String("total", conf.Total.String()),
	)
	o.basket.Clear()
	o.buyer.Clear()
	o.screen = ScreenSuccess
	o.view.RenderSuccess(SuccessData{Total: conf.Total})
}

func (o *Orchestrator) closeActiveModal(event.Data) {
	o.view.CloseModal()
	o.bus.Publish(event.ModalClose, event.ModalCloseData{})
}

func (o *Orchestrator) onModalClosed(event.Data) {
	o.screen = ScreenNone
	o.previewID = ""
	o.catalog.ClearPreview()
}

// --- Event-to-render mappings ---

func (o *Orchestrator) onCatalogChanged(d event.Data) {
	o.view.RenderCatalog(CatalogData{Items: d.(event.CatalogChangedData).Items})
}

func (o *Orchestrator) onBasketChanged(d event.Data) {
	snap := d.(event.BasketChangedData)
	o.view.SetBasketCounter(snap.Count)
	// A mutation while the basket modal is open re-renders it in place.
	if o.screen == ScreenBasket {
		o.view.RenderBasket(BasketData{
			Items:       snap.Items,
			Total:       snap.Total,
			CanCheckout: snap.Count > 0,
		})
	}
}

func (o *Orchestrator) onError(d event.Data) {
	msg := d.(event.ErrorData).Message
	o.lg.Warn("storefront error", zap.String("message", msg))
	o.view.RenderError(msg)
}

func (o *Orchestrator) onOrderFieldEdited(event.Data) {
	if o.screen == ScreenOrderForm {
		o.rerenderOrderForm(nil)
	}
}

func (o *Orchestrator) onContactsFieldEdited(event.Data) {
	if o.screen == ScreenContacts {
		o.rerenderContacts(nil)
	}
}

// orderFormErrors returns the payment/address validation messages, in
// form order.
func (o *Orchestrator) orderFormErrors() []string {
	errs := o.buyer.CheckValidity()
	var out []string
	if msg, ok := errs[buyer.FieldPayment]; ok {
		out = append(out, msg)
	}
	if msg, ok := errs[buyer.FieldAddress]; ok {
		out = append(out, msg)
	}
	return out
}

// contactErrors returns the email/phone validation messages, in form
// order.
func (o *Orchestrator) contactErrors() []string {
	errs := o.buyer.CheckValidity()
	var out []string
	if msg, ok := errs[buyer.FieldEmail]; ok {
		out = append(out, msg)
	}
	if msg, ok := errs[buyer.FieldPhone]; ok {
		out = append(out, msg)
	}
	return out
}
