package event

import (
	"reflect"

	"go.uber.org/zap"
)

// Handler receives the payload of a matching emission.
type Handler func(Data)

// AllHandler receives every emission, wrapped with its literal name.
type AllHandler func(Emission)

// matcherKind discriminates the fixed set of subscription shapes. The
// source this design replaces matched names against regular expressions;
// here the only non-exact shape is "<scope>.<field>:change", so matching
// is a tagged switch instead of pattern evaluation.
type matcherKind uint8

const (
	matchExact matcherKind = iota
	matchFieldChange
	matchAll
)

// Matcher selects which emissions a subscription receives.
type Matcher struct {
	kind  matcherKind
	name  Name
	scope string
}

// Exact matches emissions whose literal name equals n.
func Exact(n Name) Matcher {
	return Matcher{kind: matchExact, name: n}
}

// FieldChange matches every "<scope>.<field>:change" emission for the
// given scope, e.g. FieldChange("order") matches OrderPaymentChange and
// OrderAddressChange.
func FieldChange(scope string) Matcher {
	return Matcher{kind: matchFieldChange, scope: scope}
}

// Matches reports whether an emission named n satisfies the matcher.
func (m Matcher) Matches(n Name) bool {
	switch m.kind {
	case matchExact:
		return m.name == n
	case matchFieldChange:
		scope, _, ok := n.SplitFieldChange()
		return ok && scope == m.scope
	case matchAll:
		return true
	}
	return false
}

type registration struct {
	matcher Matcher
	handler Handler
	all     AllHandler
	// fn is the handler's code pointer; registrations with the same
	// matcher and fn are considered duplicates.
	fn uintptr
}

// Bus is a synchronous publish/subscribe dispatcher. It is single-owner:
// all subscribe and publish calls must come from one goroutine, which is
// why there is no locking. Handlers run to completion in registration
// order; a Publish issued from inside a handler is queued and dispatched
// after the outer emission's handlers have all run, so nested emissions
// drain in FIFO order.
//
// A handler that panics is recovered and logged; the remaining handlers of
// the emission still run.
type Bus struct {
	lg    *zap.Logger
	regs  []registration
	depth int
	queue []Emission
}

// NewBus creates an empty bus. A nil logger disables failure reporting.
func NewBus(lg *zap.Logger) *Bus {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Bus{lg: lg}
}

// Subscribe registers handler for emissions satisfying m. Registering the
// same handler twice for the same matcher is a no-op, so views may safely
// re-subscribe on every re-render.
func (b *Bus) Subscribe(m Matcher, handler Handler) {
	if handler == nil {
		return
	}
	fn := reflect.ValueOf(handler).Pointer()
	for _, r := range b.regs {
		if r.matcher == m && r.fn == fn {
			return
		}
	}
	b.regs = append(b.regs, registration{matcher: m, handler: handler, fn: fn})
}

// SubscribeAll registers handler for every emission.
func (b *Bus) SubscribeAll(handler AllHandler) {
	if handler == nil {
		return
	}
	m := Matcher{kind: matchAll}
	fn := reflect.ValueOf(handler).Pointer()
	for _, r := range b.regs {
		if r.matcher == m && r.fn == fn {
			return
		}
	}
	b.regs = append(b.regs, registration{matcher: m, all: handler, fn: fn})
}

// Unsubscribe removes the registration of handler under m. Unknown
// registrations are ignored.
func (b *Bus) Unsubscribe(m Matcher, handler Handler) {
	if handler == nil {
		return
	}
	b.remove(m, reflect.ValueOf(handler).Pointer())
}

// UnsubscribeAll removes a wildcard registration.
func (b *Bus) UnsubscribeAll(handler AllHandler) {
	if handler == nil {
		return
	}
	b.remove(Matcher{kind: matchAll}, reflect.ValueOf(handler).Pointer())
}

func (b *Bus) remove(m Matcher, fn uintptr) {
	for i, r := range b.regs {
		if r.matcher == m && r.fn == fn {
			b.regs = append(b.regs[:i], b.regs[i+1:]...)
			return
		}
	}
}

// Reset drops every registration.
func (b *Bus) Reset() {
	b.regs = nil
}

// Publish delivers data to every subscriber matching name, in registration
// order. Publishing with no matching subscribers is a silent no-op. When
// called from inside a handler the emission is queued and dispatched after
// the current one completes.
func (b *Bus) Publish(name Name, data Data) {
	b.queue = append(b.queue, Emission{Name: name, Data: data})
	if b.depth > 0 {
		return
	}
	b.depth++
	defer func() { b.depth-- }()
	for len(b.queue) > 0 {
		e := b.queue[0]
		b.queue = b.queue[1:]
		b.dispatch(e)
	}
}

// Trigger returns a closure that publishes a fixed event. Views use it as
// a ready-made callback.
func (b *Bus) Trigger(name Name, data Data) func() {
	return func() {
		b.Publish(name, data)
	}
}

func (b *Bus) dispatch(e Emission) {
	// Snapshot so handlers may (un)subscribe without affecting this
	// emission's delivery.
	regs := make([]registration, len(b.regs))
	copy(regs, b.regs)

	for _, r := range regs {
		if !r.matcher.Matches(e.Name) {
			continue
		}
		b.invoke(r, e)
	}
}

func (b *Bus) invoke(r registration, e Emission) {
	defer func() {
		if rec := recover(); rec != nil {
			b.lg.Error("event handler panic",
				zap.String("event", string(e.Name)),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
		}
	}()
	if r.all != nil {
		r.all(e)
		return
	}
	r.handler(e.Data)
}
