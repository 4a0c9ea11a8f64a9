package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	appkg "github.com/xenking/storefront-challenge/internal/app"
	"github.com/xenking/storefront-challenge/internal/checkout"
	"github.com/xenking/storefront-challenge/internal/event"
)

const sessionHelp = `commands:
  list              show the catalog
  show <id>         preview a product
  add <id>          add a product to the basket
  rm <id>           remove a product from the basket
  basket            open the basket
  checkout          start the order form
  pay <card|cash>   set the payment method
  addr <text>       set the delivery address
  email <text>      set the contact email
  phone <text>      set the contact phone
  submit            submit the current form
  close             close the current screen
  quit              exit`

// runSession drives the storefront from line-based input. Every command
// is translated into a bus emission; all screen output comes from the
// view reacting to the orchestrator.
func runSession(ctx context.Context, a *appkg.App, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, sessionHelp)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
		case "help":
			fmt.Fprintln(out, sessionHelp)
		case "list":
			a.Bus.Publish(event.CatalogChanged, event.CatalogChangedData{Items: a.Catalog.Items()})
		case "show":
			a.Bus.Publish(event.ProductSelect, event.ProductSelectData{ID: resolveID(a, arg)})
		case "add":
			a.Bus.Publish(event.ProductAdd, event.ProductAddData{ID: resolveID(a, arg)})
		case "rm":
			a.Bus.Publish(event.ProductRemove, event.ProductRemoveData{ID: resolveID(a, arg)})
		case "basket":
			a.Bus.Publish(event.BasketOpen, event.BasketOpenData{})
		case "checkout":
			a.Bus.Publish(event.OrderStart, event.OrderStartData{})
		case "pay":
			a.Bus.Publish(event.OrderPaymentChange, event.OrderPaymentChangeData{Payment: arg})
		case "addr":
			a.Bus.Publish(event.OrderAddressChange, event.OrderAddressChangeData{Address: arg})
		case "email":
			a.Bus.Publish(event.ContactsEmailChange, event.ContactsEmailChangeData{Email: arg})
		case "phone":
			a.Bus.Publish(event.ContactsPhoneChange, event.ContactsPhoneChangeData{Phone: arg})
		case "submit":
			submitCurrent(a)
		case "close":
			a.Bus.Publish(event.ModalClose, event.ModalCloseData{})
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q (try 'help')\n", cmd)
		}
	}
}

// submitCurrent submits whichever checkout form is active, carrying the
// buyer's current field values the way a form submission would.
func submitCurrent(a *appkg.App) {
	info := a.Buyer.Snapshot()
	switch a.Checkout.Screen() {
	case checkout.ScreenContacts:
		a.Bus.Publish(event.ContactsSubmit, event.ContactsSubmitData{
			Email: info.Email,
			Phone: info.Phone,
		})
	default:
		a.Bus.Publish(event.OrderSubmit, event.OrderSubmitData{
			Payment: string(info.Payment),
			Address: info.Address,
		})
	}
}

// resolveID expands a shortened id prefix to the full catalog id, so
// the ids printed by the console view are usable as command arguments.
func resolveID(a *appkg.App, prefix string) string {
	if prefix == "" {
		return prefix
	}
	for _, p := range a.Catalog.Items() {
		if strings.HasPrefix(p.ID, prefix) {
			return p.ID
		}
	}
	return prefix
}
