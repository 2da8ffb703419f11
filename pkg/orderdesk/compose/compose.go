// Package compose renders the deterministic reply texts sent back to
// customers. Every function here is a pure template; nothing in this
// package reads state or talks to the network.
package compose

import (
	"fmt"
	"strings"

	"github.com/orderdesk/orderdesk/pkg/orderdesk/catalog"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger"
)

const currency = "₹"

// Greeting answers "hi"/"hello".
func Greeting() string {
	return "Hello! I am your ordering assistant.\n" +
		"Type 'price' for the price list, or send an order like \"sunflower oil 1l 2, groundnut oil 5l\"."
}

// EmptyPrompt answers a blank message.
func EmptyPrompt() string {
	return "Please send an order, e.g. \"sunflower oil 1l 2\". Type 'price' for the price list."
}

// NotUnderstood is the fixed apology when nothing could be extracted,
// locally or via the fallback.
func NotUnderstood() string {
	return "Sorry, I could not understand that order. Please name a product and a quantity, e.g. \"sunflower oil 1l 2\"."
}

// LedgerWarning is appended to a confirmation when the order was priced
// but could not be durably recorded.
func LedgerWarning() string {
	return "Note: we could not save your order just now. Please resend it in a little while to be safe."
}

// HistoryUnavailable answers "my orders" when the ledger cannot be read.
func HistoryUnavailable() string {
	return "Sorry, your order history is unavailable right now. Please try again later."
}

// Confirmation renders accepted lines, the total, and any rejected
// fragments. The output is deterministic for a given input.
func Confirmation(lines []ledger.Line, total int64, rejected []string) string {
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "%s x%d = %s%d\n", l.DisplayName, l.Quantity, currency, l.LineTotal)
	}
	fmt.Fprintf(&b, "Total: %s%d", currency, total)
	if len(rejected) > 0 {
		b.WriteString("\nCould not understand:")
		for _, frag := range rejected {
			fmt.Fprintf(&b, "\n- %q", frag)
		}
	}
	return b.String()
}

// PriceList renders the catalog in catalog order.
func PriceList(cat *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString("Product prices:")
	for _, p := range cat.Products() {
		fmt.Fprintf(&b, "\n%s - %s%d", p.DisplayName, currency, p.UnitPrice)
	}
	return b.String()
}

// History renders a customer's past orders, oldest first.
func History(records []ledger.Record) string {
	if len(records) == 0 {
		return "You have no orders yet."
	}
	var b strings.Builder
	b.WriteString("Your orders:")
	for _, r := range records {
		fmt.Fprintf(&b, "\n%s:", r.Time.Format("2006-01-02 15:04"))
		for _, l := range r.Lines {
			fmt.Fprintf(&b, " %s x%d,", l.DisplayName, l.Quantity)
		}
		fmt.Fprintf(&b, " total %s%d", currency, r.Total)
	}
	return b.String()
}
