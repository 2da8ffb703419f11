// Package orderdesk turns free-text customer messages into priced,
// durably recorded orders against a fixed product catalog.
package orderdesk

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/orderdesk/orderdesk/pkg/orderdesk/catalog"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/compose"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/extract"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger"
)

// Message is one inbound customer message.
type Message struct {
	Sender string
	Body   string
}

// Reply is the outcome of handling a message. Record is non-nil exactly
// when an order was accepted (whether or not persisting it succeeded).
type Reply struct {
	Text   string
	Record *ledger.Record
}

// Fallback extracts order lines from raw text via an external model. It
// is consulted only when the local pipeline accepts zero lines.
type Fallback interface {
	ExtractLines(ctx context.Context, cat *catalog.Catalog, raw string) ([]extract.Line, error)
}

// Options configures a Desk.
type Options struct {
	Catalog *catalog.Catalog
	Ledger  ledger.Ledger

	// Fallback is optional; without it unmatched messages get the
	// fixed apology.
	Fallback        Fallback
	FallbackTimeout time.Duration

	// Now is for tests; defaults to time.Now.
	Now func() time.Time
}

// Desk is the message-handling facade. It is stateless per message and
// safe for concurrent use; the ledger is the only shared mutable state.
type Desk struct {
	catalog  *catalog.Catalog
	ledger   ledger.Ledger
	matcher  *extract.Matcher
	fallback Fallback
	timeout  time.Duration
	now      func() time.Time
	ids      *ledger.IDSource
}

// New creates a Desk.
func New(opts Options) (*Desk, error) {
	if opts.Catalog == nil {
		return nil, errors.New("orderdesk: catalog required")
	}
	if opts.Ledger == nil {
		return nil, errors.New("orderdesk: ledger required")
	}
	timeout := opts.FallbackTimeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Desk{
		catalog:  opts.Catalog,
		ledger:   opts.Ledger,
		matcher:  extract.NewMatcher(opts.Catalog),
		fallback: opts.Fallback,
		timeout:  timeout,
		now:      now,
		ids:      ledger.NewIDSource(),
	}, nil
}

// Handle routes one message and returns the reply text. User-input
// problems never surface as errors; the returned error is reserved for
// conditions the transport cannot act on anyway and is currently always
// nil.
func (d *Desk) Handle(ctx context.Context, msg Message) (Reply, error) {
	body := strings.TrimSpace(msg.Body)
	if body == "" {
		return Reply{Text: compose.EmptyPrompt()}, nil
	}

	switch strings.ToLower(body) {
	case "hi", "hello":
		return Reply{Text: compose.Greeting()}, nil
	case "price", "menu":
		return Reply{Text: compose.PriceList(d.catalog)}, nil
	case "my orders":
		records, err := d.ledger.ReadByCustomer(ctx, msg.Sender)
		if err != nil {
			return Reply{Text: compose.HistoryUnavailable()}, nil
		}
		return Reply{Text: compose.History(records)}, nil
	}

	asm := extract.Assemble(extract.Split(body), d.matcher, d.catalog)

	rejected := make([]string, 0, len(asm.Rejected))
	for _, r := range asm.Rejected {
		rejected = append(rejected, r.Segment.Text)
	}

	if len(asm.Lines) == 0 {
		lines := d.runFallback(ctx, body)
		if len(lines) == 0 {
			return Reply{Text: compose.NotUnderstood()}, nil
		}
		// The fallback reinterpreted the whole message, so local
		// rejections no longer apply.
		asm = extract.Assembly{Lines: lines}
		for _, l := range lines {
			asm.Total += l.LineTotal
		}
		rejected = nil
	}

	rec := ledger.NewRecord(d.ids.NewID(), d.now(), msg.Sender, toLedgerLines(asm.Lines), body)
	text := compose.Confirmation(rec.Lines, rec.Total, rejected)
	if err := d.ledger.Append(ctx, rec); err != nil {
		// The order is priced and confirmed either way; only the
		// durability warning is added.
		text += "\n" + compose.LedgerWarning()
	}
	return Reply{Text: text, Record: &rec}, nil
}

// runFallback makes the single bounded external attempt. Any failure
// collapses to zero lines.
func (d *Desk) runFallback(ctx context.Context, body string) []extract.Line {
	if d.fallback == nil {
		return nil
	}
	fctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	lines, err := d.fallback.ExtractLines(fctx, d.catalog, body)
	if err != nil {
		return nil
	}
	return lines
}

func toLedgerLines(lines []extract.Line) []ledger.Line {
	out := make([]ledger.Line, len(lines))
	for i, l := range lines {
		out[i] = ledger.Line{
			ProductCode: l.Product.Code,
			DisplayName: l.Product.DisplayName,
			Quantity:    l.Quantity,
			UnitPrice:   l.Product.UnitPrice,
			LineTotal:   l.LineTotal,
		}
	}
	return out
}
