package memledger

import (
	"context"
	"sync"

	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger"
)

// Ledger is an in-memory implementation of ledger.Ledger for tests and
// the local CLI. It honors the same atomic-append and append-order
// contract as the durable implementations.
type Ledger struct {
	mu      sync.RWMutex
	records []ledger.Record
}

// New creates an empty in-memory ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append stores a defensive copy of the record.
func (l *Ledger) Append(ctx context.Context, r ledger.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, copyRecord(r))
	return nil
}

// ReadAll returns every record in append order.
func (l *Ledger) ReadAll(ctx context.Context) ([]ledger.Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]ledger.Record, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, copyRecord(r))
	}
	return out, nil
}

// ReadByCustomer returns one customer's records in append order.
func (l *Ledger) ReadByCustomer(ctx context.Context, customerID string) ([]ledger.Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []ledger.Record
	for _, r := range l.records {
		if r.CustomerID == customerID {
			out = append(out, copyRecord(r))
		}
	}
	return out, nil
}

// Close implements ledger.Ledger.
func (l *Ledger) Close() error { return nil }

func copyRecord(r ledger.Record) ledger.Record {
	cp := r
	cp.Lines = make([]ledger.Line, len(r.Lines))
	copy(cp.Lines, r.Lines)
	return cp
}
