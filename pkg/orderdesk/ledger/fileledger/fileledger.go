package fileledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/orderdesk/orderdesk/pkg/orderdesk/internalerr"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger"
)

// Each line of a record becomes one CSV row; rows of the same record
// share its ID. Rows carry the record total and raw message redundantly
// so the file stays a flat, self-describing table.
const columns = 10

// Ledger is a mutex-guarded flat delimited file. A record is encoded to
// a buffer and written with a single O_APPEND write followed by fsync,
// so concurrent appends never interleave rows and a successful Append is
// durable.
type Ledger struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

// Open opens or creates the ledger file.
func Open(path string) (*Ledger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return &Ledger{path: path, f: f}, nil
}

// Append durably writes one record.
func (l *Ledger) Append(ctx context.Context, r ledger.Record) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, line := range r.Lines {
		row := []string{
			r.ID,
			r.Time.UTC().Format(time.RFC3339),
			r.CustomerID,
			line.ProductCode,
			line.DisplayName,
			strconv.Itoa(line.Quantity),
			strconv.FormatInt(line.UnitPrice, 10),
			strconv.FormatInt(line.LineTotal, 10),
			strconv.FormatInt(r.Total, 10),
			r.RawMessage,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%w: %v", internalerr.ErrLedgerWrite, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrLedgerWrite, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrLedgerWrite, err)
	}
	if err := l.f.Sync(); err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrLedgerWrite, err)
	}
	return nil
}

// ReadAll returns every record in append order.
func (l *Ledger) ReadAll(ctx context.Context) ([]ledger.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readLocked(func(ledger.Record) bool { return true })
}

// ReadByCustomer returns one customer's records in append order.
func (l *Ledger) ReadByCustomer(ctx context.Context, customerID string) ([]ledger.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readLocked(func(r ledger.Record) bool { return r.CustomerID == customerID })
}

// Close closes the underlying file.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

func (l *Ledger) readLocked(keep func(ledger.Record) bool) ([]ledger.Record, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = columns

	var records []ledger.Record
	var cur *ledger.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger: %w", err)
		}
		rec, line, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		if cur == nil || cur.ID != rec.ID {
			if cur != nil && keep(*cur) {
				records = append(records, *cur)
			}
			c := rec
			cur = &c
		}
		cur.Lines = append(cur.Lines, line)
	}
	if cur != nil && keep(*cur) {
		records = append(records, *cur)
	}
	return records, nil
}

func decodeRow(row []string) (ledger.Record, ledger.Line, error) {
	at, err := time.Parse(time.RFC3339, row[1])
	if err != nil {
		return ledger.Record{}, ledger.Line{}, fmt.Errorf("read ledger: bad timestamp %q: %w", row[1], err)
	}
	qty, err := strconv.Atoi(row[5])
	if err != nil {
		return ledger.Record{}, ledger.Line{}, fmt.Errorf("read ledger: bad quantity %q: %w", row[5], err)
	}
	unit, err := strconv.ParseInt(row[6], 10, 64)
	if err != nil {
		return ledger.Record{}, ledger.Line{}, fmt.Errorf("read ledger: bad unit price %q: %w", row[6], err)
	}
	lineTotal, err := strconv.ParseInt(row[7], 10, 64)
	if err != nil {
		return ledger.Record{}, ledger.Line{}, fmt.Errorf("read ledger: bad line total %q: %w", row[7], err)
	}
	total, err := strconv.ParseInt(row[8], 10, 64)
	if err != nil {
		return ledger.Record{}, ledger.Line{}, fmt.Errorf("read ledger: bad total %q: %w", row[8], err)
	}

	rec := ledger.Record{
		ID:         row[0],
		Time:       at,
		CustomerID: row[2],
		Total:      total,
		RawMessage: row[9],
	}
	line := ledger.Line{
		ProductCode: row[3],
		DisplayName: row[4],
		Quantity:    qty,
		UnitPrice:   unit,
		LineTotal:   lineTotal,
	}
	return rec, line, nil
}
