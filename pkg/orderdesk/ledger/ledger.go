package ledger

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Line is one priced order line as persisted.
type Line struct {
	ProductCode string
	DisplayName string
	Quantity    int
	UnitPrice   int64
	LineTotal   int64
}

// Record is one accepted order. Records are append-only: once written
// they are never mutated or deleted.
type Record struct {
	ID         string
	Time       time.Time
	CustomerID string
	Lines      []Line
	Total      int64
	RawMessage string
}

// Ledger is an ordered durable sequence of records shared by all
// concurrent requests. Append must be atomic per record: concurrent
// appends may interleave in any order but a record is never torn, and
// once Append returns nil the record is durable. Reads return records
// in append order, most recent last.
type Ledger interface {
	Append(ctx context.Context, r Record) error
	ReadAll(ctx context.Context) ([]Record, error)
	ReadByCustomer(ctx context.Context, customerID string) ([]Record, error)
	Close() error
}

// NewRecord assembles a record and computes its total.
func NewRecord(id string, at time.Time, customerID string, lines []Line, raw string) Record {
	r := Record{
		ID:         id,
		Time:       at,
		CustomerID: customerID,
		Lines:      lines,
		RawMessage: raw,
	}
	for _, l := range lines {
		r.Total += l.LineTotal
	}
	return r
}

// IDSource mints ULID record identifiers. Monotonic entropy keeps IDs
// sortable within one process; the mutex makes minting safe across
// concurrent requests.
type IDSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDSource creates an ID source backed by crypto/rand.
func NewIDSource() *IDSource {
	return &IDSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// NewID returns a fresh ULID string.
func (s *IDSource) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Now(), s.entropy).String()
}
