package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/orderdesk/orderdesk/pkg/orderdesk/internalerr"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger"
)

// sqliteLedger implements ledger.Ledger on SQLite.
type sqliteLedger struct {
	db *sql.DB
}

// Open opens a SQLite ledger with WAL mode enabled and creates the
// schema if needed. The connection pool is capped at one connection so
// concurrent appends queue instead of hitting SQLITE_BUSY.
func Open(ctx context.Context, path string) (ledger.Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteLedger{db: db}, nil
}

// Close closes the database connection.
func (l *sqliteLedger) Close() error {
	return l.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	customer_id TEXT NOT NULL,
	total INTEGER NOT NULL,
	raw_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id);

CREATE TABLE IF NOT EXISTS order_lines (
	order_id TEXT NOT NULL,
	pos INTEGER NOT NULL,
	product_code TEXT NOT NULL,
	display_name TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	unit_price INTEGER NOT NULL,
	line_total INTEGER NOT NULL,
	PRIMARY KEY(order_id, pos),
	FOREIGN KEY(order_id) REFERENCES orders(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Append writes one record in a single transaction.
func (l *sqliteLedger) Append(ctx context.Context, r ledger.Record) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrLedgerWrite, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, created_at, customer_id, total, raw_message) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Time.UTC().Format(time.RFC3339), r.CustomerID, r.Total, r.RawMessage,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrLedgerWrite, err)
	}

	for i, line := range r.Lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_lines (order_id, pos, product_code, display_name, quantity, unit_price, line_total)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, i, line.ProductCode, line.DisplayName, line.Quantity, line.UnitPrice, line.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("%w: %v", internalerr.ErrLedgerWrite, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrLedgerWrite, err)
	}
	return nil
}

// ReadAll returns every record in append order.
func (l *sqliteLedger) ReadAll(ctx context.Context) ([]ledger.Record, error) {
	return l.read(ctx,
		`SELECT id, created_at, customer_id, total, raw_message FROM orders ORDER BY rowid`)
}

// ReadByCustomer returns one customer's records in append order.
func (l *sqliteLedger) ReadByCustomer(ctx context.Context, customerID string) ([]ledger.Record, error) {
	return l.read(ctx,
		`SELECT id, created_at, customer_id, total, raw_message FROM orders WHERE customer_id = ? ORDER BY rowid`,
		customerID)
}

func (l *sqliteLedger) read(ctx context.Context, query string, args ...any) ([]ledger.Record, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ledger.Record
	for rows.Next() {
		var r ledger.Record
		var createdAt string
		if err := rows.Scan(&r.ID, &createdAt, &r.CustomerID, &r.Total, &r.RawMessage); err != nil {
			return nil, err
		}
		r.Time, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("bad created_at for order %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].Lines, err = l.readLines(ctx, records[i].ID); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (l *sqliteLedger) readLines(ctx context.Context, orderID string) ([]ledger.Line, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT product_code, display_name, quantity, unit_price, line_total
		 FROM order_lines WHERE order_id = ? ORDER BY pos`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []ledger.Line
	for rows.Next() {
		var line ledger.Line
		if err := rows.Scan(&line.ProductCode, &line.DisplayName, &line.Quantity, &line.UnitPrice, &line.LineTotal); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
