package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/chit/internal/order"
)

// ReadAllOrders returns every journaled order with deterministic ordering.
// This is the replay input: results ordered by seq ASC, id COLLATE BINARY
// ASC so every rebuild walks the journal in the identical order.
//
// Returns an empty slice (not nil) if the journal is empty.
func (s *Store) ReadAllOrders(ctx context.Context) ([]order.OrderRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ticket, seq, submitted_at, customer, line_items, engine_version, record_version
		FROM orders
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query all orders: %w", err)
	}
	defer rows.Close()

	var records []order.OrderRecord
	for rows.Next() {
		rec, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	// Return empty slice instead of nil
	if records == nil {
		records = []order.OrderRecord{}
	}

	return records, nil
}

// ReadOrdersWhere returns journaled orders matching a compiled filter
// clause, with the same deterministic ordering as ReadAllOrders. The
// where argument is a SQL boolean expression over the orders table (with
// alias o); an empty where matches everything.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ReadOrdersWhere(ctx context.Context, where string, args ...any) ([]order.OrderRecord, error) {
	query := `
		SELECT o.id, o.ticket, o.seq, o.submitted_at, o.customer, o.line_items, o.engine_version, o.record_version
		FROM orders o
	`
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY o.seq ASC, o.id COLLATE BINARY ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var records []order.OrderRecord
	for rows.Next() {
		rec, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	if records == nil {
		records = []order.OrderRecord{}
	}

	return records, nil
}

// JournalEntry is one raw journal row, undecoded. The rebuild path reads
// entries instead of records so one corrupt payload skips a single entry
// rather than failing the whole replay.
type JournalEntry struct {
	ID            string
	Ticket        string
	Seq           int64
	SubmittedAt   string
	CustomerJSON  string
	LineItemsJSON string
	EngineVersion string
	RecordVersion string
}

// Decode parses the raw TEXT payloads into an OrderRecord.
func (e JournalEntry) Decode() (order.OrderRecord, error) {
	rec := order.OrderRecord{
		ID:            e.ID,
		Ticket:        e.Ticket,
		Seq:           e.Seq,
		EngineVersion: e.EngineVersion,
		RecordVersion: e.RecordVersion,
	}
	return finishOrder(rec, e.SubmittedAt, e.CustomerJSON, e.LineItemsJSON)
}

// ReadAllEntries returns every journal row raw, in the same deterministic
// order as ReadAllOrders. Decoding is deferred to JournalEntry.Decode so
// callers can skip and count entries that no longer parse.
//
// Returns an empty slice (not nil) if the journal is empty.
func (s *Store) ReadAllEntries(ctx context.Context) ([]JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ticket, seq, submitted_at, customer, line_items, engine_version, record_version
		FROM orders
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query all entries: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(
			&e.ID, &e.Ticket, &e.Seq, &e.SubmittedAt,
			&e.CustomerJSON, &e.LineItemsJSON, &e.EngineVersion, &e.RecordVersion,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	if entries == nil {
		entries = []JournalEntry{}
	}

	return entries, nil
}

// ReadOrder retrieves a single order by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadOrder(ctx context.Context, id string) (order.OrderRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, ticket, seq, submitted_at, customer, line_items, engine_version, record_version
		FROM orders
		WHERE id = ?
	`, id)

	return scanOrderRow(row)
}

// GetLastSeq returns the highest seq number used in the journal.
// Used on startup to resume the logical clock from the correct position.
func (s *Store) GetLastSeq(ctx context.Context) (int64, error) {
	var maxSeq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM orders
	`).Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return maxSeq, nil
}

// CountOrders returns the number of journaled orders.
func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

// ListItemNames returns the distinct item names present in the journal.
// Results ordered alphabetically. Used by analysis commands to enumerate
// what has actually been ordered, which may include items no longer on
// the menu.
func (s *Store) ListItemNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT item_name FROM order_items
		ORDER BY item_name
	`)
	if err != nil {
		return nil, fmt.Errorf("list item names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan item name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item names: %w", err)
	}

	if names == nil {
		names = []string{}
	}

	return names, nil
}

// scanOrder scans a row into an OrderRecord.
func scanOrder(rows *sql.Rows) (order.OrderRecord, error) {
	var rec order.OrderRecord
	var submittedAt string
	var customerJSON, itemsJSON string

	if err := rows.Scan(
		&rec.ID, &rec.Ticket, &rec.Seq, &submittedAt,
		&customerJSON, &itemsJSON, &rec.EngineVersion, &rec.RecordVersion,
	); err != nil {
		return order.OrderRecord{}, fmt.Errorf("scan order: %w", err)
	}

	return finishOrder(rec, submittedAt, customerJSON, itemsJSON)
}

// scanOrderRow scans a single row into an OrderRecord.
func scanOrderRow(row *sql.Row) (order.OrderRecord, error) {
	var rec order.OrderRecord
	var submittedAt string
	var customerJSON, itemsJSON string

	if err := row.Scan(
		&rec.ID, &rec.Ticket, &rec.Seq, &submittedAt,
		&customerJSON, &itemsJSON, &rec.EngineVersion, &rec.RecordVersion,
	); err != nil {
		return order.OrderRecord{}, err
	}

	return finishOrder(rec, submittedAt, customerJSON, itemsJSON)
}

// finishOrder parses the TEXT columns shared by both scan paths.
func finishOrder(rec order.OrderRecord, submittedAt, customerJSON, itemsJSON string) (order.OrderRecord, error) {
	ts, err := time.Parse(time.RFC3339, submittedAt)
	if err != nil {
		return order.OrderRecord{}, fmt.Errorf("parse submitted_at %q: %w", submittedAt, err)
	}
	rec.SubmittedAt = ts

	customer, err := unmarshalCustomer(customerJSON)
	if err != nil {
		return order.OrderRecord{}, err
	}
	rec.Customer = customer

	items, err := unmarshalLineItems(itemsJSON)
	if err != nil {
		return order.OrderRecord{}, err
	}
	rec.LineItems = items

	return rec, nil
}
