package store

import (
	"context"
	"fmt"

	"github.com/roach88/chit/internal/order"
)

// AppendOrder inserts an order record and its per-item rows atomically.
// Returns whether a new record was inserted.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: the ID is a content
// hash, so a retried submission carries the same ID and lands exactly
// once. When the order already exists its order_items rows were written
// by the first attempt, so the whole transaction is a no-op and inserted
// is false. Other constraint violations (e.g. a reused seq) still return
// errors.
//
// The record's Customer and LineItems are serialized to canonical JSON
// per RFC 8785 for deterministic replay.
func (s *Store) AppendOrder(ctx context.Context, rec order.OrderRecord) (inserted bool, err error) {
	customerJSON, err := marshalCustomer(rec.Customer)
	if err != nil {
		return false, fmt.Errorf("append order: %w", err)
	}

	itemsJSON, err := marshalLineItems(rec.LineItems)
	if err != nil {
		return false, fmt.Errorf("append order: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("append order: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders
		(id, ticket, seq, submitted_at, customer, line_items, engine_version, record_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Ticket,
		rec.Seq,
		rec.SubmittedAtWire(),
		customerJSON,
		itemsJSON,
		rec.EngineVersion,
		rec.RecordVersion,
	)
	if err != nil {
		return false, fmt.Errorf("append order: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("append order: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Conflict - order already journaled, items included
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("append order: commit (existing): %w", err)
		}
		return false, nil
	}

	for _, li := range rec.LineItems {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items
			(order_id, item_name, instance_count)
			VALUES (?, ?, ?)
		`,
			rec.ID,
			li.Item,
			li.InstanceCount(),
		)
		if err != nil {
			return false, fmt.Errorf("append order: insert item %q: %w", li.Item, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("append order: commit: %w", err)
	}

	return true, nil
}

// HasOrder checks if an order with the given ID is already journaled.
// Used for pre-flight dedupe checks before building a full record.
func (s *Store) HasOrder(ctx context.Context, id string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders WHERE id = ?
	`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check order: %w", err)
	}
	return count > 0, nil
}
