// Package store provides SQLite-backed durable storage for the chit order
// journal and its derived projection.
//
// The store holds two kinds of state:
//   - Journal: orders and order_items, append-only. The source of truth.
//     Rows are inserted once and never updated or deleted.
//   - Projection: projection_columns, projection_rows, projection_totals.
//     Derived board state, rebuildable from the journal at any time.
//
// # Critical Patterns
//
// Content-addressed idempotency
//   - Order IDs are content hashes; AppendOrder uses ON CONFLICT(id) DO
//     NOTHING so a retried submission lands exactly once
//
// Logical identity and time
//   - All ordering uses seq INTEGER (logical clock), never timestamps
//   - submitted_at is display data, not an ordering key
//
// Deterministic query results
//   - Journal reads order by: seq ASC, id COLLATE BINARY ASC
//   - Ensures identical replay input across rebuilds
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Order IDs are computed in internal/order/hash.go using RFC 8785 canonical
// JSON and SHA-256 with domain separation.
package store
