// Package engine implements the chit order engine.
//
// The engine is the single writer over the journal and projection. It
// ingests submissions, stamps them with identity and logical time,
// appends them to the journal, and maintains the derived board.
//
// ARCHITECTURE:
//
// Journal-First Writes:
// Ingestion appends to the journal before touching the projection. The
// journal is the source of truth; the projection is derived state that a
// rebuild can reconstruct from the journal at any time. A crash between
// the journal write and the projection write loses nothing - the next
// rebuild closes the gap.
//
// Ingestion Flow:
// 1. Reject while paused (typed UNAVAILABLE error)
// 2. Validate the submission shape
// 3. Stamp seq (logical clock), ticket, and wall-clock timestamp
// 4. Append to journal (idempotent via content-addressed ID)
// 5. Materialize the board row and recompute totals from all rows
//
// The engine is designed for correctness and determinism, not throughput.
// A mutex serializes Submit and Rebuild; commands are one-shot CLI
// operations, so there is no event loop to keep hot.
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// Every journal entry is stamped with a monotonic seq from Clock.Next().
// Replay order comes from seq, never from wall-clock timestamps.
//
// Deterministic Replay:
// Rebuild walks the journal in ORDER BY seq, id order and recomputes
// every row with the entry's original timestamp. Two rebuilds of the
// same journal produce byte-identical boards.
package engine
