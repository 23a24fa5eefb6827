package engine

import (
	"sync"

	"github.com/google/uuid"
)

// UUIDv7Generator generates time-sortable UUIDv7 tickets.
//
// UUIDv7 embeds a timestamp in the most significant bits, making tickets
// sortable by creation time. This is helpful for debugging and for
// eyeballing a journal dump.
//
// Uses github.com/google/uuid package for RFC 4122 compliant UUIDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Format: "550e8400-e29b-41d4-a716-446655440000" (36 characters)
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined tickets for testing.
//
// This enables deterministic test execution and golden snapshot
// comparison. Tests can provide a known sequence of tickets and verify
// exact journal output.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu      sync.Mutex
	tickets []string
	idx     int
}

// NewFixedGenerator creates a generator that returns tickets in order.
//
// Example:
//
//	gen := NewFixedGenerator("ticket-1", "ticket-2", "ticket-3")
//	gen.Generate() // "ticket-1"
//	gen.Generate() // "ticket-2"
//	gen.Generate() // "ticket-3"
//	gen.Generate() // panic: all tickets exhausted
func NewFixedGenerator(tickets ...string) *FixedGenerator {
	return &FixedGenerator{
		tickets: tickets,
		idx:     0,
	}
}

// Generate returns the next predetermined ticket.
// Thread-safe: uses mutex to protect index access.
//
// Panics if all tickets have been consumed. This is a fail-fast approach
// to catch test misconfiguration (test submitted more orders than expected).
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tickets) {
		panic("FixedGenerator: all tickets exhausted")
	}
	ticket := g.tickets[g.idx]
	g.idx++
	return ticket
}
