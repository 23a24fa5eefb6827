package testutil

import (
	"fmt"
	"sync"
)

// FixedTicketGenerator generates predictable tickets for tests.
//
// Tickets come out as "<prefix>-0001", "<prefix>-0002", and so on. The
// same scenario with the same generator produces byte-identical journals.
//
// Unlike engine.FixedGenerator, which takes an explicit finite list and
// panics when exhausted, this generator never runs out. Scenario runners
// do not know their submission counts up front.
//
// Thread-safety: FixedTicketGenerator is safe for concurrent use via
// internal mutex.
type FixedTicketGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int64
}

// NewFixedTicketGenerator creates a sequential ticket generator.
//
// If prefix is empty, "test-ticket" is used.
func NewFixedTicketGenerator(prefix string) *FixedTicketGenerator {
	if prefix == "" {
		prefix = "test-ticket"
	}
	return &FixedTicketGenerator{prefix: prefix}
}

// Generate returns the next ticket in sequence.
//
// Implements engine.TicketGenerator.
func (g *FixedTicketGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}

// Reset rewinds the sequence.
//
// Used for test reuse. After Reset(), the next Generate() returns
// "<prefix>-0001" again.
func (g *FixedTicketGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
