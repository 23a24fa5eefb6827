package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/roach88/chit/internal/catalog"
	"github.com/roach88/chit/internal/store"
)

// TicketGenerator generates unique submission tickets for order correlation.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
// See ticket.go for implementations.
type TicketGenerator interface {
	Generate() string
}

// Config carries the explicit runtime toggles the engine honors.
//
// Paused state is passed in here, never read from the environment inside
// the engine. The caller (CLI, harness) resolves configuration and hands
// the engine a settled value.
type Config struct {
	// Paused rejects every submission with an UNAVAILABLE error while set.
	// Reads and rebuilds stay available.
	Paused bool
}

// Engine is the single writer over the journal and projection.
//
// The engine ingests submissions, stamps them with identity and logical
// time, appends them to the journal, and maintains the derived board.
//
// Thread-safety model:
//   - Submit/SubmitTicketed: safe from any goroutine (mutex-serialized)
//   - Rebuild/Verify: safe from any goroutine (same mutex)
//
// INVARIANTS:
//   - The journal is written before the projection on every ingest
//   - Projection row order equals journal order for the rows it contains
//   - Seq values are strictly increasing within one engine lifetime
type Engine struct {
	store   *store.Store
	catalog *catalog.Catalog
	clock   *Clock
	tickets TicketGenerator
	now     func() time.Time
	cfg     Config

	// mu serializes all mutation. Commands are one-shot CLI operations,
	// so a mutex is enough; there is no event loop to keep hot.
	mu sync.Mutex
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithNow overrides the wall-clock source used to stamp submissions.
//
// Default: time.Now
// Tests and the scenario harness pass a deterministic clock function so
// output is reproducible.
func WithNow(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithTicketGenerator overrides the submission ticket source.
//
// Default: UUIDv7Generator
// Tests pass a FixedGenerator for deterministic tickets.
func WithTicketGenerator(gen TicketGenerator) EngineOption {
	return func(e *Engine) {
		e.tickets = gen
	}
}

// New creates an Engine with the given store, catalog, and config.
//
// The logical clock starts at 0, which is only correct for a fresh
// journal. Production callers resuming over an existing journal should
// use Resume instead.
//
// Options can be passed to configure the engine (e.g., WithNow).
func New(s *store.Store, cat *catalog.Catalog, cfg Config, opts ...EngineOption) *Engine {
	return NewWithClock(s, cat, cfg, NewClock(), opts...)
}

// NewWithClock creates an Engine with a pre-configured clock.
// Used by tests that need explicit control over sequence numbers.
//
// Options can be passed to configure the engine (e.g., WithNow).
func NewWithClock(s *store.Store, cat *catalog.Catalog, cfg Config, clock *Clock, opts ...EngineOption) *Engine {
	e := &Engine{
		store:   s,
		catalog: cat,
		clock:   clock,
		tickets: UUIDv7Generator{},
		now:     time.Now,
		cfg:     cfg,
	}

	// Apply options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Resume creates an Engine whose logical clock continues from the
// journal's highest seq. This is the production constructor: every CLI
// command that ingests goes through here so seq values never repeat
// across process restarts.
func Resume(ctx context.Context, s *store.Store, cat *catalog.Catalog, cfg Config, opts ...EngineOption) (*Engine, error) {
	lastSeq, err := s.GetLastSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("resume clock: %w", err)
	}
	return NewWithClock(s, cat, cfg, NewClockAt(lastSeq), opts...), nil
}

// NewTicket generates a new submission ticket.
// Thread-safe: may be called from any goroutine.
//
// Each external submission should carry one ticket. Retrying a failed
// submission with the SAME ticket lets the journal absorb the duplicate
// instead of recording the order twice.
func (e *Engine) NewTicket() string {
	return e.tickets.Generate()
}
