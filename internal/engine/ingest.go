package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/chit/internal/order"
	"github.com/roach88/chit/internal/projection"
)

// Receipt reports the outcome of one accepted submission.
type Receipt struct {
	// OrderID is the content-addressed journal key.
	OrderID string `json:"order_id"`

	// Ticket correlates the submission with its journal entry.
	Ticket string `json:"ticket"`

	// Seq is the journal position of the order.
	Seq int64 `json:"seq"`

	// Deduplicated is true when the journal already held an identical
	// submission and this one was absorbed without a new entry.
	Deduplicated bool `json:"deduplicated,omitempty"`
}

// Submit ingests one order under a freshly generated ticket.
//
// See SubmitTicketed for the full ingestion contract.
func (e *Engine) Submit(ctx context.Context, sub order.Submission) (Receipt, error) {
	return e.SubmitTicketed(ctx, e.tickets.Generate(), sub)
}

// SubmitTicketed ingests one order under a caller-supplied ticket.
// Retrying a submission with the same ticket is safe: the journal absorbs
// the duplicate and the receipt reports Deduplicated.
//
// The ingestion order is fixed:
//  1. Reject while paused (typed UNAVAILABLE error)
//  2. Validate the submission shape (typed BAD_SUBMISSION error)
//  3. Stamp seq, ticket, and wall-clock timestamp
//  4. Append to the journal - durable before any projection write
//  5. Materialize the board row and recompute totals
//
// A failure after step 4 leaves the journal correct and the projection
// behind; the next rebuild closes the gap.
func (e *Engine) SubmitTicketed(ctx context.Context, ticket string, sub order.Submission) (Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cfg.Paused {
		return Receipt{}, NewUnavailableError()
	}
	if err := sub.Validate(); err != nil {
		return Receipt{}, NewBadSubmissionError(ticket, err.Error())
	}

	// Second precision at the boundary keeps the hashed timestamp and the
	// stored timestamp identical.
	submittedAt := e.now().UTC().Truncate(time.Second)

	rec := order.OrderRecord{
		Ticket:        ticket,
		Seq:           e.clock.Next(),
		SubmittedAt:   submittedAt,
		Customer:      sub.Customer,
		LineItems:     sub.Items,
		EngineVersion: order.EngineVersion,
		RecordVersion: order.RecordVersion,
	}

	id, err := order.OrderID(ticket, rec.SubmittedAtWire(), rec.Customer, rec.LineItems)
	if err != nil {
		return Receipt{}, fmt.Errorf("compute order id: %w", err)
	}
	rec.ID = id

	inserted, err := e.store.AppendOrder(ctx, rec)
	if err != nil {
		return Receipt{}, fmt.Errorf("append order: %w", err)
	}
	if !inserted {
		// A retry of an identical submission. The first attempt owns the
		// journal entry and projection row; report its seq, not the one
		// this attempt burned.
		existing, err := e.store.ReadOrder(ctx, rec.ID)
		if err != nil {
			return Receipt{}, fmt.Errorf("read deduplicated order: %w", err)
		}
		slog.Info("duplicate submission absorbed",
			"order_id", rec.ID, "ticket", ticket, "seq", existing.Seq)
		return Receipt{OrderID: rec.ID, Ticket: ticket, Seq: existing.Seq, Deduplicated: true}, nil
	}

	if err := e.materializeRow(ctx, rec); err != nil {
		return Receipt{}, err
	}

	slog.Info("order appended",
		"order_id", rec.ID, "ticket", ticket, "seq", rec.Seq,
		"customer", rec.Customer.Name, "items", len(rec.LineItems))
	return Receipt{OrderID: rec.ID, Ticket: ticket, Seq: rec.Seq}, nil
}

// materializeRow builds and appends the projection row for rec, then
// recomputes the totals row from a full rescan of data rows.
//
// The row is built against the STORED column schema, which may predate
// the current catalog. Items the stored schema does not know are dropped
// from the row (the journal still holds them); a rebuild under the fresh
// schema recovers them.
func (e *Engine) materializeRow(ctx context.Context, rec order.OrderRecord) error {
	cols, err := e.ensureColumns(ctx)
	if err != nil {
		return err
	}

	for _, item := range projection.DroppedItems(cols, rec) {
		slog.Warn("line item matched no column, dropped from board",
			"item", item, "order_id", rec.ID)
	}

	cells := projection.BuildCells(cols, rec)
	if err := e.store.AppendRow(ctx, rec.ID, rec.Seq, cells); err != nil {
		return fmt.Errorf("append row: %w", err)
	}

	return e.refreshTotals(ctx, cols)
}

// ensureColumns returns the stored column schema, deriving and storing
// one from the catalog when the projection has none yet.
func (e *Engine) ensureColumns(ctx context.Context) ([]projection.Column, error) {
	cols, err := e.store.Columns(ctx)
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	if len(cols) > 0 {
		return cols, nil
	}

	cols = projection.BuildColumns(e.catalog)
	if err := e.store.SetColumns(ctx, cols); err != nil {
		return nil, fmt.Errorf("store columns: %w", err)
	}
	return cols, nil
}

// refreshTotals recomputes the totals row from every data row and
// replaces the stored one.
func (e *Engine) refreshTotals(ctx context.Context, cols []projection.Column) error {
	rows, err := e.store.ReadRows(ctx)
	if err != nil {
		return fmt.Errorf("read rows: %w", err)
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.Cells
	}

	totals := projection.BuildTotalsCells(cols, cells)
	if err := e.store.ReplaceTotalsRow(ctx, totals); err != nil {
		return fmt.Errorf("replace totals: %w", err)
	}
	return nil
}
