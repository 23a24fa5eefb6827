package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/chit/internal/engine"
	"github.com/roach88/chit/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string         // Assertion type for categorization
	Expected string         // Human-readable expected outcome
	Actual   string         // Human-readable actual outcome
	Receipts []ReceiptEvent // Full submission trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	// Header with assertion type
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)

	// Expected vs Actual (most important info)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	// Submission trace for context
	if len(e.Receipts) > 0 {
		fmt.Fprintf(&buf, "\nSubmissions:\n")
		for i, event := range e.Receipts {
			if event.Error != "" {
				fmt.Fprintf(&buf, "  [%d] %s %s (%s)\n", i+1, event.Ticket, event.Outcome, event.Error)
			} else {
				fmt.Fprintf(&buf, "  [%d] %s %s seq=%d\n", i+1, event.Ticket, event.Outcome, event.Seq)
			}
		}
	}

	return buf.String()
}

// columnIndex finds a column by name. Returns -1 when absent.
func columnIndex(board engine.Board, name string) int {
	for i, col := range board.Columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// columnNames lists the board's column names in order.
func columnNames(board engine.Board) []string {
	names := make([]string, len(board.Columns))
	for i, col := range board.Columns {
		names[i] = col.Name
	}
	return names
}

// assertRowCount checks the board has exactly the expected number of
// data rows. The totals row is not a data row.
func assertRowCount(result *Result, assertion Assertion) error {
	if len(result.Board.Rows) != assertion.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d board rows", assertion.Count),
			Actual:   fmt.Sprintf("%d board rows", len(result.Board.Rows)),
			Receipts: result.Receipts,
		}
	}
	return nil
}

// assertOrderCount checks the journal holds exactly the expected number
// of orders. Deduplicated submissions do not add journal entries, so
// this can be lower than the number of order steps.
func assertOrderCount(ctx context.Context, st *store.Store, result *Result, assertion Assertion) error {
	count, err := st.CountOrders(ctx)
	if err != nil {
		return fmt.Errorf("count orders: %w", err)
	}

	if count != int64(assertion.Count) {
		return &AssertionError{
			Type:     AssertOrderCount,
			Expected: fmt.Sprintf("%d journaled orders", assertion.Count),
			Actual:   fmt.Sprintf("%d journaled orders", count),
			Receipts: result.Receipts,
		}
	}
	return nil
}

// assertCell checks one board cell, addressed by 1-based row number and
// column name.
func assertCell(result *Result, assertion Assertion) error {
	board := result.Board

	idx := columnIndex(board, assertion.Column)
	if idx < 0 {
		return &AssertionError{
			Type:     AssertCell,
			Expected: fmt.Sprintf("column %q to exist", assertion.Column),
			Actual:   fmt.Sprintf("columns are %v", columnNames(board)),
			Receipts: result.Receipts,
		}
	}

	if assertion.Row > len(board.Rows) {
		return &AssertionError{
			Type:     AssertCell,
			Expected: fmt.Sprintf("row %d to exist", assertion.Row),
			Actual:   fmt.Sprintf("board has %d rows", len(board.Rows)),
			Receipts: result.Receipts,
		}
	}
	cells := board.Rows[assertion.Row-1].Cells

	// Rows materialized under an older schema can be shorter than the
	// current column list
	actual := ""
	if idx < len(cells) {
		actual = cells[idx]
	}

	if actual != assertion.Value {
		return &AssertionError{
			Type:     AssertCell,
			Expected: fmt.Sprintf("row %d column %q = %q", assertion.Row, assertion.Column, assertion.Value),
			Actual:   fmt.Sprintf("%q", actual),
			Receipts: result.Receipts,
		}
	}
	return nil
}

// assertTotalsCell checks one cell of the totals row by column name.
func assertTotalsCell(result *Result, assertion Assertion) error {
	board := result.Board

	if board.Totals == nil {
		return &AssertionError{
			Type:     AssertTotalsCell,
			Expected: "a totals row",
			Actual:   "board has no totals row",
			Receipts: result.Receipts,
		}
	}

	idx := columnIndex(board, assertion.Column)
	if idx < 0 {
		return &AssertionError{
			Type:     AssertTotalsCell,
			Expected: fmt.Sprintf("column %q to exist", assertion.Column),
			Actual:   fmt.Sprintf("columns are %v", columnNames(board)),
			Receipts: result.Receipts,
		}
	}

	actual := ""
	if idx < len(board.Totals) {
		actual = board.Totals[idx]
	}

	if actual != assertion.Value {
		return &AssertionError{
			Type:     AssertTotalsCell,
			Expected: fmt.Sprintf("totals column %q = %q", assertion.Column, assertion.Value),
			Actual:   fmt.Sprintf("%q", actual),
			Receipts: result.Receipts,
		}
	}
	return nil
}

// assertColumns checks the full column schema by name, in order.
func assertColumns(result *Result, assertion Assertion) error {
	names := columnNames(result.Board)

	match := len(names) == len(assertion.Columns)
	if match {
		for i := range names {
			if names[i] != assertion.Columns[i] {
				match = false
				break
			}
		}
	}

	if !match {
		return &AssertionError{
			Type:     AssertColumns,
			Expected: fmt.Sprintf("columns %v", assertion.Columns),
			Actual:   fmt.Sprintf("columns %v", names),
			Receipts: result.Receipts,
		}
	}
	return nil
}

// assertRebuildCounts checks the rebuild report's replayed and skipped
// counts. Fails when the scenario never ran a rebuild.
func assertRebuildCounts(result *Result, assertion Assertion) error {
	if result.Rebuild == nil {
		return &AssertionError{
			Type:     AssertRebuildCounts,
			Expected: "a rebuild report",
			Actual:   "scenario has no rebuild step",
			Receipts: result.Receipts,
		}
	}

	if result.Rebuild.Replayed != assertion.Replayed || result.Rebuild.Skipped != assertion.Skipped {
		return &AssertionError{
			Type:     AssertRebuildCounts,
			Expected: fmt.Sprintf("replayed=%d skipped=%d", assertion.Replayed, assertion.Skipped),
			Actual:   fmt.Sprintf("replayed=%d skipped=%d", result.Rebuild.Replayed, result.Rebuild.Skipped),
			Receipts: result.Receipts,
		}
	}
	return nil
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides database access for order_count assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertRowCount:
			err = assertRowCount(result, assertion)
		case AssertOrderCount:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: order_count requires database context", i)
			} else {
				err = assertOrderCount(actx.Ctx, actx.Store, result, assertion)
			}
		case AssertCell:
			err = assertCell(result, assertion)
		case AssertTotalsCell:
			err = assertTotalsCell(result, assertion)
		case AssertColumns:
			err = assertColumns(result, assertion)
		case AssertRebuildCounts:
			err = assertRebuildCounts(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
