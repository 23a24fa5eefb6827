package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/chit/internal/projection"
	"github.com/roach88/chit/internal/store"
)

// Board is a complete projection snapshot: the column schema, every data
// row in journal order, and the totals row.
//
// Totals is nil when no totals row has been computed yet (fresh store
// with no submissions).
type Board struct {
	Columns []projection.Column   `json:"columns"`
	Rows    []store.ProjectionRow `json:"rows"`
	Totals  []string              `json:"totals,omitempty"`
}

// Snapshot reads the current projection from the store.
//
// Reads do not need an Engine; the CLI board command and the verify path
// both call this directly.
func Snapshot(ctx context.Context, s *store.Store) (Board, error) {
	cols, err := s.Columns(ctx)
	if err != nil {
		return Board{}, fmt.Errorf("read columns: %w", err)
	}

	rows, err := s.ReadRows(ctx)
	if err != nil {
		return Board{}, fmt.Errorf("read rows: %w", err)
	}

	totals, err := s.ReadTotalsRow(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Board{Columns: cols, Rows: rows}, nil
		}
		return Board{}, fmt.Errorf("read totals: %w", err)
	}

	return Board{Columns: cols, Rows: rows, Totals: totals}, nil
}
