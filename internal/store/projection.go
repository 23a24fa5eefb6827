package store

import (
	"context"
	"fmt"

	"github.com/roach88/chit/internal/projection"
)

// ProjectionRow is one materialized board row, keyed by the order that
// produced it.
type ProjectionRow struct {
	OrderID string
	Seq     int64
	Cells   []string
}

// Columns returns the stored board columns in position order.
// Returns an empty slice (not nil) if no columns have been set.
func (s *Store) Columns(ctx context.Context) ([]projection.Column, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, item FROM projection_columns
		ORDER BY pos ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var cols []projection.Column
	for rows.Next() {
		var col projection.Column
		var kind string
		if err := rows.Scan(&col.Name, &kind, &col.Item); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		col.Kind = projection.ColumnKind(kind)
		cols = append(cols, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	if cols == nil {
		cols = []projection.Column{}
	}

	return cols, nil
}

// SetColumns replaces the stored board columns atomically.
// Column position is their slice order.
func (s *Store) SetColumns(ctx context.Context, cols []projection.Column) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set columns: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM projection_columns`); err != nil {
		return fmt.Errorf("set columns: clear: %w", err)
	}

	for i, col := range cols {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO projection_columns (pos, name, kind, item)
			VALUES (?, ?, ?, ?)
		`, i, col.Name, string(col.Kind), col.Item)
		if err != nil {
			return fmt.Errorf("set columns: insert %q: %w", col.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set columns: commit: %w", err)
	}

	return nil
}

// AppendRow inserts one materialized board row for an order.
// Uses ON CONFLICT(order_id) DO NOTHING so re-projecting an already
// projected order is a no-op, mirroring the journal's dedupe.
func (s *Store) AppendRow(ctx context.Context, orderID string, seq int64, cells []string) error {
	cellsJSON, err := marshalCells(cells)
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projection_rows (order_id, seq, cells)
		VALUES (?, ?, ?)
		ON CONFLICT(order_id) DO NOTHING
	`, orderID, seq, cellsJSON)
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}

	return nil
}

// ClearRows deletes all board rows and the totals row, leaving the stored
// columns untouched. Rebuilds call this before replaying the journal.
func (s *Store) ClearRows(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("clear rows: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projection_rows`); err != nil {
		return fmt.Errorf("clear rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM projection_totals`); err != nil {
		return fmt.Errorf("clear totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("clear rows: commit: %w", err)
	}

	return nil
}

// ReadRows returns all board rows in journal order (seq ASC).
// Returns an empty slice (not nil) if the board has no rows.
func (s *Store) ReadRows(ctx context.Context) ([]ProjectionRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, seq, cells FROM projection_rows
		ORDER BY seq ASC, order_id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var out []ProjectionRow
	for rows.Next() {
		var r ProjectionRow
		var cellsJSON string
		if err := rows.Scan(&r.OrderID, &r.Seq, &cellsJSON); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		cells, err := unmarshalCells(cellsJSON)
		if err != nil {
			return nil, err
		}
		r.Cells = cells
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	if out == nil {
		out = []ProjectionRow{}
	}

	return out, nil
}

// ReplaceTotalsRow upserts the single totals row.
func (s *Store) ReplaceTotalsRow(ctx context.Context, cells []string) error {
	cellsJSON, err := marshalCells(cells)
	if err != nil {
		return fmt.Errorf("replace totals: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projection_totals (id, cells)
		VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET cells = excluded.cells
	`, cellsJSON)
	if err != nil {
		return fmt.Errorf("replace totals: %w", err)
	}

	return nil
}

// ReadTotalsRow returns the totals row's cells.
// Returns sql.ErrNoRows if no totals row has been written yet.
func (s *Store) ReadTotalsRow(ctx context.Context) ([]string, error) {
	var cellsJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT cells FROM projection_totals WHERE id = 1
	`).Scan(&cellsJSON)
	if err != nil {
		return nil, err
	}
	return unmarshalCells(cellsJSON)
}
