// Package filtersql compiles filter ASTs to parameterized SQL for SQLite.
//
// The compiler emits WHERE-clause fragments over the orders journal. Every
// fragment references the orders table through the alias "o"; the store's
// query builder provides that alias and owns SELECT, FROM and ORDER BY.
// Item containment compiles to an EXISTS probe against the denormalized
// order_items table so no fragment ever parses line-item JSON.
package filtersql

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/chit/internal/filter"
)

// SQLCompiler compiles filter trees to parameterized SQL fragments.
//
// CRITICAL: All values are parameterized (never interpolated). Item names,
// delivery modes and timestamps come from user flags and must reach SQLite
// only as ? placeholders.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a filter to a WHERE-clause fragment.
// Returns (sql, params, error) tuple.
//
// A nil filter compiles to "1 = 1" (always true), so callers can splice the
// result into a WHERE clause unconditionally.
func (c *SQLCompiler) Compile(f filter.Filter) (string, []any, error) {
	if f == nil {
		return "1 = 1", nil, nil // Always true
	}

	switch node := f.(type) {
	case filter.ItemIs:
		return c.compileItemIs(node)
	case *filter.ItemIs:
		return c.compileItemIs(*node)
	case filter.DeliveryIs:
		return c.compileDeliveryIs(node)
	case *filter.DeliveryIs:
		return c.compileDeliveryIs(*node)
	case filter.Since:
		return c.compileSince(node)
	case *filter.Since:
		return c.compileSince(*node)
	case filter.Until:
		return c.compileUntil(node)
	case *filter.Until:
		return c.compileUntil(*node)
	case filter.And:
		return c.compileAnd(node)
	case *filter.And:
		return c.compileAnd(*node)
	default:
		return "", nil, fmt.Errorf("unsupported filter type: %T", f)
	}
}

// compileItemIs compiles item containment to an EXISTS probe.
//
// order_items holds one row per journaled line item, so containment never
// parses the line_items JSON blob. The probe matches any instance count,
// including zero-instance line items that were journaled with the order.
func (c *SQLCompiler) compileItemIs(node filter.ItemIs) (string, []any, error) {
	sql := "EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id AND oi.item_name = ?)"
	return sql, []any{node.Name}, nil
}

// compileDeliveryIs compiles delivery mode equality.
//
// Delivery is a scalar key in the customer JSON blob. json_extract is a
// core builtin in the SQLite versions bundled with mattn/go-sqlite3, and a
// single key lookup on a flat object needs no denormalized table.
func (c *SQLCompiler) compileDeliveryIs(node filter.DeliveryIs) (string, []any, error) {
	sql := "json_extract(o.customer, '$.delivery') = ?"
	return sql, []any{node.Mode}, nil
}

// compileSince compiles the inclusive lower time bound.
//
// Stored timestamps are RFC 3339 UTC at second precision, which orders
// lexicographically the same as chronologically, so plain string
// comparison is exact.
func (c *SQLCompiler) compileSince(node filter.Since) (string, []any, error) {
	return "o.submitted_at >= ?", []any{wireTime(node.Time)}, nil
}

// compileUntil compiles the exclusive upper time bound.
func (c *SQLCompiler) compileUntil(node filter.Until) (string, []any, error) {
	return "o.submitted_at < ?", []any{wireTime(node.Time)}, nil
}

// compileAnd compiles a conjunction by joining fragments with AND.
// Parentheses are unnecessary: AND is the only connective in the fragment.
func (c *SQLCompiler) compileAnd(node filter.And) (string, []any, error) {
	if len(node.Filters) == 0 {
		return "1 = 1", nil, nil // Always true (vacuous truth)
	}

	var sqlParts []string
	var allParams []any

	for _, inner := range node.Filters {
		sql, params, err := c.Compile(inner)
		if err != nil {
			return "", nil, err
		}
		sqlParts = append(sqlParts, sql)
		allParams = append(allParams, params...)
	}

	return strings.Join(sqlParts, " AND "), allParams, nil
}

// wireTime renders a time the way the journal stores submitted_at:
// RFC 3339 UTC, truncated to the second. Filter bounds must compare in the
// stored form or sub-second inputs would miss exact-second rows.
func wireTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}
