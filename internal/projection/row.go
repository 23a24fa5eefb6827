package projection

import (
	"strconv"
	"time"

	"github.com/roach88/chit/internal/order"
)

// dateCellLayout renders the order timestamp for the board. UTC with
// second precision so replaying a journal entry reproduces the cell
// byte-for-byte regardless of where or when the replay runs.
const dateCellLayout = "2006-01-02 15:04:05"

// BuildCells renders one order as board cells aligned with cols.
//
// Count cells hold the item's instance count; zero renders as a blank
// cell, not "0", so the board stays readable. Options cells hold tuple
// notation for the item's instances across all of the order's line items,
// in order. Line items whose names match no column are dropped silently;
// the journal still holds them and a schema rebuild recovers them.
func BuildCells(cols []Column, rec order.OrderRecord) []string {
	counts := make(map[string]int64)
	instances := make(map[string][]order.Instance)
	for _, li := range rec.LineItems {
		counts[li.Item] += li.InstanceCount()
		instances[li.Item] = append(instances[li.Item], li.Instances...)
	}

	cells := make([]string, len(cols))
	for i, col := range cols {
		switch col.Kind {
		case KindBase:
			cells[i] = baseCell(col.Name, rec)
		case KindCount:
			if n := counts[col.Item]; n > 0 {
				cells[i] = strconv.FormatInt(n, 10)
			}
		case KindOptions:
			cells[i] = order.EncodeInstances(instances[col.Item])
		}
	}
	return cells
}

// DroppedItems returns the line item names in rec that match no count
// column in cols, first-seen order, each name once. These are the items
// BuildCells drops: a schema built before a menu change has no column
// for them. Callers that want the drop visible log the result; the
// build itself stays silent.
func DroppedItems(cols []Column, rec order.OrderRecord) []string {
	known := make(map[string]bool)
	for _, col := range cols {
		if col.Kind == KindCount {
			known[col.Item] = true
		}
	}

	var dropped []string
	seen := make(map[string]bool)
	for _, li := range rec.LineItems {
		if known[li.Item] || seen[li.Item] {
			continue
		}
		seen[li.Item] = true
		dropped = append(dropped, li.Item)
	}
	return dropped
}

// baseCell maps a base column name to its customer field.
func baseCell(name string, rec order.OrderRecord) string {
	switch name {
	case "date":
		return rec.SubmittedAt.UTC().Truncate(time.Second).Format(dateCellLayout)
	case "name":
		return rec.Customer.Name
	case "phone":
		return rec.Customer.Phone
	case "delivery":
		return rec.Customer.Delivery
	case "email":
		return rec.Customer.Email
	default:
		return ""
	}
}
