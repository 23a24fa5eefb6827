package projection

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/chit/internal/order"
)

// Aggregate rolls one options column's cells into a frequency-ranked
// totals string: "2x(egg, croissant), 1x(no egg, muffin)".
//
// Tuples are counted by their exact string, parentheses and interior
// spacing included - no normalization, so "(egg)" and "(Egg)" stay
// distinct. Ranking is by count descending; ties keep first-seen order,
// which a stable sort over the accumulation order preserves. Empty input
// yields ""; rendering a placeholder for that is the board's job, not
// this function's.
func Aggregate(values []string) string {
	counts := make(map[string]int)
	var seen []string
	for _, v := range values {
		for _, tuple := range order.DecodeTuples(v) {
			if counts[tuple] == 0 {
				seen = append(seen, tuple)
			}
			counts[tuple]++
		}
	}
	if len(seen) == 0 {
		return ""
	}

	sort.SliceStable(seen, func(i, j int) bool {
		return counts[seen[i]] > counts[seen[j]]
	})

	parts := make([]string, len(seen))
	for i, tuple := range seen {
		parts[i] = fmt.Sprintf("%dx%s", counts[tuple], tuple)
	}
	return strings.Join(parts, ", ")
}

// BuildTotalsCells renders the synthetic totals row for the given data
// rows. The totals row is not an order: it is excluded from aggregation
// input by construction (callers pass data rows only) and never counted
// as one.
//
// Base cells: date holds the TOTAL marker, name holds the order count,
// the rest stay blank. Count cells sum the column (blank when zero, like
// data rows). Options cells hold the Aggregate of the column.
func BuildTotalsCells(cols []Column, rows [][]string) []string {
	cells := make([]string, len(cols))
	for i, col := range cols {
		switch col.Kind {
		case KindBase:
			switch col.Name {
			case "date":
				cells[i] = "TOTAL"
			case "name":
				cells[i] = orderCountLabel(len(rows))
			}
		case KindCount:
			var sum int64
			for _, row := range rows {
				if i >= len(row) || row[i] == "" {
					continue
				}
				n, err := strconv.ParseInt(row[i], 10, 64)
				if err != nil {
					continue
				}
				sum += n
			}
			if sum > 0 {
				cells[i] = strconv.FormatInt(sum, 10)
			}
		case KindOptions:
			var values []string
			for _, row := range rows {
				if i < len(row) {
					values = append(values, row[i])
				}
			}
			cells[i] = Aggregate(values)
		}
	}
	return cells
}

func orderCountLabel(n int) string {
	if n == 1 {
		return "1 order"
	}
	return fmt.Sprintf("%d orders", n)
}
