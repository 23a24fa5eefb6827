package projection

import (
	"strings"

	"github.com/roach88/chit/internal/catalog"
)

// ColumnKind distinguishes the three column flavors on the board.
type ColumnKind string

const (
	// KindBase columns hold customer fields, one per order row.
	KindBase ColumnKind = "base"
	// KindCount columns hold the instance count for one menu item.
	KindCount ColumnKind = "count"
	// KindOptions columns hold the tuple notation for one menu item.
	KindOptions ColumnKind = "options"
)

// OptionsSuffix is appended to an item's name to form its options column.
const OptionsSuffix = " - options"

// Column is one board column. Item carries the owning menu item's name
// for count and options columns and is empty for base columns.
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
	Item string     `json:"item,omitempty"`
}

// BaseColumns returns the five fixed leading columns every board starts
// with, in their fixed order.
func BaseColumns() []Column {
	return []Column{
		{Name: "date", Kind: KindBase},
		{Name: "name", Kind: KindBase},
		{Name: "phone", Kind: KindBase},
		{Name: "delivery", Kind: KindBase},
		{Name: "email", Kind: KindBase},
	}
}

// BuildColumns derives the full column list from a catalog: the base
// columns, then per item in catalog order a count column, immediately
// followed by an options column when the item has option groups.
//
// Pure function of the catalog: same catalog, same column list, same
// order, every time. Items with blank names are skipped, never an error.
func BuildColumns(c *catalog.Catalog) []Column {
	cols := BaseColumns()
	for _, item := range c.Items {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		cols = append(cols, Column{Name: item.Name, Kind: KindCount, Item: item.Name})
		if item.HasOptions() {
			cols = append(cols, Column{
				Name: item.Name + OptionsSuffix,
				Kind: KindOptions,
				Item: item.Name,
			})
		}
	}
	return cols
}
