// Package catalog models the menu: items, their option groups, and the
// compiler that builds them from CUE definition files.
//
// A Catalog is immutable for one build cycle. When the menu changes the
// catalog is rebuilt wholesale, never patched, and the projection column
// schema must be rebuilt with it.
package catalog

import "strings"

// OptionGroup is one ordered set of choices for a menu item. Position
// within the item's group list is significant: an order instance supplies
// its selections slot-by-slot in the same positions.
type OptionGroup struct {
	Choices []string `json:"choices"`
}

// MenuItem is one orderable item. Category and Description ride along for
// display; the projection logic only reads Name and OptionGroups.
type MenuItem struct {
	Name         string        `json:"name"`
	PriceCents   int64         `json:"price_cents"`
	Category     string        `json:"category,omitempty"`
	Description  string        `json:"description,omitempty"`
	OptionGroups []OptionGroup `json:"option_groups,omitempty"`
}

// HasOptions reports whether the item carries at least one option group,
// which is what decides whether it gets a paired options column.
func (m MenuItem) HasOptions() bool {
	return len(m.OptionGroups) > 0
}

// Catalog is the ordered menu. Authoring order is preserved and drives
// projection column order.
type Catalog struct {
	Items []MenuItem `json:"items"`
}

// Lookup finds an item by exact name. The projection drops line items
// whose names no longer resolve, so callers treat a miss as "skip", not
// as an error.
func (c *Catalog) Lookup(name string) (MenuItem, bool) {
	for _, it := range c.Items {
		if it.Name == name {
			return it, true
		}
	}
	return MenuItem{}, false
}

// Names returns item names in catalog order, skipping blank ones the same
// way the column schema builder does.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		names = append(names, it.Name)
	}
	return names
}
