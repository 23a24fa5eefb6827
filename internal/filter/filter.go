package filter

import "time"

// Filter represents an abstract journal filter.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in backend compilers.
//
// Filter types:
//   - ItemIs: order contains at least one instance of the named item
//   - DeliveryIs: order's delivery mode equals a value
//   - Since: order submitted at or after a time (inclusive)
//   - Until: order submitted before a time (exclusive)
//   - And: all inner filters must match
//
// The fragment deliberately excludes OR and negation: every filter is a
// plain conjunction, so compiled queries stay simple and their results
// stay deterministic. Run separate queries for OR semantics.
type Filter interface {
	filterNode() // Marker method - seals interface to this package
}

// ItemIs matches orders containing at least one instance of the named
// menu item. Matching is exact on the journaled item name, so items that
// have since left the menu remain findable.
type ItemIs struct {
	Name string
}

func (ItemIs) filterNode() {}

// DeliveryIs matches orders whose customer delivery mode equals Mode.
// Matching is exact; modes are free text in submissions ("pickup",
// "delivery").
type DeliveryIs struct {
	Mode string
}

func (DeliveryIs) filterNode() {}

// Since matches orders submitted at or after Time (inclusive).
type Since struct {
	Time time.Time
}

func (Since) filterNode() {}

// Until matches orders submitted strictly before Time (exclusive).
// Combined with Since this forms the usual half-open interval
// [since, until).
type Until struct {
	Time time.Time
}

func (Until) filterNode() {}

// And matches orders satisfying every inner filter.
//
// An empty Filters slice means "always true" (no conditions). Nested And
// nodes flatten naturally at compile time since conjunction is the only
// connective.
type And struct {
	Filters []Filter
}

func (And) filterNode() {}
