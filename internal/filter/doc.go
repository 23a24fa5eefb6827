// Package filter provides an abstract filter representation for journal
// queries.
//
// The filter AST is the boundary between the CLI's query flags and the
// storage backend. Commands build filters; backends compile them:
//
//	[CLI flags] → [filter AST] → [SQL backend]
//
// PORTABLE FRAGMENT:
//
// The fragment includes:
//   - ItemIs(name) - order contains the named item
//   - DeliveryIs(mode) - delivery mode equality
//   - Since(t) / Until(t) - half-open time window [since, until)
//   - And(filters...) - conjunction
//
// The fragment EXCLUDES:
//   - OR (run separate queries)
//   - Negation
//   - Free-text search
//
// SEALED INTERFACE:
//
// Filter is a sealed interface using the marker method pattern. Only types
// in this package implement it, so backend compilers can type-switch
// exhaustively and reject nothing at runtime that compiled.
package filter
