// Package order defines the journal record types and the option tuple codec.
//
// This package contains the foundational data layer. All other internal
// packages import order; order imports nothing internal. This keeps the
// record model free of circular dependencies.
//
// Key design constraints:
//   - NO float types anywhere - money is integer cents, counts are int64
//   - All JSON tags use snake_case except the submission wire shape,
//     which preserves the historical camelCase legacy keys
//   - Journal records are immutable once written; every mutation of the
//     kitchen projection is derived from them
//   - Legacy line items (quantity + selectedOptions) are normalized into
//     the instances shape by exactly one adapter at the decode boundary
package order
