package filter

import (
	"fmt"
	"strings"
)

// Validate checks a filter tree for structural problems before it reaches
// a backend compiler.
//
// Rules:
//  1. ItemIs requires a non-blank item name
//  2. DeliveryIs requires a non-blank mode
//  3. Since/Until require a non-zero time
//  4. And may not contain nil filters
//
// A nil top-level filter is valid and means "no filter" (match everything).
// Returns nil when the filter is valid.
//
// Validate is a pure function with no side effects.
func Validate(f Filter) []error {
	if f == nil {
		return nil
	}

	v := &validator{}
	v.validateFilter(f)

	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

// validator accumulates errors during traversal.
type validator struct {
	errs []error
}

// addError appends an error message.
func (v *validator) addError(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

// validateFilter recursively validates a filter node.
func (v *validator) validateFilter(f Filter) {
	if f == nil {
		v.addError("nil filter inside conjunction")
		return
	}

	switch node := f.(type) {
	case ItemIs:
		v.validateItemIs(node)
	case *ItemIs:
		v.validateItemIs(*node)
	case DeliveryIs:
		v.validateDeliveryIs(node)
	case *DeliveryIs:
		v.validateDeliveryIs(*node)
	case Since:
		v.validateSince(node)
	case *Since:
		v.validateSince(*node)
	case Until:
		v.validateUntil(node)
	case *Until:
		v.validateUntil(*node)
	case And:
		v.validateAnd(node)
	case *And:
		v.validateAnd(*node)
	default:
		v.addError("unknown filter type: %T", f)
	}
}

func (v *validator) validateItemIs(node ItemIs) {
	if strings.TrimSpace(node.Name) == "" {
		v.addError("ItemIs requires a non-blank item name")
	}
}

func (v *validator) validateDeliveryIs(node DeliveryIs) {
	if strings.TrimSpace(node.Mode) == "" {
		v.addError("DeliveryIs requires a non-blank delivery mode")
	}
}

func (v *validator) validateSince(node Since) {
	if node.Time.IsZero() {
		v.addError("Since requires a non-zero time")
	}
}

func (v *validator) validateUntil(node Until) {
	if node.Time.IsZero() {
		v.addError("Until requires a non-zero time")
	}
}

func (v *validator) validateAnd(node And) {
	for _, inner := range node.Filters {
		v.validateFilter(inner)
	}
}
