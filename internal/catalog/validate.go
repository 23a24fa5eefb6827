package catalog

import (
	"fmt"
	"strings"
)

// Validation error codes (E100-E199)
const (
	ErrItemNameEmpty     = "E101" // item name is empty
	ErrDuplicateItemName = "E102" // duplicate item name
	ErrNegativePrice     = "E103" // price below zero
	ErrEmptyOptionGroup  = "E104" // option group with no choices
	ErrEmptyChoice       = "E105" // blank choice text
	ErrReservedSeparator = "E106" // choice contains / or |
	ErrTupleBoundary     = "E107" // choice contains the )( tuple boundary
)

// ValidationError represents a menu validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a catalog against the menu rules. Returns all errors
// found (does not fail-fast).
//
// The choice-text rules exist because option text is embedded in two
// wire formats: the definition string ("/" and "|" are its separators)
// and tuple notation (the decoder splits on the literal "), (" so no
// choice may contain ")("). Rejecting offending text here keeps both
// formats unambiguous without patching the codecs.
func Validate(c *Catalog) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool)
	for i, item := range c.Items {
		field := fmt.Sprintf("items[%d]", i)

		name := strings.TrimSpace(item.Name)
		if name == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "item name is required and must be non-empty",
				Code:    ErrItemNameEmpty,
			})
		} else {
			if seen[name] {
				errs = append(errs, ValidationError{
					Field:   field + ".name",
					Message: fmt.Sprintf("duplicate item name: %q", name),
					Code:    ErrDuplicateItemName,
				})
			}
			seen[name] = true
		}

		if item.PriceCents < 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".price",
				Message: fmt.Sprintf("price must be non-negative, got %d", item.PriceCents),
				Code:    ErrNegativePrice,
			})
		}

		for gi, group := range item.OptionGroups {
			gfield := fmt.Sprintf("%s.options[%d]", field, gi)

			if len(group.Choices) == 0 {
				errs = append(errs, ValidationError{
					Field:   gfield,
					Message: "option group must have at least one choice",
					Code:    ErrEmptyOptionGroup,
				})
			}

			for ci, choice := range group.Choices {
				cfield := fmt.Sprintf("%s[%d]", gfield, ci)

				if strings.TrimSpace(choice) == "" {
					errs = append(errs, ValidationError{
						Field:   cfield,
						Message: "choice text must be non-empty",
						Code:    ErrEmptyChoice,
					})
					continue
				}
				if strings.ContainsAny(choice, "/|") {
					errs = append(errs, ValidationError{
						Field:   cfield,
						Message: fmt.Sprintf("choice %q contains a reserved separator (/ or |)", choice),
						Code:    ErrReservedSeparator,
					})
				}
				if strings.Contains(choice, ")(") {
					errs = append(errs, ValidationError{
						Field:   cfield,
						Message: fmt.Sprintf("choice %q contains \")(\", which collides with the tuple boundary", choice),
						Code:    ErrTupleBoundary,
					})
				}
			}
		}
	}

	return errs
}
