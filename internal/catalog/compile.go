package catalog

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileItem parses a CUE value into a MenuItem. Uses the CUE SDK's Go
// API directly (not a CLI subprocess).
//
// The CUE value should be the item struct itself, keyed by name:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`menu: "breakfast sandwich": { price: 700 }`)
//	item, err := CompileItem(v.LookupPath(cue.ParsePath(`menu."breakfast sandwich"`)))
func CompileItem(v cue.Value) (*MenuItem, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	item := &MenuItem{}

	// Item name comes from the struct label (the path selector).
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		item.Name = labels[len(labels)-1].Unquoted()
	}

	// Price is required. Integer cents: CUE floats are rejected so the
	// journal's no-float rule holds all the way back to menu authoring.
	priceVal := v.LookupPath(cue.ParsePath("price"))
	if !priceVal.Exists() {
		return nil, &CompileError{
			Field:   "price",
			Message: "price is required (integer cents)",
			Pos:     v.Pos(),
		}
	}
	price, err := priceVal.Int64()
	if err != nil {
		return nil, &CompileError{
			Field:   "price",
			Message: fmt.Sprintf("price must be integer cents: %v", err),
			Pos:     priceVal.Pos(),
		}
	}
	item.PriceCents = price

	// Category and description are optional display text.
	if catVal := v.LookupPath(cue.ParsePath("category")); catVal.Exists() {
		cat, err := catVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		item.Category = cat
	}
	if descVal := v.LookupPath(cue.ParsePath("description")); descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		item.Description = desc
	}

	// Options accept two forms: the definition string
	// ("egg/no egg|croissant/muffin") or an explicit list of lists.
	optVal := v.LookupPath(cue.ParsePath("options"))
	if optVal.Exists() {
		groups, err := compileOptions(optVal)
		if err != nil {
			return nil, err
		}
		item.OptionGroups = groups
	}

	return item, nil
}

// compileOptions parses the options field in either supported form.
func compileOptions(v cue.Value) ([]OptionGroup, error) {
	if s, err := v.String(); err == nil {
		groups, parseErr := ParseOptionDefs(s)
		if parseErr != nil {
			return nil, &CompileError{
				Field:   "options",
				Message: parseErr.Error(),
				Pos:     v.Pos(),
			}
		}
		return groups, nil
	}

	groupIter, err := v.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "options",
			Message: "options must be a definition string or a list of choice lists",
			Pos:     v.Pos(),
		}
	}

	var groups []OptionGroup
	for gi := 0; groupIter.Next(); gi++ {
		choiceIter, err := groupIter.Value().List()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("options[%d]", gi),
				Message: "option group must be a list of choice strings",
				Pos:     groupIter.Value().Pos(),
			}
		}

		var g OptionGroup
		for ci := 0; choiceIter.Next(); ci++ {
			choice, err := choiceIter.Value().String()
			if err != nil {
				return nil, &CompileError{
					Field:   fmt.Sprintf("options[%d][%d]", gi, ci),
					Message: "choice must be a string",
					Pos:     choiceIter.Value().Pos(),
				}
			}
			g.Choices = append(g.Choices, choice)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// CompileError represents a menu compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
