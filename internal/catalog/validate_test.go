package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCatalog() *Catalog {
	return &Catalog{Items: []MenuItem{
		{
			Name:       "breakfast sandwich",
			PriceCents: 700,
			OptionGroups: []OptionGroup{
				{Choices: []string{"egg", "no egg"}},
				{Choices: []string{"croissant", "muffin"}},
			},
		},
		{Name: "coffee", PriceCents: 300},
	}}
}

func TestValidateOK(t *testing.T) {
	assert.Empty(t, Validate(validCatalog()))
}

func TestValidateCollectsAllErrors(t *testing.T) {
	c := &Catalog{Items: []MenuItem{
		{Name: "", PriceCents: -1},
		{Name: "coffee", PriceCents: 300},
		{Name: "coffee", PriceCents: 350},
	}}

	errs := Validate(c)
	require.Len(t, errs, 3)

	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	assert.Contains(t, codes, ErrItemNameEmpty)
	assert.Contains(t, codes, ErrNegativePrice)
	assert.Contains(t, codes, ErrDuplicateItemName)
}

func TestValidateOptionRules(t *testing.T) {
	tests := []struct {
		name     string
		group    OptionGroup
		wantCode string
	}{
		{"empty group", OptionGroup{}, ErrEmptyOptionGroup},
		{"blank choice", OptionGroup{Choices: []string{"  "}}, ErrEmptyChoice},
		{"slash in choice", OptionGroup{Choices: []string{"half/half"}}, ErrReservedSeparator},
		{"pipe in choice", OptionGroup{Choices: []string{"a|b"}}, ErrReservedSeparator},
		{"tuple boundary in choice", OptionGroup{Choices: []string{"a)(b"}}, ErrTupleBoundary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Catalog{Items: []MenuItem{{
				Name:         "x",
				OptionGroups: []OptionGroup{tt.group},
			}}}

			errs := Validate(c)
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.wantCode, errs[0].Code)
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	err := ValidationError{Field: "items[0].name", Message: "boom", Code: ErrItemNameEmpty}
	assert.Equal(t, "[E101] items[0].name: boom", err.Error())
}

func TestCatalogLookup(t *testing.T) {
	c := validCatalog()

	item, ok := c.Lookup("coffee")
	require.True(t, ok)
	assert.Equal(t, int64(300), item.PriceCents)

	_, ok = c.Lookup("Coffee")
	assert.False(t, ok, "lookup is exact, not case-insensitive")

	_, ok = c.Lookup("gone")
	assert.False(t, ok)
}

func TestCatalogNames(t *testing.T) {
	c := &Catalog{Items: []MenuItem{
		{Name: "b"}, {Name: "  "}, {Name: "a"},
	}}

	// Catalog order, blanks skipped, no sorting.
	assert.Equal(t, []string{"b", "a"}, c.Names())
}
