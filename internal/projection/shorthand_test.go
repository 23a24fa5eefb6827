package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShorten(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "dictionary options",
			in:   "2x(egg, croissant), 1x(no egg, muffin)",
			want: "2x(E,CR), 1x(NE,MF)",
		},
		{
			name: "dictionary lookup ignores case",
			in:   "1x(Egg, CROISSANT)",
			want: "1x(E,CR)",
		},
		{
			name: "short fallback uppercases whole option",
			in:   "1x(tea)",
			want: "1x(TEA)",
		},
		{
			name: "long fallback takes first two runes",
			in:   "1x(pumpernickel)",
			want: "1x(PU)",
		},
		{
			name: "fallback is rune aware",
			in:   "1x(œufs)",
			want: "1x(ŒU)",
		},
		{
			name: "mixed dictionary and fallback",
			in:   "3x(egg, oat milk)",
			want: "3x(E,OA)",
		},
		{
			name: "single segment",
			in:   "1x(egg)",
			want: "1x(E)",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "malformed segment passes through",
			in:   "banana, 2x(egg)",
			want: "banana, 2x(E)",
		},
		{
			name: "unclosed paren passes through",
			in:   "2x(egg",
			want: "2x(egg",
		},
		{
			name: "missing count passes through",
			in:   "x(egg)",
			want: "x(egg)",
		},
		{
			name: "comma inside tuple stays inside segment",
			in:   "2x(egg, croissant, bacon)",
			want: "2x(E,CR,BN)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Shorten(tt.in))
		})
	}
}

func TestShortenIsTotal(t *testing.T) {
	// Arbitrary garbage never errors and never panics; worst case the
	// input comes back unchanged.
	inputs := []string{
		"((((",
		"))))",
		"3x()",
		", , ,",
		"1x(a), , 2x(b)",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Shorten(in) })
	}
}

func TestShortenAggregateOutput(t *testing.T) {
	agg := Aggregate([]string{
		"(egg, croissant), (egg, croissant)",
		"(no egg, muffin)",
	})
	assert.Equal(t, "2x(E,CR), 1x(NE,MF)", Shorten(agg))
}
