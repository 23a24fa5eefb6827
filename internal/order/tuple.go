package order

import "strings"

// Tuple notation renders one instance's selected options as a
// parenthesized list: "(egg, croissant)". Multiple instances join with
// ", ", so a three-instance item reads
// "(egg, croissant), (egg, croissant), (no egg, muffin)".
//
// The same ", " separator appears between tuples and inside a tuple's
// option list, which makes the encoding ambiguous under naive splitting.
// DecodeTuples resolves it by splitting on the literal "), (" boundary,
// which can only occur between tuples - provided no option's own text
// contains ")(". That constraint is enforced by catalog validation, not
// patched here.

// EncodeInstances renders a sequence of instances as tuple notation.
// Instances with zero selected options contribute nothing, not an empty
// "()" - so the instance count and the rendered tuple count can diverge.
// Both numbers are meaningful and neither is reconciled to the other.
func EncodeInstances(instances []Instance) string {
	var tuples []string
	for _, in := range instances {
		opts := in.Selected()
		if len(opts) == 0 {
			continue
		}
		tuples = append(tuples, "("+strings.Join(opts, ", ")+")")
	}
	return strings.Join(tuples, ", ")
}

// DecodeTuples splits tuple notation back into complete "(...)" tuple
// strings, in original order. Blank input decodes to an empty list.
//
// Splitting on "), (" strips the adjoining parens from every fragment
// except the outermost pair, so interior fragments get both restored and
// the first/last get their missing side back. The trailing repair also
// covers the single-tuple case, where no split happened at all.
func DecodeTuples(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}

	frags := strings.Split(s, "), (")
	tuples := make([]string, len(frags))
	for i, f := range frags {
		if i > 0 {
			f = "(" + f
		}
		if i < len(frags)-1 {
			f += ")"
		}
		if !strings.HasPrefix(f, "(") {
			f = "(" + f
		}
		if !strings.HasSuffix(f, ")") {
			f += ")"
		}
		tuples[i] = f
	}
	return tuples
}
