package projection

import (
	"regexp"
	"strings"
	"unicode"
)

// shorthandDict maps full option text to its kitchen abbreviation.
// Lookup is case-insensitive on the trimmed option. Options outside the
// dictionary fall back to a mechanical abbreviation so Shorten stays
// total over arbitrary menu edits.
var shorthandDict = map[string]string{
	"egg":          "E",
	"no egg":       "NE",
	"croissant":    "CR",
	"muffin":       "MF",
	"bagel":        "BG",
	"bacon":        "BN",
	"sausage":      "SG",
	"ham":          "HM",
	"cheese":       "CH",
	"no cheese":    "NC",
	"butter":       "BT",
	"cream cheese": "CC",
}

var segmentRe = regexp.MustCompile(`^(\d+)x\((.*)\)$`)

// Shorten compresses an aggregated totals string for the kitchen board:
// "2x(egg, croissant), 1x(no egg, muffin)" becomes "2x(E,CR), 1x(NE,MF)".
//
// Segments that do not parse as Nx(...) pass through unchanged rather
// than failing the whole string; the board must render whatever the
// journal produced. Inside a shortened segment the options are rejoined
// with a bare comma, no space.
func Shorten(aggregated string) string {
	if aggregated == "" {
		return ""
	}
	segments := splitTopLevel(aggregated)
	out := make([]string, len(segments))
	for i, seg := range segments {
		out[i] = shortenSegment(seg)
	}
	return strings.Join(out, ", ")
}

func shortenSegment(seg string) string {
	m := segmentRe.FindStringSubmatch(seg)
	if m == nil {
		return seg
	}
	opts := strings.Split(m[2], ", ")
	for i, opt := range opts {
		opts[i] = shortenOption(opt)
	}
	return m[1] + "x(" + strings.Join(opts, ",") + ")"
}

func shortenOption(opt string) string {
	trimmed := strings.TrimSpace(opt)
	if abbr, ok := shorthandDict[strings.ToLower(trimmed)]; ok {
		return abbr
	}
	runes := []rune(trimmed)
	if len(runes) <= 3 {
		return strings.ToUpper(trimmed)
	}
	return string([]rune{unicode.ToUpper(runes[0]), unicode.ToUpper(runes[1])})
}

// splitTopLevel splits on ", " outside parentheses. Commas inside a
// tuple belong to the tuple; only depth-zero separators end a segment.
func splitTopLevel(s string) []string {
	var segments []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 && i+1 < len(s) && s[i+1] == ' ' {
				segments = append(segments, s[start:i])
				i++
				start = i + 1
			}
		}
	}
	segments = append(segments, s[start:])
	return segments
}
