package catalog

import (
	"fmt"
	"strings"
)

// Option definition strings are the compact menu-authoring form:
// "/" separates choices inside one group, "|" separates groups.
// "egg/no egg|croissant/muffin" defines two groups of two choices.

// ParseOptionDefs parses an option definition string into ordered option
// groups. Whitespace around choices is trimmed; empty groups and empty
// choices are errors because they would produce unselectable slots.
func ParseOptionDefs(s string) ([]OptionGroup, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var groups []OptionGroup
	for gi, part := range strings.Split(s, "|") {
		if strings.TrimSpace(part) == "" {
			return nil, fmt.Errorf("option group %d is empty", gi)
		}

		var choices []string
		for ci, raw := range strings.Split(part, "/") {
			choice := strings.TrimSpace(raw)
			if choice == "" {
				return nil, fmt.Errorf("option group %d: choice %d is empty", gi, ci)
			}
			choices = append(choices, choice)
		}
		groups = append(groups, OptionGroup{Choices: choices})
	}
	return groups, nil
}

// FormatOptionDefs renders option groups back into the definition string
// form. ParseOptionDefs(FormatOptionDefs(g)) returns g for any valid g.
func FormatOptionDefs(groups []OptionGroup) string {
	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = strings.Join(g.Choices, "/")
	}
	return strings.Join(parts, "|")
}
