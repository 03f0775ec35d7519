package interpolation

import (
	"regexp"
	"slices"
)

// Placeholder is a replacement parameter found in a localizable string.
type Placeholder struct {
	Value string
	Start int
	End   int
}

// patterns to detect replacement parameters in source and target strings.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[a-zA-Z_][a-zA-Z0-9_]*\}`),           // ${value}
	regexp.MustCompile(`\{[0-9]+\}`),                             // {0}, {1}
	regexp.MustCompile(`\{[a-zA-Z_][a-zA-Z0-9_]*\}`),             // {n}, {name}
	regexp.MustCompile(`%[0-9]+\$[-+0-9]*\.?[0-9]*[dsfeEgGxXo]`), // %1$s
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfieEgGxXoubcpq]`),   // %d, %s, %f, %2d, etc.
	regexp.MustCompile(`%%`),                                     // escaped percent literal
}

// Extract returns the placeholders of text in order of appearance.
// Overlapping matches keep the first, longest one.
func Extract(text string) []Placeholder {
	var all []Placeholder
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			all = append(all, Placeholder{Value: text[loc[0]:loc[1]], Start: loc[0], End: loc[1]})
		}
	}
	if len(all) == 0 {
		return nil
	}

	sortMatches(all)

	var filtered []Placeholder
	lastEnd := -1
	for _, m := range all {
		if m.Start >= lastEnd {
			filtered = append(filtered, m)
			lastEnd = m.End
		}
	}
	return filtered
}

// Missing lists the source placeholders that do not appear in target, once
// per missing occurrence. The escaped percent literal is never reported.
func Missing(source, target string) []string {
	have := make(map[string]int)
	for _, p := range Extract(target) {
		have[p.Value]++
	}

	var missing []string
	for _, p := range Extract(source) {
		if p.Value == "%%" {
			continue
		}
		if have[p.Value] > 0 {
			have[p.Value]--
			continue
		}
		missing = append(missing, p.Value)
	}
	return missing
}

// sortMatches sorts by start position, then by length (descending) for overlaps.
func sortMatches(matches []Placeholder) {
	slices.SortStableFunc(matches, func(a, b Placeholder) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return (b.End - b.Start) - (a.End - a.Start)
	})
}
