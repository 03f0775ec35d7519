// Package selection picks translation units out of a larger pool by field
// patterns, plural category, array index and word budgets.
package selection

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"loctool/internal/locale"
	"loctool/internal/resource"
	"loctool/internal/xliff"
)

// ErrInvalidCriteria is the parent of all criteria parsing errors.
var ErrInvalidCriteria = errors.New("invalid selection criteria")

var categoryNames = map[string]bool{
	"zero": true, "one": true, "two": true, "few": true, "many": true, "other": true,
}

// fields maps the criteria field names to unit accessors.
var fields = map[string]func(u *xliff.TranslationUnit) string{
	"project":      func(u *xliff.TranslationUnit) string { return u.Project },
	"context":      func(u *xliff.TranslationUnit) string { return u.Context },
	"sourcelocale": func(u *xliff.TranslationUnit) string { return u.SourceLocale },
	"targetlocale": func(u *xliff.TranslationUnit) string { return u.TargetLocale },
	"key":          func(u *xliff.TranslationUnit) string { return u.Key },
	"pathname":     func(u *xliff.TranslationUnit) string { return u.File },
	"state":        func(u *xliff.TranslationUnit) string { return u.State },
	"comment":      func(u *xliff.TranslationUnit) string { return u.Comment },
	"datatype":     func(u *xliff.TranslationUnit) string { return u.Datatype },
	"restype":      func(u *xliff.TranslationUnit) string { return string(u.Kind) },
	"flavor":       func(u *xliff.TranslationUnit) string { return u.Flavor },
	"source":       func(u *xliff.TranslationUnit) string { return u.Source },
	"target":       func(u *xliff.TranslationUnit) string { return u.Target },
}

// FieldMatch requires a unit field to match a pattern.
type FieldMatch struct {
	Field   string
	Pattern *regexp.Regexp
}

// Criteria restrict which units are selected. Zero values impose no limit.
type Criteria struct {
	MaxUnits  int
	MaxSource int
	MaxTarget int
	Random    bool
	// Category keeps only plural units of this category.
	Category string
	// Index keeps only array units at this slot; -1 disables it.
	Index int
	// Locale keeps units whose target locale it subsumes.
	Locale string
	Fields []FieldMatch
}

// Parse reads a comma-separated criteria string such as
// "maxunits:10,random,source.one=^There".
func Parse(s string) (Criteria, error) {
	c := Criteria{Index: -1}
	if strings.TrimSpace(s) == "" {
		return c, nil
	}

	for part := range strings.SplitSeq(s, ",") {
		lower := strings.ToLower(part)
		var err error
		switch {
		case strings.HasPrefix(lower, "maxunits:"):
			c.MaxUnits, err = limit(part, "maxunits:")
		case strings.HasPrefix(lower, "maxsource:"):
			c.MaxSource, err = limit(part, "maxsource:")
		case strings.HasPrefix(lower, "maxtarget:"):
			c.MaxTarget, err = limit(part, "maxtarget:")
		case lower == "random":
			c.Random = true
		default:
			err = c.parseField(part)
		}
		if err != nil {
			return Criteria{}, err
		}
	}
	return c, nil
}

func limit(part, prefix string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(part[len(prefix):]))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad limit %q", ErrInvalidCriteria, part)
	}
	return n, nil
}

// parseField handles field=regex and field.sub=regex, where sub is an array
// index or a plural category name.
func (c *Criteria) parseField(part string) error {
	eq := strings.Index(part, "=")
	if eq <= 0 || eq == len(part)-1 {
		return fmt.Errorf("%w: incorrect syntax %q", ErrInvalidCriteria, part)
	}
	field, value := part[:eq], part[eq+1:]

	if dot := strings.Index(field, "."); dot >= 0 {
		sub := field[dot+1:]
		field = field[:dot]
		if n, err := strconv.Atoi(sub); err == nil && n >= 0 {
			c.Index = n
		} else if categoryNames[sub] {
			c.Category = sub
		} else {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidCriteria, part)
		}
	}

	name := strings.ToLower(field)
	if _, ok := fields[name]; !ok {
		return fmt.Errorf("%w: unknown field %q", ErrInvalidCriteria, part)
	}
	re, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidCriteria, part, err)
	}
	c.Fields = append(c.Fields, FieldMatch{Field: name, Pattern: re})
	return nil
}

// Matches reports whether u passes the non-budget criteria.
func (c Criteria) Matches(u *xliff.TranslationUnit) bool {
	if c.Category != "" && (u.Kind != resource.KindPlural || u.Category != c.Category) {
		return false
	}
	if c.Index >= 0 && (u.Kind != resource.KindArray || u.Index != c.Index) {
		return false
	}
	if c.Locale != "" && !locale.Subsumes(c.Locale, u.TargetLocale) {
		return false
	}
	for _, f := range c.Fields {
		if !f.Pattern.MatchString(fields[f.Field](u)) {
			return false
		}
	}
	return true
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Select returns the matching units in order, or shuffled with rng when
// Random is set, until the unit and word budgets run out. A unit that
// would reach a word budget is passed over and smaller ones after it may
// still fit. rng may be nil.
func Select(units []*xliff.TranslationUnit, c Criteria, rng *rand.Rand) []*xliff.TranslationUnit {
	pool := make([]*xliff.TranslationUnit, 0, len(units))
	for _, u := range units {
		if c.Matches(u) {
			pool = append(pool, u)
		}
	}
	if c.Random {
		swap := func(i, j int) { pool[i], pool[j] = pool[j], pool[i] }
		if rng != nil {
			rng.Shuffle(len(pool), swap)
		} else {
			rand.Shuffle(len(pool), swap)
		}
	}

	var out []*xliff.TranslationUnit
	sourceWords, targetWords := 0, 0
	for _, u := range pool {
		if c.MaxUnits > 0 && len(out) >= c.MaxUnits {
			break
		}
		src, tgt := WordCount(u.Source), WordCount(u.Target)
		if c.MaxSource > 0 && sourceWords+src >= c.MaxSource {
			continue
		}
		if c.MaxTarget > 0 && targetWords+tgt >= c.MaxTarget {
			continue
		}
		sourceWords += src
		targetWords += tgt
		out = append(out, u)
	}
	return out
}
