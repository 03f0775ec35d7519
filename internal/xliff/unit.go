package xliff

import (
	"errors"
	"fmt"

	"loctool/internal/resource"
)

var (
	// ErrInvalidUnit is the parent of all translation unit construction errors.
	ErrInvalidUnit         = errors.New("invalid translation unit")
	ErrMissingSource       = fmt.Errorf("%w: missing source", ErrInvalidUnit)
	ErrMissingSourceLocale = fmt.Errorf("%w: missing source locale", ErrInvalidUnit)
	ErrMissingKey          = fmt.Errorf("%w: missing key", ErrInvalidUnit)
)

// TranslationUnit is one flattened trans-unit or unit entry, independent of
// the XLIFF version it came from or will be written to.
type TranslationUnit struct {
	Source       string
	SourceLocale string
	Target       string
	TargetLocale string
	Key          string
	File         string
	Project      string
	ID           string
	Kind         resource.Kind
	Origin       resource.Origin
	Context      string
	Comment      string
	Flavor       string
	Datatype     string
	State        string
	// Index is the array slot for array units.
	Index int
	// Category is the plural category for plural units.
	Category string
}

// NewTranslationUnit validates u and returns a copy with defaults applied.
func NewTranslationUnit(u TranslationUnit) (*TranslationUnit, error) {
	switch {
	case u.Source == "":
		return nil, ErrMissingSource
	case u.SourceLocale == "":
		return nil, ErrMissingSourceLocale
	case u.Key == "":
		return nil, ErrMissingKey
	}
	if u.Kind == "" {
		u.Kind = resource.KindString
	}
	if u.Origin == "" {
		u.Origin = resource.OriginSource
	}
	return &u, nil
}

func (u *TranslationUnit) base() resource.Base {
	return resource.Base{
		Project:      u.Project,
		Key:          u.Key,
		Path:         u.File,
		SourceLocale: u.SourceLocale,
		TargetLocale: u.TargetLocale,
		Origin:       u.Origin,
		Context:      u.Context,
		Comment:      u.Comment,
		Flavor:       u.Flavor,
		Datatype:     u.Datatype,
		ID:           u.ID,
		State:        u.State,
	}
}

// kind returns the unit's resource kind, string when unset.
func (u *TranslationUnit) kind() resource.Kind {
	if u.Kind == "" {
		return resource.KindString
	}
	return u.Kind
}

func (u *TranslationUnit) signature() resource.Signature {
	b := u.base()
	return resource.Signature{
		Project:      b.Project,
		SourceLocale: b.SourceLocale,
		TargetLocale: b.TargetLocale,
		Key:          b.Key,
		Path:         b.Path,
		Kind:         u.kind(),
		Context:      b.Context,
		Flavor:       b.Flavor,
		Datatype:     b.DatatypeGroup(),
	}
}

// unitsOf flattens a resource into translation units: one per string, one per
// populated array slot, one per populated plural category.
func unitsOf(r resource.Resource) []*TranslationUnit {
	b := r.Meta()
	proto := TranslationUnit{
		SourceLocale: b.SourceLocale,
		TargetLocale: b.TargetLocale,
		Key:          b.Key,
		File:         b.Path,
		Project:      b.Project,
		ID:           b.ID,
		Kind:         r.Kind(),
		Origin:       b.Origin,
		Context:      b.Context,
		Comment:      b.Comment,
		Flavor:       b.Flavor,
		Datatype:     b.Datatype,
		State:        b.State,
	}

	var out []*TranslationUnit
	switch res := r.(type) {
	case *resource.Array:
		for i := range res.Len() {
			src, ok := res.SourceAt(i)
			if !ok || src == "" {
				continue
			}
			u := proto
			u.Source = src
			u.Target, _ = res.TargetAt(i)
			u.Index = i
			if len(out) > 0 {
				u.ID = ""
			}
			out = append(out, &u)
		}
	case *resource.Plural:
		for _, cat := range res.Categories() {
			src := res.SourceFor(cat)
			if src == "" {
				continue
			}
			u := proto
			u.Source = src
			u.Target = res.TargetPlurals[cat]
			u.Category = cat
			if len(out) > 0 {
				u.ID = ""
			}
			out = append(out, &u)
		}
	default:
		if s, ok := resource.AsString(r); ok {
			u := proto
			u.Source = s.Source
			u.Target = s.Target
			out = append(out, &u)
		}
	}
	return out
}
