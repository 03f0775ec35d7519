package resource

import (
	"maps"
	"slices"
	"sort"
)

// CategoryOrder is the canonical CLDR plural category order.
var CategoryOrder = []string{"zero", "one", "two", "few", "many", "other"}

// Plural maps plural categories to strings.
type Plural struct {
	Base
	SourcePlurals map[string]string
	TargetPlurals map[string]string
}

// NewPlural creates a plural resource, defaulting the datatype to x-android-resource.
func NewPlural(b Base, source, target map[string]string) *Plural {
	b.applyDefaults(DatatypeAndroid)
	return &Plural{Base: b, SourcePlurals: maps.Clone(source), TargetPlurals: maps.Clone(target)}
}

func (p *Plural) Kind() Kind { return KindPlural }

func (p *Plural) HashKey() string { return hashKey("rp", &p.Base) }

func (p *Plural) CleanHashKey() string { return cleanHashKey("rp", &p.Base) }

func (p *Plural) Clone() Resource {
	return &Plural{
		Base:          p.Base.clone(),
		SourcePlurals: maps.Clone(p.SourcePlurals),
		TargetPlurals: maps.Clone(p.TargetPlurals),
	}
}

func (p *Plural) AddInstance(other Resource) error { return p.addInstance(p, other) }

func (p *Plural) HasTarget() bool {
	for _, v := range p.TargetPlurals {
		if v != "" {
			return true
		}
	}
	return false
}

func (p *Plural) Equals(other Resource) bool {
	o, ok := other.(*Plural)
	if !ok {
		return false
	}
	return p.metaEquals(&o.Base) &&
		maps.Equal(p.SourcePlurals, o.SourcePlurals) &&
		maps.Equal(p.TargetPlurals, o.TargetPlurals)
}

// SetSource stores the source string for a category.
func (p *Plural) SetSource(category, s string) {
	if p.SourcePlurals == nil {
		p.SourcePlurals = make(map[string]string)
	}
	p.SourcePlurals[category] = s
}

// SetTarget stores the target string for a category.
func (p *Plural) SetTarget(category, s string) {
	if p.TargetPlurals == nil {
		p.TargetPlurals = make(map[string]string)
	}
	p.TargetPlurals[category] = s
}

// Categories returns the union of source and target categories, canonical
// categories first, then any others alphabetically.
func (p *Plural) Categories() []string {
	seen := make(map[string]bool, len(p.SourcePlurals)+len(p.TargetPlurals))
	for c := range p.SourcePlurals {
		seen[c] = true
	}
	for c := range p.TargetPlurals {
		seen[c] = true
	}

	out := make([]string, 0, len(seen))
	for _, c := range CategoryOrder {
		if seen[c] {
			out = append(out, c)
			delete(seen, c)
		}
	}
	extra := slices.Collect(maps.Keys(seen))
	sort.Strings(extra)
	return append(out, extra...)
}

// SourceFor returns the source text for a category, falling back to "other".
func (p *Plural) SourceFor(category string) string {
	if s, ok := p.SourcePlurals[category]; ok {
		return s
	}
	return p.SourcePlurals["other"]
}
