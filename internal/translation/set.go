package translation

import (
	"slices"
	"sort"
	"strings"

	"loctool/internal/resource"

	"github.com/rs/zerolog/log"
)

// DefaultSourceLocale is used when a set is created without one.
const DefaultSourceLocale = "en-US"

// Set is an insertion-ordered collection of resources for one source
// locale, deduplicated by key, kind, locale, context and project.
type Set struct {
	sourceLocale string
	resources    []resource.Resource
	byKey        map[string]resource.Resource
	bySource     map[string]resource.Resource
	dirty        bool
}

// NewSet creates an empty set.
func NewSet(sourceLocale string) *Set {
	if sourceLocale == "" {
		sourceLocale = DefaultSourceLocale
	}
	return &Set{
		sourceLocale: sourceLocale,
		byKey:        make(map[string]resource.Resource),
		bySource:     make(map[string]resource.Resource),
	}
}

// SourceLocale returns the source locale of the set.
func (s *Set) SourceLocale() string { return s.sourceLocale }

func (s *Set) hashKey(project, context, locale, key string, kind resource.Kind) string {
	if kind == "" {
		kind = resource.KindString
	}
	if locale == "" {
		locale = s.sourceLocale
	}
	return strings.Join([]string{key, string(kind), locale, context, project}, "_")
}

func (s *Set) keyOf(r resource.Resource) string {
	b := r.Meta()
	return s.hashKey(b.Project, b.Context, b.Locale(), b.Key, r.Kind())
}

func sourceKey(source, context string) string {
	return source + "@" + context
}

// Get returns the resource with the given identity.
func (s *Set) Get(key string, kind resource.Kind, context, locale, project string) resource.Resource {
	return s.byKey[s.hashKey(project, context, locale, key, kind)]
}

// GetBySource returns the auto-keyed string whose source text matches.
func (s *Set) GetBySource(source, context string) resource.Resource {
	return s.bySource[sourceKey(source, context)]
}

// GetAll returns every resource in insertion order.
func (s *Set) GetAll() []resource.Resource {
	return s.resources
}

// Add inserts r, or replaces an existing resource with the same identity in
// place when the two differ.
func (s *Set) Add(r resource.Resource) {
	if r == nil {
		return
	}
	hk := s.keyOf(r)
	existing, ok := s.byKey[hk]
	if !ok {
		s.resources = append(s.resources, r)
		s.byKey[hk] = r
		s.indexSource(r)
		s.dirty = true
		return
	}

	if existing.Equals(r) {
		return
	}

	log.Debug().
		Str("key", r.Meta().Key).
		Str("project", r.Meta().Project).
		Msg("Replacing resource with same identity")

	idx := slices.Index(s.resources, existing)
	if idx >= 0 {
		s.resources[idx] = r
	}
	s.byKey[hk] = r
	s.unindexSource(existing)
	s.indexSource(r)
	s.dirty = true
}

// AddAll adds every resource in order.
func (s *Set) AddAll(rs []resource.Resource) {
	for _, r := range rs {
		s.Add(r)
	}
}

// AddSet merges all resources of other into s.
func (s *Set) AddSet(other *Set) {
	if other == nil || len(other.resources) == 0 {
		log.Trace().Msg("AddSet: nothing to add")
		return
	}
	s.AddAll(other.resources)
}

// Size returns the number of unique resources.
func (s *Set) Size() int {
	return len(s.resources)
}

// SetClean clears the dirty flag.
func (s *Set) SetClean() {
	s.dirty = false
}

// IsDirty reports whether the set changed since creation or the last SetClean.
func (s *Set) IsDirty() bool {
	return s.dirty
}

// Remove deletes the resource with the same identity as r. It needs at least
// a key to identify the resource.
func (s *Set) Remove(r resource.Resource) bool {
	if r == nil || r.Meta().Key == "" {
		return false
	}
	hk := s.keyOf(r)
	existing, ok := s.byKey[hk]
	if !ok {
		return false
	}
	delete(s.byKey, hk)
	s.unindexSource(existing)
	s.resources = slices.DeleteFunc(s.resources, func(x resource.Resource) bool { return x == existing })
	s.dirty = true
	return true
}

// GetBy returns the resources matching the criteria in insertion order.
func (s *Set) GetBy(c resource.Criteria) []resource.Resource {
	return resource.Filter(s.resources, c)
}

// Projects returns the distinct project names in first-seen order.
func (s *Set) Projects() []string {
	return s.distinct(func(r resource.Resource) (string, bool) {
		return r.Meta().Project, true
	})
}

// Contexts returns the distinct contexts of a project. The root context is "".
func (s *Set) Contexts(project string) []string {
	return s.distinct(func(r resource.Resource) (string, bool) {
		return r.Meta().Context, r.Meta().Project == project
	})
}

// Locales returns the sorted locales present for a project and context.
func (s *Set) Locales(project, context string) []string {
	locales := s.distinct(func(r resource.Resource) (string, bool) {
		b := r.Meta()
		return b.Locale(), b.Project == project && b.Context == context
	})
	sort.Strings(locales)
	return locales
}

// Clear removes all resources and resets the dirty flag.
func (s *Set) Clear() {
	s.resources = nil
	s.byKey = make(map[string]resource.Resource)
	s.bySource = make(map[string]resource.Resource)
	s.dirty = false
}

// Diff returns a new set holding the resources of other that are missing
// from s or differ from their counterpart in s.
func (s *Set) Diff(other *Set) *Set {
	diff := NewSet(s.sourceLocale)
	if other == nil {
		return diff
	}
	for _, r := range other.resources {
		existing, ok := s.byKey[s.keyOf(r)]
		if !ok || !existing.Equals(r) {
			diff.Add(r)
		}
	}
	return diff
}

func (s *Set) distinct(pick func(resource.Resource) (string, bool)) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.resources {
		v, ok := pick(r)
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func (s *Set) indexSource(r resource.Resource) {
	if str, ok := resource.AsString(r); ok && str.AutoKey {
		s.bySource[sourceKey(str.Source, str.Context)] = r
	}
}

func (s *Set) unindexSource(r resource.Resource) {
	if str, ok := resource.AsString(r); ok && str.AutoKey {
		delete(s.bySource, sourceKey(str.Source, str.Context))
	}
}
