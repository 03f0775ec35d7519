package xliff

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"loctool/internal/resource"

	"github.com/rs/zerolog/log"
)

// Supported format versions.
const (
	Version12 = 1.2
	Version20 = 2.0
)

// MaxArrayIndex is the highest array slot a unit may address.
const MaxArrayIndex = 1 << 16

// ErrTargetLocaleConflict is returned when a 2.0 document would need a second
// target language.
var ErrTargetLocaleConflict = errors.New("target locale conflicts with document target language")

// Tool describes the program that wrote the file. Empty fields are omitted.
type Tool struct {
	ID        string
	Name      string
	Version   string
	Company   string
	Copyright string
}

func (t Tool) isZero() bool { return t == Tool{} }

// Options configure a new engine.
type Options struct {
	// Version is "1.2" (default), "2" or "2.0".
	Version      string
	Tool         Tool
	Path         string
	AllowDups    bool
	SourceLocale string
	// TargetLocale pre-establishes the target language of a 2.0 document.
	TargetLocale string
	// Registry overrides resource.Default.
	Registry *resource.Registry
}

// Xliff holds a collection of resources and converts it to and from XLIFF text.
// It is not safe for concurrent mutation.
type Xliff struct {
	version      float64
	tool         Tool
	path         string
	allowDups    bool
	sourceLocale string
	targetLocale string
	registry     *resource.Registry

	resources []resource.Resource
	index     map[resource.Signature]resource.Resource
}

// New creates an empty engine.
func New(opts Options) *Xliff {
	reg := opts.Registry
	if reg == nil {
		reg = resource.Default
	}
	return &Xliff{
		version:      ParseVersion(opts.Version),
		tool:         opts.Tool,
		path:         opts.Path,
		allowDups:    opts.AllowDups,
		sourceLocale: opts.SourceLocale,
		targetLocale: opts.TargetLocale,
		registry:     reg,
		index:        make(map[resource.Signature]resource.Resource),
	}
}

// ParseVersion maps a version string to 1.2 or 2. Unknown values give 1.2.
func ParseVersion(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f < Version20 {
		return Version12
	}
	return Version20
}

// Version returns 1.2 or 2.
func (x *Xliff) Version() float64 { return x.version }

// Path returns the file path the engine was loaded from or will be saved to.
func (x *Xliff) Path() string { return x.path }

// SetPath sets the file path.
func (x *Xliff) SetPath(p string) { x.path = p }

// SourceLocale returns the engine's source locale, if known.
func (x *Xliff) SourceLocale() string { return x.sourceLocale }

// TargetLocale returns the established 2.0 target language, if any.
func (x *Xliff) TargetLocale() string { return x.targetLocale }

// AllowDups reports whether duplicates are kept as instances.
func (x *Xliff) AllowDups() bool { return x.allowDups }

// Size returns the number of distinct resources.
func (x *Xliff) Size() int { return len(x.resources) }

// Clear removes all resources.
func (x *Xliff) Clear() {
	x.resources = nil
	x.index = make(map[resource.Signature]resource.Resource)
}

// GetResources returns the resources matching c in insertion order.
func (x *Xliff) GetResources(c resource.Criteria) []resource.Resource {
	return resource.Filter(x.resources, c)
}

// AddResource adds r. A resource with the same signature as an existing one
// replaces it in place, or becomes its instance when duplicates are allowed.
// Translations into the engine's own source locale are dropped.
func (x *Xliff) AddResource(r resource.Resource) {
	if r == nil {
		return
	}
	b := r.Meta()
	if x.intoSourceLocale(b.Key, b.SourceLocale, b.TargetLocale, b.Origin) {
		return
	}
	if x.version >= Version20 && x.targetLocale == "" && b.TargetLocale != "" {
		x.targetLocale = b.TargetLocale
	}

	sig := resource.SignatureOf(r)
	existing, ok := x.index[sig]
	if !ok {
		x.resources = append(x.resources, r)
		x.index[sig] = r
		return
	}

	if x.allowDups {
		if err := existing.AddInstance(r); err != nil {
			log.Warn().Err(err).Str("key", b.Key).Msg("Failed to add instance")
		}
		return
	}
	x.replace(existing, r)
}

// AddResources adds each resource in order.
func (x *Xliff) AddResources(rs []resource.Resource) {
	for _, r := range rs {
		x.AddResource(r)
	}
}

// intoSourceLocale reports, and logs, a translation from the engine's source
// locale into that same locale. Such entries are dropped.
func (x *Xliff) intoSourceLocale(key, sourceLocale, targetLocale string, origin resource.Origin) bool {
	if x.sourceLocale == "" || sourceLocale != x.sourceLocale ||
		origin != resource.OriginTarget || targetLocale != x.sourceLocale {
		return false
	}
	log.Debug().
		Str("key", key).
		Str("locale", targetLocale).
		Msg("Dropping translation into the source locale")
	return true
}

func (x *Xliff) replace(old, r resource.Resource) {
	if i := slices.Index(x.resources, old); i >= 0 {
		x.resources[i] = r
	}
	x.index[resource.SignatureOf(r)] = r
}

// AddTranslationUnit folds u into the resource with the same signature,
// creating it through the registry when needed. Array slots and plural
// categories accumulate; strings overwrite or become instances.
func (x *Xliff) AddTranslationUnit(u *TranslationUnit) error {
	if u == nil || x.intoSourceLocale(u.Key, u.SourceLocale, u.TargetLocale, u.Origin) {
		return nil
	}
	if x.version >= Version20 && u.TargetLocale != "" {
		if x.targetLocale == "" {
			x.targetLocale = u.TargetLocale
		} else if x.targetLocale != u.TargetLocale {
			return fmt.Errorf("add unit %q with target %s to %s document: %w",
				u.Key, u.TargetLocale, x.targetLocale, ErrTargetLocaleConflict)
		}
	}
	x.addUnit(u)
	return nil
}

// AddTranslationUnits adds the units in order, stopping at the first error.
func (x *Xliff) AddTranslationUnits(units []*TranslationUnit) error {
	for _, u := range units {
		if err := x.AddTranslationUnit(u); err != nil {
			return err
		}
	}
	return nil
}

func (x *Xliff) addUnit(u *TranslationUnit) {
	if x.intoSourceLocale(u.Key, u.SourceLocale, u.TargetLocale, u.Origin) {
		return
	}
	kind := u.kind()
	if kind == resource.KindArray && (u.Index < 0 || u.Index > MaxArrayIndex) {
		log.Warn().Str("key", u.Key).Int("index", u.Index).Msg("Skipping array unit with invalid index")
		return
	}
	existing, ok := x.index[u.signature()]

	if ok && kind != resource.KindString {
		fold(existing, u)
		return
	}

	r := x.newResource(u, kind)
	fold(r, u)
	if !ok {
		x.resources = append(x.resources, r)
		x.index[resource.SignatureOf(r)] = r
		return
	}
	if x.allowDups {
		if err := existing.AddInstance(r); err != nil {
			log.Warn().Err(err).Str("key", u.Key).Msg("Failed to add instance")
		}
		return
	}
	x.replace(existing, r)
}

// newResource builds an empty resource for u. The unit's datatype is kept
// as-is, so units without one produce resources without one.
func (x *Xliff) newResource(u *TranslationUnit, kind resource.Kind) resource.Resource {
	b := u.base()
	r := x.registry.New(b, kind)
	r.Meta().Datatype = u.Datatype
	r.Meta().Origin = u.Origin
	return r
}

// fold copies the unit's text into the matching slot of r.
func fold(r resource.Resource, u *TranslationUnit) {
	switch res := r.(type) {
	case *resource.Array:
		res.SetSource(u.Index, u.Source)
		if u.Target != "" {
			res.SetTarget(u.Index, u.Target)
		}
	case *resource.Plural:
		cat := u.Category
		if cat == "" {
			cat = "other"
		}
		res.SetSource(cat, u.Source)
		if u.Target != "" {
			res.SetTarget(cat, u.Target)
		}
	default:
		s, ok := resource.AsString(r)
		if !ok {
			log.Warn().Str("key", u.Key).Str("kind", string(r.Kind())).Msg("Cannot fold unit into resource type")
			return
		}
		s.Source = u.Source
		s.Target = u.Target
	}
	if u.Target != "" && u.State != "" {
		r.Meta().State = u.State
	}
}

// GetTranslationUnits returns the flattened view of all resources, each
// primary followed by its instances.
func (x *Xliff) GetTranslationUnits() []*TranslationUnit {
	var out []*TranslationUnit
	for _, r := range x.resources {
		out = append(out, unitsOf(r)...)
		for _, inst := range r.Instances() {
			out = append(out, unitsOf(inst)...)
		}
	}
	return out
}
