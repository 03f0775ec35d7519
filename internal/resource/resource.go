package resource

import (
	"errors"
	"fmt"
	"strings"
)

// Kind discriminates the resource variants.
type Kind string

const (
	KindString Kind = "string"
	KindArray  Kind = "array"
	KindPlural Kind = "plural"
)

// ParseKind maps a restype/type attribute value to a Kind. Unknown values are strings.
func ParseKind(s string) Kind {
	switch Kind(strings.TrimPrefix(s, "res:")) {
	case KindArray:
		return KindArray
	case KindPlural:
		return KindPlural
	default:
		return KindString
	}
}

// Origin tells whether a resource holds original text or a translated copy.
type Origin string

const (
	OriginSource Origin = "source"
	OriginTarget Origin = "target"
)

// Default datatypes applied by the constructors.
const (
	DatatypePlaintext = "plaintext"
	DatatypeAndroid   = "x-android-resource"
)

// ErrSignatureMismatch is returned by AddInstance when the candidate does not
// share the resource's signature.
var ErrSignatureMismatch = errors.New("resource signature mismatch")

// Resource is the capability set shared by all localizable resources.
type Resource interface {
	// Kind returns the variant discriminant.
	Kind() Kind
	// Meta exposes the shared attributes for reading and writing.
	Meta() *Base
	// HashKey returns a stable map key built from project, locale, path, key and flavor.
	HashKey() string
	// CleanHashKey is HashKey without path and flavor.
	CleanHashKey() string
	// Clone returns a deep copy. Payloads and instances are never shared.
	Clone() Resource
	// AddInstance chains a duplicate with the same signature.
	AddInstance(other Resource) error
	// Instances returns the chained duplicates in insertion order.
	Instances() []Resource
	// Equals compares signature, metadata and payload.
	Equals(other Resource) bool
	// HasTarget reports whether any translated text is present.
	HasTarget() bool
}

// Base holds the attributes every resource carries.
type Base struct {
	Project      string
	Key          string
	Path         string
	SourceLocale string
	TargetLocale string
	Origin       Origin
	Context      string
	Comment      string
	Flavor       string
	Datatype     string
	// ID is the explicit or lazily assigned XLIFF unit id.
	ID      string
	State   string
	AutoKey bool

	instances []Resource
}

// Meta returns the base itself so that embedding types satisfy Resource.
func (b *Base) Meta() *Base { return b }

// Instances returns the chained duplicates.
func (b *Base) Instances() []Resource { return b.instances }

// Locale is the target locale when there is one, otherwise the source locale.
func (b *Base) Locale() string {
	if b.TargetLocale != "" {
		return b.TargetLocale
	}
	return b.SourceLocale
}

// DatatypeGroup is the datatype, or plaintext when none was set.
func (b *Base) DatatypeGroup() string {
	if b.Datatype == "" {
		return DatatypePlaintext
	}
	return b.Datatype
}

func (b *Base) addInstance(self, other Resource) error {
	if other == nil {
		return fmt.Errorf("add instance: %w", ErrSignatureMismatch)
	}
	if SignatureOf(self) != SignatureOf(other) {
		return fmt.Errorf("add instance %q to %q: %w", other.Meta().Key, b.Key, ErrSignatureMismatch)
	}
	b.instances = append(b.instances, other)
	return nil
}

func (b *Base) clone() Base {
	c := *b
	if len(b.instances) > 0 {
		c.instances = make([]Resource, len(b.instances))
		for i, inst := range b.instances {
			c.instances[i] = inst.Clone()
		}
	}
	return c
}

func (b *Base) applyDefaults(datatype string) {
	if b.Datatype == "" {
		b.Datatype = datatype
	}
	if b.Origin == "" {
		b.Origin = OriginSource
	}
}

func (b *Base) metaEquals(o *Base) bool {
	return b.Project == o.Project &&
		b.Key == o.Key &&
		b.Path == o.Path &&
		b.SourceLocale == o.SourceLocale &&
		b.TargetLocale == o.TargetLocale &&
		b.Context == o.Context &&
		b.Comment == o.Comment &&
		b.Flavor == o.Flavor &&
		b.Datatype == o.Datatype &&
		b.State == o.State
}

func joinKey(parts ...string) string { return strings.Join(parts, "_") }

func hashKey(prefix string, b *Base) string {
	return joinKey(prefix, b.Project, b.Locale(), b.Path, b.Key, b.Flavor)
}

func cleanHashKey(prefix string, b *Base) string {
	return joinKey(prefix, b.Project, b.Locale(), b.Context, b.Key)
}

// Signature is the deduplication identity of a resource.
type Signature struct {
	Project      string
	SourceLocale string
	TargetLocale string
	Key          string
	Path         string
	Kind         Kind
	Context      string
	Flavor       string
	Datatype     string
}

// SignatureOf computes the signature of r.
func SignatureOf(r Resource) Signature {
	b := r.Meta()
	return Signature{
		Project:      b.Project,
		SourceLocale: b.SourceLocale,
		TargetLocale: b.TargetLocale,
		Key:          b.Key,
		Path:         b.Path,
		Kind:         r.Kind(),
		Context:      b.Context,
		Flavor:       b.Flavor,
		Datatype:     b.DatatypeGroup(),
	}
}

// Ptr returns a pointer to s, for building sparse arrays.
func Ptr(s string) *string { return &s }

// ArrayOf builds a dense array payload.
func ArrayOf(vals ...string) []*string {
	out := make([]*string, len(vals))
	for i, v := range vals {
		out[i] = &v
	}
	return out
}
