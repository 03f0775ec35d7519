package resource

// String is a single source string with an optional translation.
type String struct {
	Base
	Source string
	// Target is empty when the string has not been translated.
	Target string
}

// NewString creates a string resource, defaulting the datatype to plaintext.
func NewString(b Base, source, target string) *String {
	b.applyDefaults(DatatypePlaintext)
	return &String{Base: b, Source: source, Target: target}
}

func (s *String) Kind() Kind { return KindString }

func (s *String) HashKey() string { return hashKey("rs", &s.Base) }

func (s *String) CleanHashKey() string { return cleanHashKey("rs", &s.Base) }

func (s *String) Clone() Resource {
	c := *s
	c.Base = s.Base.clone()
	return &c
}

func (s *String) AddInstance(other Resource) error { return s.addInstance(s, other) }

func (s *String) HasTarget() bool { return s.Target != "" }

func (s *String) Equals(other Resource) bool {
	o, ok := AsString(other)
	if !ok {
		return false
	}
	return s.metaEquals(&o.Base) && s.Source == o.Source && s.Target == o.Target
}

func (s *String) str() *String { return s }

type stringer interface{ str() *String }

// AsString unwraps any string-kind resource, including context strings.
func AsString(r Resource) (*String, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.(stringer)
	if !ok {
		return nil, false
	}
	return s.str(), true
}

// ContextString is a string resource whose identity also depends on its
// context and datatype, as used by Android resource files.
type ContextString struct {
	String
}

// NewContextString creates a context-bearing string resource.
func NewContextString(b Base, source, target string) *ContextString {
	return &ContextString{String: *NewString(b, source, target)}
}

// ContextHashKey builds the hash key for a context string in the given locale.
func ContextHashKey(project, context, locale, key, datatype string) string {
	return joinKey("crs", project, context, locale, key, datatype)
}

func (c *ContextString) HashKey() string {
	return ContextHashKey(c.Project, c.Context, c.Locale(), c.Key, c.Datatype)
}

func (c *ContextString) CleanHashKey() string {
	return joinKey("crs", c.Project, c.Context, c.Locale(), c.Key)
}

func (c *ContextString) Clone() Resource {
	s := c.String.Clone().(*String)
	return &ContextString{String: *s}
}

func (c *ContextString) AddInstance(other Resource) error { return c.addInstance(c, other) }
