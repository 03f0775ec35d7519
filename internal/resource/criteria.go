package resource

// Criteria selects resources by attribute. Empty fields match anything.
type Criteria struct {
	Key          string
	Kind         Kind
	Project      string
	Path         string
	SourceLocale string
	TargetLocale string
	// Locale matches the target locale, or the source locale of untranslated resources.
	Locale   string
	Context  string
	Datatype string
	Flavor   string
	State    string
}

// IsEmpty reports whether c selects every resource.
func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}

// Matches reports whether r satisfies every non-empty field.
func (c Criteria) Matches(r Resource) bool {
	b := r.Meta()
	return match(c.Key, b.Key) &&
		match(string(c.Kind), string(r.Kind())) &&
		match(c.Project, b.Project) &&
		match(c.Path, b.Path) &&
		match(c.SourceLocale, b.SourceLocale) &&
		match(c.TargetLocale, b.TargetLocale) &&
		match(c.Locale, b.Locale()) &&
		match(c.Context, b.Context) &&
		match(c.Datatype, b.Datatype) &&
		match(c.Flavor, b.Flavor) &&
		match(c.State, b.State)
}

func match(want, got string) bool {
	return want == "" || want == got
}

// Filter returns the resources matching c, preserving order.
func Filter(rs []Resource, c Criteria) []Resource {
	if c.IsEmpty() {
		return rs
	}
	var out []Resource
	for _, r := range rs {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
