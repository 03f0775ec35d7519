// Package diff renders readable differences between expected and actual
// XLIFF output and resource lists.
package diff

import (
	"strings"

	"loctool/internal/resource"

	"github.com/google/go-cmp/cmp"
)

// Text returns a line-oriented diff of want and got, or "" when they are equal.
func Text(want, got string) string {
	if want == got {
		return ""
	}
	return cmp.Diff(strings.Split(want, "\n"), strings.Split(got, "\n"))
}

// Snapshot is a comparable view of a resource with its instances flattened.
type Snapshot struct {
	Kind          resource.Kind
	Project       string
	Key           string
	Path          string
	SourceLocale  string
	TargetLocale  string
	Context       string
	Comment       string
	Flavor        string
	Datatype      string
	ID            string
	State         string
	Source        string
	Target        string
	SourceArray   []*string
	TargetArray   []*string
	SourcePlurals map[string]string
	TargetPlurals map[string]string
	Instances     []Snapshot
}

// Snap builds the snapshot of r.
func Snap(r resource.Resource) Snapshot {
	b := r.Meta()
	s := Snapshot{
		Kind:         r.Kind(),
		Project:      b.Project,
		Key:          b.Key,
		Path:         b.Path,
		SourceLocale: b.SourceLocale,
		TargetLocale: b.TargetLocale,
		Context:      b.Context,
		Comment:      b.Comment,
		Flavor:       b.Flavor,
		Datatype:     b.Datatype,
		ID:           b.ID,
		State:        b.State,
	}
	switch res := r.(type) {
	case *resource.Array:
		s.SourceArray = res.SourceArray
		s.TargetArray = res.TargetArray
	case *resource.Plural:
		s.SourcePlurals = res.SourcePlurals
		s.TargetPlurals = res.TargetPlurals
	default:
		if str, ok := resource.AsString(r); ok {
			s.Source = str.Source
			s.Target = str.Target
		}
	}
	for _, inst := range r.Instances() {
		s.Instances = append(s.Instances, Snap(inst))
	}
	return s
}

// Resources diffs two resource lists by content, or returns "" when equal.
func Resources(want, got []resource.Resource) string {
	return cmp.Diff(snapAll(want), snapAll(got))
}

func snapAll(rs []resource.Resource) []Snapshot {
	out := make([]Snapshot, 0, len(rs))
	for _, r := range rs {
		out = append(out, Snap(r))
	}
	return out
}
