package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func values(ps []Placeholder) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Value)
	}
	return out
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "Hello world", nil},
		{"numbered", "{0} of {1}", []string{"{0}", "{1}"}},
		{"named brace", "There are {n} objects.", []string{"{n}"}},
		{"dollar brace", "Hi ${name}!", []string{"${name}"}},
		{"printf", "%d files, %s left, 100%%", []string{"%d", "%s", "%%"}},
		{"positional printf", "%1$s and %2$d", []string{"%1$s", "%2$d"}},
		{"mixed order", "%s {0} ${x}", []string{"%s", "{0}", "${x}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, values(Extract(tt.text)))
		})
	}
}

func TestExtractPositions(t *testing.T) {
	ps := Extract("a ${b} c")
	if assert.Len(t, ps, 1) {
		assert.Equal(t, 2, ps[0].Start)
		assert.Equal(t, 6, ps[0].End)
	}
}

func TestMissing(t *testing.T) {
	assert.Empty(t, Missing("There are {n} objects.", "Da gibts {n} Objekten."))
	assert.Equal(t, []string{"{n}"}, Missing("There are {n} objects.", "Da gibts Objekten."))
	assert.Equal(t, []string{"{0}"}, Missing("{0} and {0}", "{0} und"))
	assert.Empty(t, Missing("100%% done", "fertig"))
	assert.Empty(t, Missing("%1$s of %2$s", "%2$s von %1$s"))
}
