package diff

import (
	"testing"

	"loctool/internal/resource"

	"github.com/stretchr/testify/assert"
)

func TestTextEqual(t *testing.T) {
	assert.Empty(t, Text("a\nb", "a\nb"))
}

func TestTextReportsChangedLine(t *testing.T) {
	d := Text("a\nb\nc", "a\nx\nc")
	assert.Contains(t, d, `"b"`)
	assert.Contains(t, d, `"x"`)
}

func TestResources(t *testing.T) {
	b := resource.Base{Project: "p", Key: "k", SourceLocale: "en-US"}
	a := []resource.Resource{resource.NewString(b, "one", "")}
	same := []resource.Resource{resource.NewString(b, "one", "")}
	other := []resource.Resource{resource.NewString(b, "two", "")}

	assert.Empty(t, Resources(a, same))
	assert.Contains(t, Resources(a, other), "two")
}

func TestSnapIncludesPayloadAndInstances(t *testing.T) {
	b := resource.Base{Project: "p", Key: "k", SourceLocale: "en-US"}
	arr := resource.NewArray(b, resource.ArrayOf("x"), nil)
	dup := resource.NewArray(b, resource.ArrayOf("y"), nil)
	assert.NoError(t, arr.AddInstance(dup))

	s := Snap(arr)
	assert.Equal(t, resource.KindArray, s.Kind)
	assert.Equal(t, "x", *s.SourceArray[0])
	assert.Len(t, s.Instances, 1)
}
