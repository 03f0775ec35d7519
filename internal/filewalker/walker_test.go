package filewalker

import (
	"os"
	"path/filepath"
	"testing"

	"loctool/internal/parser"
	"loctool/internal/xliff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimal = `<?xml version="1.0" encoding="utf-8"?>
<xliff version="1.2">
  <file original="a.java" source-language="en-US" product-name="webapp">
    <body>
      <trans-unit id="1" resname="k" restype="string">
        <source>Asdf</source>
      </trans-unit>
    </body>
  </file>
</xliff>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWalkFindsXliffFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.xliff"), minimal)
	writeFile(t, filepath.Join(root, "sub", "a.xlf"), minimal)
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")

	w := NewWalker(parser.NewXliffFileType(xliff.Options{}))
	entries, err := w.Walk(root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, filepath.Join(root, "b.xliff"), entries[0].Path)
	assert.Equal(t, ".xlf", entries[1].Ext)

	res, err := w.ParseFile(entries[0])
	require.NoError(t, err)
	assert.Equal(t, 1, res.Xliff.Size())
}

func TestWalkSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.xliff")
	writeFile(t, path, minimal)

	entries, err := NewWalker(parser.NewXliffFileType(xliff.Options{})).Walk(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, path, entries[0].Path)
}

func TestWalkRejects(t *testing.T) {
	w := NewWalker(parser.NewXliffFileType(xliff.Options{}))

	_, err := w.Walk(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	txt := filepath.Join(t.TempDir(), "notes.txt")
	writeFile(t, txt, "x")
	_, err = w.Walk(txt)
	assert.Error(t, err)
}
