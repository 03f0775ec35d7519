package filewalker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"loctool/internal/parser"

	"github.com/rs/zerolog/log"
)

// Walker traverses directories and dispatches files to the correct parser.
type Walker struct {
	parsers []parser.Parser
}

// NewWalker creates a Walker over the given parsers.
func NewWalker(parsers ...parser.Parser) *Walker {
	return &Walker{parsers: parsers}
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	Path   string
	Ext    string
	Parser parser.Parser
}

// Walk discovers all files under root that one of the parsers accepts, in
// lexical order. A root that is a file yields that file alone.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		entry, ok := w.entry(root)
		if !ok {
			return nil, fmt.Errorf("no parser for %s", root)
		}
		return []FileEntry{entry}, nil
	}

	var entries []FileEntry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if entry, ok := w.entry(path); ok {
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered files")
	return entries, nil
}

func (w *Walker) entry(path string) (FileEntry, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, p := range w.parsers {
		if p.CanParse(ext) {
			return FileEntry{Path: path, Ext: ext, Parser: p}, true
		}
	}
	return FileEntry{}, false
}

// ParseFile parses a single file using the appropriate parser.
func (w *Walker) ParseFile(entry FileEntry) (*parser.ParseResult, error) {
	return entry.Parser.Parse(entry.Path)
}
