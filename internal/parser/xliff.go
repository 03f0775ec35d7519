package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"loctool/internal/xliff"

	"github.com/rs/zerolog/log"
)

// XliffFileType reads and writes .xliff and .xlf files.
type XliffFileType struct {
	opts xliff.Options
}

// NewXliffFileType creates a parser whose engines start from opts. The
// version of a parsed file always follows the document.
func NewXliffFileType(opts xliff.Options) *XliffFileType {
	return &XliffFileType{opts: opts}
}

func (p *XliffFileType) CanParse(ext string) bool {
	switch strings.ToLower(ext) {
	case ".xliff", ".xlf":
		return true
	}
	return false
}

// Parse loads filePath. A missing file gives an empty result and a warning;
// malformed XML is an error.
func (p *XliffFileType) Parse(filePath string) (*ParseResult, error) {
	opts := p.opts
	opts.Path = filePath
	result := &ParseResult{
		FilePath: filePath,
		FileType: "xliff",
		Xliff:    xliff.New(opts),
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("file", filePath).Msg("XLIFF file not found, starting empty")
			return result, nil
		}
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}

	if err := result.Xliff.Deserialize(string(data)); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	log.Debug().
		Str("file", filePath).
		Int("resources", result.Xliff.Size()).
		Msg("Parsed XLIFF file")
	return result, nil
}

func (p *XliffFileType) Write(result *ParseResult, filePath string) error {
	if result == nil || result.Xliff == nil {
		return fmt.Errorf("write %s: nothing to write", filePath)
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(filePath, []byte(result.Xliff.Serialize()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filePath, err)
	}
	result.Xliff.SetPath(filePath)

	log.Info().
		Str("file", filePath).
		Int("resources", result.Xliff.Size()).
		Float64("version", result.Xliff.Version()).
		Msg("Wrote XLIFF file")
	return nil
}
