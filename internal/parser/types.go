package parser

import "loctool/internal/xliff"

// ParseResult holds parsing output for a single file.
type ParseResult struct {
	// FilePath is the path the file was read from.
	FilePath string
	// FileType is the detected type (xliff).
	FileType string
	// Xliff holds the loaded resources. It is empty, never nil, when the
	// file could not be read.
	Xliff *xliff.Xliff
}

// Parser is the interface for all file format parsers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse loads the resources of a file.
	Parse(filePath string) (*ParseResult, error)
	// Write serializes result to filePath, creating parent directories.
	Write(result *ParseResult, filePath string) error
}
