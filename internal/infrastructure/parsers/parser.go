// Package parsers reads exported catalogs back into entities.
package parsers

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

// Parser defines the interface for parsing entities from various formats.
type Parser interface {
	Parse(r io.Reader) ([]entities.Entity, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// normalize fills the identifier from the source URL when it is missing.
// Non-positive identifiers count as missing.
func normalize(e *entities.Entity) {
	if e.Identifier > 0 {
		return
	}
	e.Identifier = 0
	if id, ok := entities.ParseIdentifier(e.SourceURL); ok {
		e.Identifier = id
	}
}
