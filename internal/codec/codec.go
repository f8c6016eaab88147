package codec

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"workforce/internal/domain"
)

// ErrUnsupportedFormat is returned when no codec handles a format or extension
var ErrUnsupportedFormat = errors.New("unsupported format")

// Importer interface for importing positions from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.PositionSet, error)
	Format() string
}

// Exporter interface for exporting reports to various formats
type Exporter interface {
	Export(report *domain.Report, w io.Writer) error
	Format() string
}

// ImporterFor picks an importer by file extension
func ImporterFor(path string) (Importer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONCodec(), nil
	case ".yaml", ".yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// ExporterFor picks an exporter by format name. color only affects the
// text exporter.
func ExporterFor(format string, color bool) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "markdown", "md":
		return NewMarkdownCodec(), nil
	case "text", "":
		return NewTextCodec(color), nil
	case "html":
		return NewHTMLCodec(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
