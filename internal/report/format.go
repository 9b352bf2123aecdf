package report

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/jsondelta/internal/errors"
)

// Format selects one of the report encodings
type Format string

const (
	// FormatMarkdown is a titled outline with fenced code blocks per value
	FormatMarkdown Format = "markdown"
	// FormatJSON is a single structured document
	FormatJSON Format = "json"
	// FormatCSV is one comma separated row per difference
	FormatCSV Format = "csv"
	// FormatHTML is a standalone styled page with one card per difference
	FormatHTML Format = "html"
)

// Formats lists every supported format in a stable order
var Formats = []Format{FormatMarkdown, FormatJSON, FormatCSV, FormatHTML}

// formatAliases maps kebab-cased names onto formats
var formatAliases = map[string]Format{
	"markdown":        FormatMarkdown,
	"md":              FormatMarkdown,
	"structured-text": FormatMarkdown,
	"json":            FormatJSON,
	"structured-data": FormatJSON,
	"csv":             FormatCSV,
	"tabular":         FormatCSV,
	"html":            FormatHTML,
	"markup":          FormatHTML,
	"markup-document": FormatHTML,
}

// ParseFormat resolves a format name. Names are matched in any case style, so
// "structuredText", "structured_text" and "STRUCTURED-TEXT" are all markdown.
func ParseFormat(name string) (Format, error) {
	key := strcase.ToKebab(strings.TrimSpace(name))
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	return "", errors.NewReportError(fmt.Sprintf("unknown report format %q", name), errors.ErrUnknownFormat)
}

// String implements fmt.Stringer
func (f Format) String() string {
	return string(f)
}

// ContentType returns the MIME type to serve a report of this format with
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension, including the dot, for saved reports
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	case FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}
