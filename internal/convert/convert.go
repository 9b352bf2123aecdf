// Package convert moves documents between JSON and the other text formats
// jsondelta understands. Everything passes through the ordered JSON model, so
// key order survives a JSON -> YAML -> JSON round trip.
package convert

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/models"
	"github.com/mcncl/jsondelta/internal/tree"
)

// Format is a document format name
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
	XML  Format = "xml"
)

// Options tune the output of Convert
type Options struct {
	// Indent is the JSON indent width, 0 for compact output
	Indent int
	// RootName names the outer XML element
	RootName string
}

// DefaultOptions returns pretty JSON output and the default XML root name
func DefaultOptions() Options {
	return Options{Indent: codec.DefaultIndent, RootName: tree.DefaultRootName}
}

// ParseFormat resolves a format name. "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	case "xml":
		return XML, nil
	}
	return "", errors.NewInputError(fmt.Sprintf("unsupported format: %s", name), nil)
}

// Convert reads content written in from and writes it out as to
func Convert(content, from, to string, opts Options) (string, error) {
	src, err := ParseFormat(from)
	if err != nil {
		return "", err
	}
	dst, err := ParseFormat(to)
	if err != nil {
		return "", err
	}

	v, err := Decode(src, content)
	if err != nil {
		return "", err
	}
	return Encode(dst, v, opts)
}

// Decode parses content written in format into a JSON value.
// XML cannot be read back since the markup form loses scalar types.
func Decode(format Format, content string) (models.JSONValue, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.NewInputError("nothing to convert", errors.ErrEmptyInput)
	}

	switch format {
	case JSON:
		return codec.ParseStrict(content)
	case YAML:
		return decodeYAML(content)
	case TOML:
		return decodeTOML(content)
	}
	return nil, errors.NewInputError(fmt.Sprintf("cannot read %s input", format), nil)
}

// Encode writes v in format
func Encode(format Format, v models.JSONValue, opts Options) (string, error) {
	switch format {
	case JSON:
		out, err := codec.Encode(v, opts.Indent)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case YAML:
		return encodeYAML(v)
	case XML:
		return tree.ToMarkup(v, opts.RootName), nil
	}
	return "", errors.NewInputError(fmt.Sprintf("cannot write %s output", format), nil)
}
