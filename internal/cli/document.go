package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/convert"
	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/paths"
	"github.com/mcncl/jsondelta/internal/tree"
)

// GetCmd prints the value at a path
type GetCmd struct {
	File   string `arg:"" help:"JSON file, - for stdin."`
	Path   string `arg:"" help:"Path such as users[0].name; empty for the whole document."`
	Indent int    `help:"Indent width, 0 for a single line." default:"2"`
}

// Run executes the get command
func (c *GetCmd) Run(g *Globals) error {
	doc, _, err := g.readDocument(c.File)
	if err != nil {
		return err
	}
	v, ok := paths.Resolve(doc, c.Path)
	if !ok {
		return errors.NewPathError(fmt.Sprintf("nothing at %q", c.Path), errors.ErrPathNotFound)
	}
	return g.writeDocument("", v, c.Indent)
}

// SetCmd writes a value at a path
type SetCmd struct {
	File   string `arg:"" help:"JSON file, - for stdin."`
	Path   string `arg:"" help:"Path to write, e.g. address.city or tags[2]."`
	Value  string `arg:"" help:"Value as JSON. Text that is not JSON is stored as a string."`
	Indent int    `help:"Indent width, 0 for a single line." default:"2"`
	Output string `help:"Write the result to a file instead of stdout." short:"o" type:"path"`
}

// Run executes the set command
func (c *SetCmd) Run(g *Globals) error {
	doc, _, err := g.readDocument(c.File)
	if err != nil {
		return err
	}
	value := codec.Parse(c.Value, c.Value)
	if c.Path == "" {
		return g.writeDocument(c.Output, value, c.Indent)
	}
	paths.Write(doc, c.Path, value)
	if _, ok := paths.Resolve(doc, c.Path); !ok {
		return errors.NewPathError(
			fmt.Sprintf("cannot write %q, the document root is %s", c.Path, tree.TypeOf(doc)), errors.ErrPathNotFound)
	}
	return g.writeDocument(c.Output, doc, c.Indent)
}

// DeleteCmd removes the value at a path
type DeleteCmd struct {
	File   string `arg:"" help:"JSON file, - for stdin."`
	Path   string `arg:"" help:"Path to remove."`
	Indent int    `help:"Indent width, 0 for a single line." default:"2"`
	Output string `help:"Write the result to a file instead of stdout." short:"o" type:"path"`
}

// Run executes the delete command
func (c *DeleteCmd) Run(g *Globals) error {
	doc, _, err := g.readDocument(c.File)
	if err != nil {
		return err
	}
	paths.Delete(doc, c.Path)
	return g.writeDocument(c.Output, doc, c.Indent)
}

// PathsCmd lists every path in a document
type PathsCmd struct {
	File    string `arg:"" help:"JSON file, - for stdin."`
	Prefix  string `help:"Prefix prepended to every path."`
	Pointer bool   `help:"Print RFC 6901 JSON pointers instead of dotted paths."`
}

// Run executes the paths command
func (c *PathsCmd) Run(g *Globals) error {
	doc, _, err := g.readDocument(c.File)
	if err != nil {
		return err
	}
	listed := paths.Enumerate(doc, c.Prefix)
	if c.Pointer {
		for i, p := range listed {
			listed[i] = paths.ToPointer(p)
		}
	}
	if len(listed) == 0 {
		return nil
	}
	return g.writeOutput("", strings.Join(listed, "\n"))
}

// FormatCmd pretty-prints a document
type FormatCmd struct {
	File   string `arg:"" help:"JSON file, - for stdin."`
	Indent int    `help:"Indent width." default:"2"`
	Output string `help:"Write the result to a file instead of stdout." short:"o" type:"path"`
}

// Run executes the format command
func (c *FormatCmd) Run(g *Globals) error {
	doc, _, err := g.readDocument(c.File)
	if err != nil {
		return err
	}
	indent := c.Indent
	if indent <= 0 {
		indent = codec.DefaultIndent
	}
	return g.writeDocument(c.Output, doc, indent)
}

// CompressCmd prints a document on a single line
type CompressCmd struct {
	File   string `arg:"" help:"JSON file, - for stdin."`
	Output string `help:"Write the result to a file instead of stdout." short:"o" type:"path"`
}

// Run executes the compress command
func (c *CompressCmd) Run(g *Globals) error {
	doc, _, err := g.readDocument(c.File)
	if err != nil {
		return err
	}
	return g.writeDocument(c.Output, doc, 0)
}

// ValidateCmd reports syntax errors with their position
type ValidateCmd struct {
	File string `arg:"" help:"JSON file, - for stdin."`
}

// Run executes the validate command
func (c *ValidateCmd) Run(g *Globals) error {
	text, err := g.readText(c.File)
	if err != nil {
		return err
	}

	result := codec.Validate(text)
	if !result.Valid {
		message := result.Error
		if result.Line > 0 {
			message = fmt.Sprintf("line %d, column %d: %s", result.Line, result.Column, result.Error)
		}
		return errors.NewParsingError(message, errors.ErrInvalidJSON)
	}

	doc := codec.Parse(text, nil)
	return g.writeOutput("", fmt.Sprintf("valid JSON (%s)", tree.TypeOf(doc)))
}

// NormalizeCmd sorts keys recursively
type NormalizeCmd struct {
	File   string `arg:"" help:"JSON file, - for stdin."`
	Indent int    `help:"Indent width, 0 for a single line." default:"2"`
	Output string `help:"Write the result to a file instead of stdout." short:"o" type:"path"`
}

// Run executes the normalize command
func (c *NormalizeCmd) Run(g *Globals) error {
	doc, _, err := g.readDocument(c.File)
	if err != nil {
		return err
	}
	return g.writeDocument(c.Output, tree.NormalizeKeys(doc), c.Indent)
}

// InfoCmd summarizes the shape of a document
type InfoCmd struct {
	File string `arg:"" help:"JSON file, - for stdin."`
}

// Run executes the info command
func (c *InfoCmd) Run(g *Globals) error {
	doc, text, err := g.readDocument(c.File)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Type:  %s\n", tree.TypeOf(doc))
	fmt.Fprintf(&b, "Depth: %d\n", tree.Depth(doc))
	fmt.Fprintf(&b, "Nodes: %d\n", tree.Size(doc))
	fmt.Fprintf(&b, "Paths: %d\n", len(paths.Enumerate(doc, "")))
	fmt.Fprintf(&b, "Bytes: %d", len(text))
	return g.writeOutput("", b.String())
}

// XMLCmd renders a document as nested markup
type XMLCmd struct {
	File     string `arg:"" help:"JSON file, - for stdin."`
	RootName string `help:"Name of the outermost element. Defaults to the configured root name."`
	Output   string `help:"Write the result to a file instead of stdout." short:"o" type:"path"`
}

// Run executes the xml command
func (c *XMLCmd) Run(g *Globals) error {
	doc, _, err := g.readDocument(c.File)
	if err != nil {
		return err
	}
	rootName := c.RootName
	if rootName == "" {
		rootName = g.Config.Report.RootName
	}
	return g.writeOutput(c.Output, tree.ToMarkup(doc, rootName))
}

// ConvertCmd converts a document between formats
type ConvertCmd struct {
	File     string `arg:"" help:"Input file, - for stdin."`
	From     string `help:"Input format: json, yaml or toml. Guessed from the file extension when omitted."`
	To       string `help:"Output format: json, yaml or xml." required:""`
	RootName string `help:"Name of the outermost element for xml output. Defaults to the configured root name."`
	Indent   int    `help:"Indent width for json output, 0 for a single line." default:"2"`
	Output   string `help:"Write the result to a file instead of stdout." short:"o" type:"path"`
}

// Run executes the convert command
func (c *ConvertCmd) Run(g *Globals) error {
	text, err := g.readText(c.File)
	if err != nil {
		return err
	}

	from := c.From
	if from == "" {
		from = formatFromExtension(c.File)
	}
	opts := convert.DefaultOptions()
	opts.Indent = c.Indent
	opts.RootName = g.Config.Report.RootName
	if c.RootName != "" {
		opts.RootName = c.RootName
	}

	g.Logger.Debug("converting", "from", from, "to", c.To)
	out, err := convert.Convert(text, from, c.To, opts)
	if err != nil {
		return err
	}
	return g.writeOutput(c.Output, out)
}

func formatFromExtension(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml":
		return string(convert.YAML)
	case ".toml":
		return string(convert.TOML)
	case ".xml":
		return string(convert.XML)
	default:
		return string(convert.JSON)
	}
}
