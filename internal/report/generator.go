// Package report renders a list of classified differences as markdown, JSON,
// CSV or a standalone HTML page.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/escape"
	"github.com/mcncl/jsondelta/internal/models"
)

const (
	// DefaultTitle heads every report unless WithTitle overrides it
	DefaultTitle = "JSON Diff Report"
	// DefaultVersion is written into the metadata of JSON reports
	DefaultVersion = "1.0.0"

	hiddenPath    = "(path hidden)"
	emptyOriginal = "// empty"
	footer        = "Generated by jsondelta"

	localTimeLayout = "2006-01-02 15:04:05"
	isoTimeLayout   = "2006-01-02T15:04:05.000Z07:00"
)

// Generator renders reports. The zero value is not usable, use NewGenerator.
type Generator struct {
	now     func() time.Time
	version string
	title   string
}

// Option configures a Generator
type Option func(*Generator)

// WithClock replaces the time source used for report timestamps
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithVersion sets the version recorded in JSON report metadata
func WithVersion(version string) Option {
	return func(g *Generator) {
		if version != "" {
			g.version = version
		}
	}
}

// WithTitle sets the report heading
func WithTitle(title string) Option {
	return func(g *Generator) {
		if title != "" {
			g.title = title
		}
	}
}

// NewGenerator creates a new Generator instance
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		now:     time.Now,
		version: DefaultVersion,
		title:   DefaultTitle,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders diffs in the requested format
func (g *Generator) Generate(format Format, diffs []models.DiffEntry, leftText, rightText string, cfg models.RenderConfig) (string, error) {
	switch format {
	case FormatMarkdown:
		return g.Markdown(diffs, leftText, rightText, cfg), nil
	case FormatJSON:
		return g.JSON(diffs, leftText, rightText, cfg), nil
	case FormatCSV:
		return g.CSV(diffs, leftText, rightText, cfg), nil
	case FormatHTML:
		return g.HTML(diffs, leftText, rightText, cfg), nil
	default:
		// Aliases such as "md" or "structuredText" resolve to one of the cases above
		f, err := ParseFormat(string(format))
		if err != nil {
			return "", err
		}
		return g.Generate(f, diffs, leftText, rightText, cfg)
	}
}

func indentFor(cfg models.RenderConfig) int {
	if cfg.PrettyPrint {
		return codec.DefaultIndent
	}
	return 0
}

func renderValue(v models.JSONValue, cfg models.RenderConfig) string {
	return codec.Stringify(v, indentFor(cfg))
}

func displayPath(d models.DiffEntry, cfg models.RenderConfig) string {
	if cfg.IncludePaths {
		return d.Path
	}
	return hiddenPath
}

func originalOrPlaceholder(text string) string {
	if text == "" {
		return emptyOriginal
	}
	return text
}

// Markdown renders a titled outline with a fenced json block for each value
func (g *Generator) Markdown(diffs []models.DiffEntry, leftText, rightText string, cfg models.RenderConfig) string {
	stats := CalculateStats(diffs)
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n**Generated**: %s\n\n", g.title, g.now().Format(localTimeLayout)))

	if cfg.IncludeStats {
		buf.WriteString("## 📊 Statistics\n\n| Type | Count |\n|------|------|\n")
		buf.WriteString(fmt.Sprintf("| Added | %d |\n| Removed | %d |\n| Modified | %d |\n| **Total** | **%d** |\n\n",
			stats.Added, stats.Removed, stats.Modified, stats.Total))
	}

	buf.WriteString("## 📋 Differences\n\n")

	for i, d := range diffs {
		buf.WriteString(fmt.Sprintf("### %d. %s\n\n**Type**: `%s`\n\n", i+1, displayPath(d, cfg), strings.ToUpper(string(d.Type))))

		if old, ok := d.Old(); ok {
			buf.WriteString(fmt.Sprintf("**Old value**:\n```json\n%s\n```\n\n", renderValue(old, cfg)))
		}
		if nv, ok := d.New(); ok {
			buf.WriteString(fmt.Sprintf("**New value**:\n```json\n%s\n```\n\n", renderValue(nv, cfg)))
		}

		buf.WriteString("---\n\n")
	}

	if cfg.IncludeOriginal {
		buf.WriteString("## 📄 Original Data\n\n")
		buf.WriteString(fmt.Sprintf("### Left\n```json\n%s\n```\n\n", originalOrPlaceholder(leftText)))
		buf.WriteString(fmt.Sprintf("### Right\n```json\n%s\n```\n\n", originalOrPlaceholder(rightText)))
	}

	buf.WriteString("*" + footer + "*")
	return buf.String()
}

// JSON renders one document holding metadata, an optional summary, the
// differences and optionally both original documents in parsed form.
// Each difference only carries the fields that apply to it.
func (g *Generator) JSON(diffs []models.DiffEntry, leftText, rightText string, cfg models.RenderConfig) string {
	output := models.NewObject()
	output.Set("metadata", models.ObjectOf(
		"generatedAt", g.now().UTC().Format(isoTimeLayout),
		"version", g.version,
	))

	if cfg.IncludeStats {
		stats := CalculateStats(diffs)
		output.Set("summary", models.ObjectOf(
			"total", stats.Total,
			"added", stats.Added,
			"removed", stats.Removed,
			"modified", stats.Modified,
		))
	}

	differences := models.NewArray()
	for _, d := range diffs {
		item := models.ObjectOf("type", string(d.Type))
		if cfg.IncludePaths {
			item.Set("path", d.Path)
		}
		if old, ok := d.Old(); ok {
			item.Set("oldValue", old)
		}
		if nv, ok := d.New(); ok {
			item.Set("newValue", nv)
		}
		differences.Append(item)
	}
	output.Set("differences", differences)

	if cfg.IncludeOriginal {
		output.Set("originalData", models.ObjectOf(
			"left", codec.Parse(leftText, nil),
			"right", codec.Parse(rightText, nil),
		))
	}

	return codec.Stringify(output, indentFor(cfg))
}

// CSV renders a header row and one row per difference. Values are always
// compact. Statistics and original documents follow as extra row groups, each
// after a blank line.
func (g *Generator) CSV(diffs []models.DiffEntry, leftText, rightText string, cfg models.RenderConfig) string {
	var buf bytes.Buffer

	if cfg.IncludePaths {
		buf.WriteString("Path,Type,OldValue,NewValue\n")
	} else {
		buf.WriteString("Type,OldValue,NewValue\n")
	}

	rows := make([]string, 0, len(diffs))
	for _, d := range diffs {
		fields := make([]string, 0, 4)
		if cfg.IncludePaths {
			fields = append(fields, escape.TabularField(d.Path))
		}
		fields = append(fields, escape.TabularField(string(d.Type)))

		oldField, newField := "", ""
		if old, ok := d.Old(); ok {
			oldField = escape.TabularField(codec.Stringify(old, 0))
		}
		if nv, ok := d.New(); ok {
			newField = escape.TabularField(codec.Stringify(nv, 0))
		}
		rows = append(rows, strings.Join(append(fields, oldField, newField), ","))
	}
	buf.WriteString(strings.Join(rows, "\n"))

	if cfg.IncludeStats {
		stats := CalculateStats(diffs)
		buf.WriteString(fmt.Sprintf("\n\nStatistics\nAdded,%d\nRemoved,%d\nModified,%d\nTotal,%d",
			stats.Added, stats.Removed, stats.Modified, stats.Total))
	}

	if cfg.IncludeOriginal {
		buf.WriteString("\n\nOriginal Data")
		buf.WriteString("\nLeft," + escape.TabularField(originalOrPlaceholder(leftText)))
		buf.WriteString("\nRight," + escape.TabularField(originalOrPlaceholder(rightText)))
	}

	return buf.String()
}
