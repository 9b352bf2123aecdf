package cli

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/compare"
	"github.com/mcncl/jsondelta/internal/config"
	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/models"
	"github.com/mcncl/jsondelta/internal/report"
)

// compareFlags tune a comparison on top of the configured settings
type compareFlags struct {
	IgnoreOrder      bool     `help:"Treat arrays holding the same elements in another order as equal."`
	StrictWhitespace bool     `help:"Compare strings without trimming surrounding whitespace."`
	IgnoreCase       bool     `help:"Compare strings case-insensitively."`
	MaxDifferences   int      `help:"Stop after this many differences, 0 means unlimited."`
	Ignore           []string `help:"Regular expression matching paths to leave out. Repeatable." sep:"none"`
}

func (f compareFlags) overrides() config.Overrides {
	o := config.Overrides{IgnorePaths: f.Ignore}
	if f.IgnoreOrder {
		o.IgnoreOrder = boolPtr(true)
	}
	if f.StrictWhitespace {
		o.IgnoreWhitespace = boolPtr(false)
	}
	if f.IgnoreCase {
		o.CaseSensitive = boolPtr(false)
	}
	if f.MaxDifferences > 0 {
		limit := f.MaxDifferences
		o.MaxDifferences = &limit
	}
	return o
}

func boolPtr(b bool) *bool {
	return &b
}

// newComparer picks the remote comparer when a service URL is configured
func newComparer(cfg *config.Config, logger *log.Logger) compare.Comparer {
	remote := cfg.Compare.Remote
	if remote.URL == "" {
		return compare.NewLocal(logger)
	}

	// Durations were checked by Validate
	timeout, _ := remote.TimeoutDuration()
	delay, _ := remote.RetryDelayDuration()
	logger.Debug("using comparison service", "url", remote.URL, "timeout", timeout, "retries", remote.Retries)
	return compare.NewRemote(remote.URL,
		compare.WithHTTPClient(&http.Client{Timeout: timeout}),
		compare.WithRetry(remote.Retries+1, delay),
		compare.WithLogger(logger),
	)
}

// comparison is a finished run over two documents
type comparison struct {
	cfg       *config.Config
	diffs     []models.DiffEntry
	leftText  string
	rightText string
}

func (g *Globals) compareFiles(left, right string, o config.Overrides) (*comparison, error) {
	cfg, err := g.Config.MergeCLI(o)
	if err != nil {
		return nil, err
	}
	l, r, lText, rText, err := g.readPair(left, right)
	if err != nil {
		return nil, err
	}

	diffs, err := newComparer(cfg, g.Logger).Compare(g.Context, l, r, cfg.Compare.ComparerSettings())
	if err != nil {
		return nil, err
	}
	kept := cfg.Compare.Filter(diffs)
	if len(kept) < len(diffs) {
		g.Logger.Debug("filtered differences", "found", len(diffs), "kept", len(kept))
	}
	return &comparison{cfg: cfg, diffs: kept, leftText: lText, rightText: rText}, nil
}

// ReportCmd renders a difference report
type ReportCmd struct {
	Left  string `arg:"" help:"Original JSON file, - for stdin."`
	Right string `arg:"" help:"Changed JSON file, - for stdin."`

	Format   string `help:"Report format: markdown, json, csv or html." short:"f"`
	Title    string `help:"Report title."`
	Output   string `help:"Write the report to a file instead of stdout." short:"o" type:"path"`
	Remote   string `help:"Compare through the service at this base URL, e.g. http://localhost:8080/api."`
	NoStats  bool   `help:"Leave out the summary statistics."`
	NoPaths  bool   `help:"Leave out the path of every difference."`
	Original bool   `help:"Append both original documents."`
	Compact  bool   `help:"Embed the original documents without pretty printing."`

	Compare compareFlags `embed:""`
}

// Run executes the report command
func (c *ReportCmd) Run(g *Globals) error {
	o := c.Compare.overrides()
	o.Format = c.Format
	o.Title = c.Title
	o.RemoteURL = c.Remote
	if c.NoStats {
		o.IncludeStats = boolPtr(false)
	}
	if c.NoPaths {
		o.IncludePaths = boolPtr(false)
	}
	if c.Original {
		o.IncludeOriginal = boolPtr(true)
	}
	if c.Compact {
		o.PrettyPrint = boolPtr(false)
	}

	result, err := g.compareFiles(c.Left, c.Right, o)
	if err != nil {
		return err
	}

	gen := report.NewGenerator(report.WithVersion(Version), report.WithTitle(result.cfg.Report.Title))
	out, err := gen.Generate(result.cfg.ReportFormat(), result.diffs, result.leftText, result.rightText, result.cfg.Report.Render)
	if err != nil {
		return err
	}
	return g.writeOutput(c.Output, out)
}

// DiffCmd lists differences one per line
type DiffCmd struct {
	Left  string `arg:"" help:"Original JSON file, - for stdin."`
	Right string `arg:"" help:"Changed JSON file, - for stdin."`

	JSON   bool   `help:"Print the differences as a JSON array with $-rooted paths." name:"json"`
	Output string `help:"Write to a file instead of stdout." short:"o" type:"path"`
	Remote string `help:"Compare through the service at this base URL."`

	Compare compareFlags `embed:""`
}

// Run executes the diff command
func (c *DiffCmd) Run(g *Globals) error {
	o := c.Compare.overrides()
	o.RemoteURL = c.Remote

	result, err := g.compareFiles(c.Left, c.Right, o)
	if err != nil {
		return err
	}
	if c.JSON {
		return g.writeDocument(c.Output, compare.EncodeDifferences(result.diffs), codec.DefaultIndent)
	}
	return g.writeOutput(c.Output, formatDiffs(result.diffs))
}

// formatDiffs renders entries as "+ path: new", "- path: old" and
// "~ path: old -> new" lines followed by a summary
func formatDiffs(diffs []models.DiffEntry) string {
	if len(diffs) == 0 {
		return "No differences"
	}

	var b strings.Builder
	for _, d := range diffs {
		path := d.Path
		if path == "" {
			path = "(root)"
		}
		old, _ := d.Old()
		nv, _ := d.New()
		switch d.Type {
		case models.DiffAdded:
			fmt.Fprintf(&b, "+ %s: %s\n", path, codec.Stringify(nv, 0))
		case models.DiffRemoved:
			fmt.Fprintf(&b, "- %s: %s\n", path, codec.Stringify(old, 0))
		default:
			fmt.Fprintf(&b, "~ %s: %s -> %s\n", path, codec.Stringify(old, 0), codec.Stringify(nv, 0))
		}
	}

	stats := report.CalculateStats(diffs)
	noun := "differences"
	if stats.Total == 1 {
		noun = "difference"
	}
	fmt.Fprintf(&b, "\n%d %s (%d added, %d removed, %d modified)", stats.Total, noun, stats.Added, stats.Removed, stats.Modified)
	return b.String()
}

// PatchCmd prints an RFC 6902 patch between two documents
type PatchCmd struct {
	Left  string `arg:"" help:"Original JSON file, - for stdin."`
	Right string `arg:"" help:"Changed JSON file, - for stdin."`

	Indent int    `help:"Indent width, 0 for a single line." default:"2"`
	Output string `help:"Write the patch to a file instead of stdout." short:"o" type:"path"`

	Compare compareFlags `embed:""`
}

// Run executes the patch command
func (c *PatchCmd) Run(g *Globals) error {
	cfg, err := g.Config.MergeCLI(c.Compare.overrides())
	if err != nil {
		return err
	}
	l, r, _, _, err := g.readPair(c.Left, c.Right)
	if err != nil {
		return err
	}

	patch, err := compare.NewLocal(g.Logger).Patch(l, r, cfg.Compare.Settings)
	if err != nil {
		return err
	}
	out, err := compare.MarshalPatch(patch, c.Indent)
	if err != nil {
		return err
	}
	return g.writeOutput(c.Output, string(out))
}

// ApplyCmd applies an RFC 6902 patch
type ApplyCmd struct {
	File  string `arg:"" help:"JSON document, - for stdin."`
	Patch string `arg:"" help:"JSON patch file, - for stdin."`

	Indent int    `help:"Indent width, 0 for a single line." default:"2"`
	Output string `help:"Write the result to a file instead of stdout." short:"o" type:"path"`
}

// Run executes the apply command
func (c *ApplyCmd) Run(g *Globals) error {
	if isStdin(c.File) && isStdin(c.Patch) {
		return errors.NewInputError("only one of the document and the patch can be read from stdin", errors.ErrInvalidFilePath)
	}
	doc, _, err := g.readDocument(c.File)
	if err != nil {
		return err
	}
	patchText, err := g.readText(c.Patch)
	if err != nil {
		return err
	}

	patched, err := compare.ApplyPatch(doc, []byte(patchText))
	if err != nil {
		return err
	}
	return g.writeDocument(c.Output, patched, c.Indent)
}
