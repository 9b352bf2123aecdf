// Package cli implements the jsondelta command line. Run parses arguments with
// kong, loads the configuration and dispatches to one command's Run method.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/mcncl/jsondelta/internal/config"
	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/logging"
)

// Version information
const (
	Version = "0.1.0"
)

// CLI defines the command-line interface
type CLI struct {
	Config   string           `help:"Path to a YAML or TOML config file. Defaults to the nearest .jsondelta.{yml,yaml,toml}." short:"c" type:"path"`
	Debug    bool             `help:"Enable debug logging." short:"d"`
	LogLevel string           `help:"Log level: debug, info, warn or error." name:"log-level"`
	Version  kong.VersionFlag `help:"Show version information." short:"v"`

	Report     ReportCmd    `cmd:"" help:"Compare two documents and render a difference report."`
	Diff       DiffCmd      `cmd:"" help:"Compare two documents and list the differences."`
	Patch      PatchCmd     `cmd:"" help:"Print the RFC 6902 patch that turns LEFT into RIGHT."`
	Apply      ApplyCmd     `cmd:"" help:"Apply an RFC 6902 patch to a document."`
	Get        GetCmd       `cmd:"" help:"Print the value at a path."`
	Set        SetCmd       `cmd:"" help:"Write a value at a path, creating containers as needed."`
	Delete     DeleteCmd    `cmd:"" help:"Remove the value at a path."`
	Paths      PathsCmd     `cmd:"" help:"List every path in a document."`
	Format     FormatCmd    `cmd:"" help:"Pretty-print a document."`
	Compress   CompressCmd  `cmd:"" help:"Print a document without insignificant whitespace."`
	Validate   ValidateCmd  `cmd:"" help:"Check a document for syntax errors."`
	Normalize  NormalizeCmd `cmd:"" help:"Sort object keys recursively."`
	Info       InfoCmd      `cmd:"" help:"Show the type, depth and size of a document."`
	XML        XMLCmd       `cmd:"" name:"xml" help:"Render a document as nested markup."`
	Convert    ConvertCmd   `cmd:"" help:"Convert between JSON, YAML, TOML and XML."`
	Sample     SampleCmd    `cmd:"" help:"Print a built-in sample document pair."`
	Serve      ServeCmd     `cmd:"" help:"Run the HTTP API."`
	VersionCmd VersionCmd   `cmd:"" name:"version" help:"Show version information."`
}

// Globals is bound into every command's Run method
type Globals struct {
	Context context.Context
	Config  *config.Config
	Logger  *log.Logger
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// exitCode carries kong's requested exit status out of Parse
type exitCode int

// Run executes the command line in args and returns the process exit status
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) (status int) {
	defer func() {
		if r := recover(); r != nil {
			code, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			status = int(code)
		}
	}()

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("jsondelta"),
		kong.Description("Compare, inspect and transform JSON documents"),
		kong.Vars{"version": "jsondelta version " + Version},
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { panic(exitCode(code)) }),
	)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%v\n\nFor help, run: jsondelta --help\n", err)
		return 1
	}

	globals, err := cli.globals(stdin, stdout, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(err))
		return 1
	}

	if err := ctx.Run(globals); err != nil {
		_, _ = fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(err))
		return 1
	}
	return 0
}

// globals loads the configuration and builds the logger shared by commands
func (c *CLI) globals(stdin io.Reader, stdout, stderr io.Writer) (*Globals, error) {
	path := c.Config
	if path == "" {
		path = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(path, config.Overrides{LogLevel: c.LogLevel})
	if err != nil {
		return nil, err
	}

	level := logging.ParseLevel(cfg.Log.Level)
	if c.Debug {
		level = log.DebugLevel
	}
	logger := logging.New(stderr, level)
	log.SetDefault(logger)
	if path != "" {
		logger.Debug("loaded config", "path", path)
	}

	return &Globals{
		Context: logging.WithLogger(context.Background(), logger),
		Config:  cfg,
		Logger:  logger,
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
	}, nil
}
