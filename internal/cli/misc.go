package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/compare"
	"github.com/mcncl/jsondelta/internal/config"
	"github.com/mcncl/jsondelta/internal/models"
	"github.com/mcncl/jsondelta/internal/samples"
	"github.com/mcncl/jsondelta/internal/server"
)

// SampleCmd prints one of the built-in sample pairs
type SampleCmd struct {
	Name string `arg:"" optional:"" help:"Sample name: basic, complex or array." default:"basic"`
	Side string `help:"Which document to print: left, right or both." enum:"left,right,both" default:"both"`
}

// Run executes the sample command
func (c *SampleCmd) Run(g *Globals) error {
	pair, err := samples.Get(c.Name)
	if err != nil {
		return err
	}

	var v models.JSONValue
	switch c.Side {
	case "left":
		v = pair.Left
	case "right":
		v = pair.Right
	default:
		v = models.ObjectOf("type", pair.Name, "left", pair.Left, "right", pair.Right)
	}
	return g.writeDocument("", v, codec.DefaultIndent)
}

// ServeCmd runs the HTTP API until interrupted
type ServeCmd struct {
	Addr string `help:"Address to listen on. Defaults to the configured server address." short:"a"`
}

// Run executes the serve command
func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.Config.MergeCLI(config.Overrides{Addr: c.Addr})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(g.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server.Addr,
		server.WithLogger(g.Logger),
		server.WithVersion(Version),
		server.WithComparer(compare.NewLocal(g.Logger)),
	)
	return srv.Start(ctx)
}

// VersionCmd prints the version
type VersionCmd struct{}

// Run executes the version command
func (c *VersionCmd) Run(g *Globals) error {
	_, err := fmt.Fprintf(g.Stdout, "jsondelta version %s\n", Version)
	return err
}
