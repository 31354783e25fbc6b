// Package commands defines the blogsmith CLI surface.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogsmith/internal/config"
)

// Global carries state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command grammar with global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"blogsmith.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Build the site and publish it to the output directory"`
	Serve ServeCmd `cmd:"" help:"Serve the site locally, rebuilding on content changes"`
	Init  InitCmd  `cmd:"" help:"Initialize a new site with a configuration file and sample post"`
	New   NewCmd   `cmd:"" help:"Create a new dated post file"`
	Lint  LintCmd  `cmd:"" help:"Check posts for filename and front matter problems"`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
