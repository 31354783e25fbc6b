package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/eventstore"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory for the generated site (overrides config)"`
	Drafts bool   `short:"D" help:"Include draft posts"`
	Future bool   `short:"F" help:"Include posts dated in the future"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.Drafts {
		cfg.Content.Drafts = true
	}
	if b.Future {
		cfg.Content.Future = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return RunBuild(ctx, cfg)
}

// RunBuild executes a single build against cfg and reports the outcome.
func RunBuild(ctx context.Context, cfg *config.Config) error {
	opts := []site.Option{}
	if cfg.Events.StorePath != "" {
		store, err := eventstore.NewSQLiteStore(cfg.Events.StorePath)
		if err != nil {
			return fmt.Errorf("open event store: %w", err)
		}
		defer func() {
			if cerr := store.Close(); cerr != nil {
				slog.Warn("Could not close event store", logfields.Error(cerr))
			}
		}()
		opts = append(opts, site.WithEventStore(store))
	}

	report, err := site.New(cfg, opts...).Build(ctx)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	fmt.Printf("Built %d posts (%d pages) in %s\n", report.Posts, report.Pages, report.Duration.Round(time.Millisecond))
	fmt.Printf("Site published to %s\n", cfg.Output.Directory)
	return nil
}
