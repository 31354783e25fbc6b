package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/blogsmith/internal/eventstore"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/metrics"
	"git.home.luguber.info/inful/blogsmith/internal/notify"
	"git.home.luguber.info/inful/blogsmith/internal/server"
	"git.home.luguber.info/inful/blogsmith/internal/site"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr         string `short:"a" help:"Listen address (overrides config)"`
	Drafts       bool   `short:"D" help:"Include draft posts"`
	Future       bool   `short:"F" help:"Include posts dated in the future"`
	NoLiveReload bool   `name:"no-live-reload" help:"Disable live reload SSE and script injection"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Serve.Addr = s.Addr
	}
	if s.Drafts {
		cfg.Content.Drafts = true
	}
	if s.Future {
		cfg.Content.Future = true
	}
	if s.NoLiveReload {
		off := false
		cfg.Serve.LiveReload = &off
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	siteOpts := []site.Option{}
	srvOpts := []server.Option{}

	if cfg.Serve.Metrics {
		rec := metrics.NewPrometheusRecorder()
		siteOpts = append(siteOpts, site.WithRecorder(rec))
		srvOpts = append(srvOpts, server.WithMetrics(rec))
	}

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
		siteOpts = append(siteOpts, site.WithEventStore(store))
		srvOpts = append(srvOpts, server.WithEventStore(store))
	}

	if cfg.Events.NATS != nil {
		pub, err := notify.NewPublisher(cfg.Events.NATS)
		if err != nil {
			return fmt.Errorf("connect notifier: %w", err)
		}
		defer pub.Close()
		srvOpts = append(srvOpts, server.WithPublisher(pub))
	}

	builder := site.New(cfg, siteOpts...)
	return server.New(cfg, builder, srvOpts...).Run(ctx)
}
