// Package site orchestrates the build: content in, static HTML out.
package site

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/content"
	"git.home.luguber.info/inful/blogsmith/internal/eventstore"
	"git.home.luguber.info/inful/blogsmith/internal/gitmeta"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/markdown"
	"git.home.luguber.info/inful/blogsmith/internal/metrics"
	"git.home.luguber.info/inful/blogsmith/internal/storage"
	"git.home.luguber.info/inful/blogsmith/internal/templates"
)

// Builder turns the configured content tree into a published site.
type Builder struct {
	cfg     *config.Config
	layouts *templates.Engine
	md      *markdown.Renderer
	rec     metrics.Recorder
	events  eventstore.Store
	now     func() time.Time
}

// Option customizes a Builder.
type Option func(*Builder)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.rec = r
		}
	}
}

// WithEventStore attaches a build event store.
func WithEventStore(s eventstore.Store) Option {
	return func(b *Builder) { b.events = s }
}

// WithClock overrides the build clock (tests).
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// New creates a Builder for the given configuration.
func New(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg: cfg,
		layouts: templates.NewEngine(cfg.Layouts.Dir, cfg.Layouts.Default, templates.Site{
			Title:       cfg.Site.Title,
			BaseURL:     cfg.Site.BaseURL,
			Description: cfg.Site.Description,
			Author:      cfg.Site.Author,
		}),
		md:  markdown.NewRenderer(),
		rec: metrics.NoopRecorder{},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs the full pipeline once. On failure the previously published
// output is left untouched.
func (b *Builder) Build(ctx context.Context) (*BuildReport, error) {
	report := &BuildReport{
		BuildID:   uuid.NewString(),
		StartedAt: b.now(),
	}
	slog.Info("Starting site build", logfields.BuildID(report.BuildID))
	b.appendEvent(ctx, report.BuildID, eventstore.TypeBuildStarted, nil)

	err := b.run(ctx, report)

	report.Duration = b.now().Sub(report.StartedAt)
	b.rec.ObserveBuildDuration(report.Duration)
	if err != nil {
		report.Outcome = OutcomeFailed
		b.rec.IncBuildOutcome(OutcomeFailed)
		b.appendEvent(ctx, report.BuildID, eventstore.TypeBuildFailed, report)
		slog.Error("Build failed", logfields.BuildID(report.BuildID), logfields.Error(err))
		return report, err
	}

	report.Outcome = OutcomeSuccess
	b.rec.IncBuildOutcome(OutcomeSuccess)
	b.rec.AddPagesWritten(report.Pages)
	b.appendEvent(ctx, report.BuildID, eventstore.TypeBuildSucceeded, report)
	slog.Info("Build complete",
		logfields.BuildID(report.BuildID),
		slog.Int("posts", report.Posts),
		slog.Int("pages", report.Pages),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

func (b *Builder) run(ctx context.Context, report *BuildReport) error {
	var store *content.Store

	if err := b.runStage(ctx, report, "sync", func() error {
		return gitmeta.Sync(b.cfg.Content.Repo, b.cfg.Content.Dir)
	}); err != nil {
		return err
	}

	if err := b.runStage(ctx, report, "load", func() error {
		var err error
		store, err = content.Load(b.cfg.Content.Dir, content.LoadOptions{
			IncludeDrafts: b.cfg.Content.Drafts,
			IncludeFuture: b.cfg.Content.Future,
			Now:           b.now(),
		})
		return err
	}); err != nil {
		return err
	}
	report.Posts = len(store.Posts())

	if err := b.runStage(ctx, report, "lastmod", func() error {
		return b.applyGitLastModified(store)
	}); err != nil {
		return err
	}

	stager, err := storage.NewStager(b.cfg.Output.Directory, report.BuildID)
	if err != nil {
		return err
	}
	defer func() {
		if derr := stager.Discard(); derr != nil {
			slog.Warn("Could not remove staging directory", logfields.Error(derr))
		}
	}()

	stages := []struct {
		name string
		fn   func(*stagingSite) error
	}{
		{"posts", b.renderPosts},
		{"index", b.renderIndex},
		{"taxonomies", b.renderTaxonomies},
		{"feeds", b.renderFeeds},
		{"assets", b.copyStaticAssets},
	}

	st := &stagingSite{dir: stager.Dir(), store: store, report: report}
	for _, stage := range stages {
		stage := stage
		if err := b.runStage(ctx, report, stage.name, func() error { return stage.fn(st) }); err != nil {
			return err
		}
	}

	return b.runStage(ctx, report, "publish", stager.Publish)
}

// runStage times a stage, records metrics and stops the build on error or
// cancellation.
func (b *Builder) runStage(ctx context.Context, report *BuildReport, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("build canceled before stage %s: %w", name, err)
	}

	start := time.Now()
	err := fn()
	d := time.Since(start)
	b.rec.ObserveStageDuration(name, d)

	result := StageResult{Name: name, Duration: d}
	if err != nil {
		result.Error = err.Error()
	}
	report.Stages = append(report.Stages, result)

	if err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}
	slog.Debug("Stage complete", logfields.Stage(name), logfields.DurationMS(float64(d.Milliseconds())))
	return nil
}

func (b *Builder) applyGitLastModified(store *content.Store) error {
	posts := store.Posts()
	rels := make([]string, 0, len(posts))
	byRel := make(map[string]*content.Document, len(posts))
	for _, p := range posts {
		rel, err := relToContentDir(b.cfg.Content.Dir, p.SourcePath)
		if err != nil {
			continue
		}
		rels = append(rels, rel)
		byRel[rel] = p
	}

	mods, err := gitmeta.LastModified(b.cfg.Content.Dir, rels)
	if err != nil {
		// Missing history downgrades to mtime already set by Load.
		slog.Warn("Could not read git history for lastmod", logfields.Error(err))
		return nil
	}
	for rel, when := range mods {
		byRel[rel].LastMod = when
	}
	return nil
}

func (b *Builder) appendEvent(ctx context.Context, buildID, eventType string, report *BuildReport) {
	if b.events == nil {
		return
	}
	var payload []byte
	if report != nil {
		var err error
		payload, err = json.Marshal(report)
		if err != nil {
			slog.Warn("Could not marshal build report", logfields.Error(err))
		}
	}
	if err := b.events.Append(ctx, buildID, eventType, payload); err != nil {
		slog.Warn("Could not persist build event", logfields.BuildID(buildID), logfields.Error(err))
	}
}
