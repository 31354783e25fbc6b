// Package server runs the preview server: static files over the published
// output, live reload, health, build history and optional metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/eventstore"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/metrics"
	"git.home.luguber.info/inful/blogsmith/internal/notify"
	"git.home.luguber.info/inful/blogsmith/internal/site"
)

const liveReloadScript = `<script>
(function () {
  var es = new EventSource("/livereload");
  es.addEventListener("reload", function () { location.reload(); });
})();
</script>`

// Server watches the content tree, rebuilds on change and serves the result.
type Server struct {
	cfg       *config.Config
	builder   *site.Builder
	rec       *metrics.PrometheusRecorder
	events    eventstore.Store
	publisher *notify.Publisher
	hub       *Hub

	mu           sync.RWMutex
	lastErr      error
	hasGoodBuild bool
}

// Option customizes a Server.
type Option func(*Server)

func WithMetrics(rec *metrics.PrometheusRecorder) Option {
	return func(s *Server) { s.rec = rec }
}

func WithEventStore(store eventstore.Store) Option {
	return func(s *Server) { s.events = store }
}

func WithPublisher(p *notify.Publisher) Option {
	return func(s *Server) { s.publisher = p }
}

func New(cfg *config.Config, builder *site.Builder, opts ...Option) *Server {
	s := &Server{cfg: cfg, builder: builder, hub: NewHub()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run builds once, then serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.rebuild(ctx)

	deb := NewDebouncer(300 * time.Millisecond)
	go deb.Run(ctx)
	go func() {
		roots := []string{s.cfg.Content.Dir, s.cfg.Layouts.Dir, s.cfg.Content.Static}
		if err := runWatcher(ctx, roots, deb); err != nil {
			slog.Error("Watcher stopped", logfields.Error(err))
		}
	}()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-deb.C():
				s.rebuild(ctx)
			}
		}
	}()

	var scheduler *Scheduler
	if interval := s.cfg.Serve.RebuildEvery.Std(); interval > 0 {
		var err error
		scheduler, err = NewScheduler()
		if err != nil {
			return err
		}
		if err := scheduler.SchedulePeriodicRebuild(interval, func() { s.rebuild(ctx) }); err != nil {
			return err
		}
		scheduler.Start()
		defer func() { _ = scheduler.Stop() }()
	}

	httpServer := &http.Server{
		Addr:              s.cfg.Serve.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening", slog.String("addr", s.cfg.Serve.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) rebuild(ctx context.Context) {
	report, err := s.builder.Build(ctx)

	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.hasGoodBuild = true
	}
	s.mu.Unlock()

	if s.publisher != nil && report != nil {
		n := notify.BuildNotification{
			BuildID:   report.BuildID,
			Outcome:   report.Outcome,
			Posts:     report.Posts,
			Pages:     report.Pages,
			Duration:  report.Duration.String(),
			Timestamp: time.Now().UTC(),
		}
		if err != nil {
			n.Error = err.Error()
		}
		if perr := s.publisher.Publish(n); perr != nil {
			slog.Warn("Could not publish build notification", logfields.Error(perr))
		}
	}

	if err == nil {
		s.hub.Broadcast()
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/builds", s.handleBuilds)
	if s.cfg.Serve.LiveReloadEnabled() {
		mux.Handle("/livereload", s.hub)
	}
	if s.cfg.Serve.Metrics && s.rec != nil {
		mux.Handle("/metrics", s.rec.Handler())
	}
	mux.HandleFunc("/", s.handleSite)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	lastErr := s.lastErr
	good := s.hasGoodBuild
	s.mu.RUnlock()

	status := map[string]any{"status": "ok", "good_build": good}
	code := http.StatusOK
	if lastErr != nil {
		status["status"] = "build_failed"
		status["error"] = lastErr.Error()
		if !good {
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, status)
}

func (s *Server) handleBuilds(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	events, err := s.events.Recent(r.Context(), 50)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	type buildEvent struct {
		BuildID   string          `json:"build_id"`
		Type      string          `json:"type"`
		Timestamp time.Time       `json:"timestamp"`
		Report    json.RawMessage `json:"report,omitempty"`
	}
	out := make([]buildEvent, 0, len(events))
	for _, e := range events {
		be := buildEvent{BuildID: e.BuildID, Type: e.Type, Timestamp: e.Timestamp}
		if json.Valid(e.Payload) {
			be.Report = e.Payload
		}
		out = append(out, be)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSite serves the published output, injecting the live-reload script
// into HTML pages.
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean(r.URL.Path)
	if strings.Contains(clean, "..") {
		http.Error(w, "bad path", http.StatusBadRequest)
		return
	}

	target := filepath.Join(s.cfg.Output.Directory, filepath.FromSlash(clean))
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, "index.html")
	}

	if s.cfg.Serve.LiveReloadEnabled() && strings.HasSuffix(target, ".html") {
		data, err := os.ReadFile(target)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(injectLiveReload(data))
		return
	}

	http.ServeFile(w, r, target)
}

func injectLiveReload(page []byte) []byte {
	if i := strings.LastIndex(string(page), "</body>"); i >= 0 {
		out := make([]byte, 0, len(page)+len(liveReloadScript))
		out = append(out, page[:i]...)
		out = append(out, []byte(liveReloadScript)...)
		out = append(out, page[i:]...)
		return out
	}
	return append(page, []byte(liveReloadScript)...)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Could not encode response", logfields.Error(err))
	}
}
