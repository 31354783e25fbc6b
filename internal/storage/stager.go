// Package storage stages build output and publishes it atomically, so a
// failed build never disturbs the last good site.
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogsmith/internal/logfields"
)

// Stager owns a staging directory next to the final output directory.
// Build into Dir(), then either Publish or Discard.
type Stager struct {
	finalDir   string
	stagingDir string
	published  bool
}

// NewStager creates the staging directory for a build.
func NewStager(outputDir, buildID string) (*Stager, error) {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output dir: %w", err)
	}
	staging := abs + ".staging-" + buildID
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Stager{finalDir: abs, stagingDir: staging}, nil
}

// Dir returns the staging directory to build into.
func (s *Stager) Dir() string { return s.stagingDir }

// Publish swaps the staged output into place. The previous output is moved
// aside first and removed only after the swap succeeds, so the rename pair is
// the only window where no site exists at the final path.
func (s *Stager) Publish() error {
	old := s.finalDir + ".old-" + filepath.Base(s.stagingDir)

	movedAside := false
	if _, err := os.Stat(s.finalDir); err == nil {
		if err := os.Rename(s.finalDir, old); err != nil {
			return fmt.Errorf("move previous output aside: %w", err)
		}
		movedAside = true
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat output dir: %w", err)
	}

	if err := os.Rename(s.stagingDir, s.finalDir); err != nil {
		if movedAside {
			if rerr := os.Rename(old, s.finalDir); rerr != nil {
				slog.Error("Failed to restore previous output after publish failure",
					logfields.Path(old), logfields.Error(rerr))
			}
		}
		return fmt.Errorf("publish staged output: %w", err)
	}

	if err := os.RemoveAll(old); err != nil {
		slog.Warn("Could not remove previous output", logfields.Path(old), logfields.Error(err))
	}
	s.published = true
	return nil
}

// Discard removes the staging directory. Safe to call after Publish.
func (s *Stager) Discard() error {
	if s.published {
		return nil
	}
	return os.RemoveAll(s.stagingDir)
}
