package site

import (
	"time"
)

// StageResult records one build stage's outcome.
type StageResult struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// BuildReport summarizes a completed (or failed) build.
type BuildReport struct {
	BuildID   string        `json:"build_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Outcome   string        `json:"outcome"` // success|failed
	Posts     int           `json:"posts"`
	Pages     int           `json:"pages"`
	Stages    []StageResult `json:"stages"`
}

// Build outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)
