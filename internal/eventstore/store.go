// Package eventstore persists build events so serve mode can answer "what
// happened to the last builds" without keeping state in memory.
package eventstore

import (
	"context"
	"time"
)

// Event types recorded by the builder.
const (
	TypeBuildStarted   = "build_started"
	TypeBuildSucceeded = "build_succeeded"
	TypeBuildFailed    = "build_failed"
)

// Event is one recorded build event.
type Event struct {
	ID        int64
	BuildID   string
	Type      string
	Timestamp time.Time
	Payload   []byte // JSON build report or error detail
}

// Store is the interface for persisting and querying build events.
type Store interface {
	Append(ctx context.Context, buildID, eventType string, payload []byte) error
	ByBuild(ctx context.Context, buildID string) ([]Event, error)
	Recent(ctx context.Context, limit int) ([]Event, error)
	Close() error
}
