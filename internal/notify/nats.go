// Package notify publishes build events to NATS so other systems (deploy
// hooks, chat notifiers) can react to site builds.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
)

// BuildNotification is the message published after every build.
type BuildNotification struct {
	BuildID   string    `json:"build_id"`
	Outcome   string    `json:"outcome"`
	Posts     int       `json:"posts"`
	Pages     int       `json:"pages"`
	Duration  string    `json:"duration"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher holds a NATS connection bound to one subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to the configured NATS server.
func NewPublisher(cfg *config.NATSConfig) (*Publisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nats config is required")
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name("blogsmith"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	slog.Info("NATS publisher connected", logfields.URL(cfg.URL), slog.String("subject", cfg.Subject))
	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// Publish sends a build notification. Failures are returned, not fatal; the
// caller decides whether a missed notification should fail anything.
func (p *Publisher) Publish(n BuildNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal build notification: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish build notification: %w", err)
	}
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
