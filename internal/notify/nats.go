// Package notify publishes run outcomes to NATS JetStream so other systems
// can react to finished wiki generations. Publishing is optional and best
// effort: a broker outage never fails a run.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/alexsohr/autodoc/internal/config"
	"github.com/alexsohr/autodoc/internal/events"
)

// Publisher delivers RunCompleted notifications.
type Publisher interface {
	PublishRunCompleted(ctx context.Context, evt events.RunCompleted) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishRunCompleted(context.Context, events.RunCompleted) error { return nil }
func (NoopPublisher) Close() error                                                   { return nil }

// NATSPublisher publishes run outcomes over JetStream.
type NATSPublisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewNATSPublisher connects to the configured broker. Call only when
// cfg.URL is non-empty; use NoopPublisher otherwise.
func NewNATSPublisher(cfg config.NotifyConfig) (*NATSPublisher, error) {
	conn, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	slog.Info("NATS publisher initialized",
		"url", cfg.URL,
		"subject", cfg.Subject)

	return &NATSPublisher{
		conn:    conn,
		js:      js,
		subject: cfg.Subject,
	}, nil
}

// PublishRunCompleted publishes one run outcome.
func (p *NATSPublisher) PublishRunCompleted(ctx context.Context, evt events.RunCompleted) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	slog.Debug("Published run completion",
		"run_id", evt.RunID,
		"repository", evt.Repository,
		"status", evt.Status)

	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
