package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/packsmith/internal/freeze"
)

// NATSPublisher publishes build events to a JetStream subject.
type NATSPublisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewNATSPublisher connects to the NATS server and prepares JetStream
// publishing on the given subject.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url is required")
	}
	if subject == "" {
		subject = "packsmith.builds"
	}

	conn, err := nats.Connect(url, nats.Name("packsmith"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	slog.Info("NATS publisher initialized", "url", url, "subject", subject)

	return &NATSPublisher{
		conn:    conn,
		js:      js,
		subject: subject,
	}, nil
}

// PublishBuildEvent publishes a build lifecycle event. Errors are returned to
// the caller for logging but should not fail the build.
func (p *NATSPublisher) PublishBuildEvent(ctx context.Context, eventType string, rec *freeze.BuildRecord) error {
	ev := EventFromRecord(eventType, rec)
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal build event: %w", err)
	}

	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		return fmt.Errorf("publish build event: %w", err)
	}
	return nil
}

// Close drains the NATS connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		if err := p.conn.Drain(); err != nil {
			slog.Warn("Error draining NATS connection", "error", err)
		}
	}
}
