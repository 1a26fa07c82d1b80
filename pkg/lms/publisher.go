package lms

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// PublishEvent announces that an assignment should be pushed to one or more
// LMS integrations.
type PublishEvent struct {
	AssignmentID uint      `json:"assignment_id"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	Targets      []string  `json:"targets"`
	PublishedAt  time.Time `json:"published_at"`
}

// Publisher emits LMS publish events.
type Publisher interface {
	Publish(event PublishEvent) error
}

// NATSPublisher sends publish events over a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSPublisher connects to NATS and returns a publisher bound to the
// configured subject.
func NewNATSPublisher(url, subject string, logger zerolog.Logger) (*NATSPublisher, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url must not be empty")
	}

	conn, err := nats.Connect(url, nats.Name("gradegenie-api"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &NATSPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "lms_publisher").Logger(),
	}, nil
}

// Publish marshals and sends the event. Delivery is fire and forget; the
// LMS bridge consumes the subject on its own schedule.
func (p *NATSPublisher) Publish(event PublishEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal publish event: %w", err)
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish lms event: %w", err)
	}

	p.logger.Info().Uint("assignment_id", event.AssignmentID).Strs("targets", event.Targets).Msg("lms publish event emitted")
	return nil
}

// Close drains the underlying connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// LogPublisher is used when NATS is not configured; events are logged only.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher builds a log-only publisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "lms_publisher").Logger()}
}

// Publish records the event without delivering it anywhere.
func (p *LogPublisher) Publish(event PublishEvent) error {
	p.logger.Info().Uint("assignment_id", event.AssignmentID).Strs("targets", event.Targets).Msg("lms publish skipped: nats not configured")
	return nil
}
