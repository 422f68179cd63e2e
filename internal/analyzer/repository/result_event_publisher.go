package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang-sentiment-scryper/pkg/logger"

	natsgo "github.com/nats-io/nats.go"
)

// ResultEvent announces a newly persisted classification.
type ResultEvent struct {
	Query     string    `json:"query"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Sentiment string    `json:"sentiment"`
	Source    string    `json:"source"`
	Model     string    `json:"model"`
	SavedAt   time.Time `json:"saved_at"`
}

// ResultEventPublisher publishes result events to downstream consumers.
type ResultEventPublisher interface {
	Publish(ctx context.Context, event ResultEvent) error
}

type natsResultPublisher struct {
	conn    *natsgo.Conn
	subject string
	logger  *logger.Logger
}

// NewNATSResultPublisher creates a ResultEventPublisher on a NATS subject.
func NewNATSResultPublisher(conn *natsgo.Conn, subject string, log *logger.Logger) ResultEventPublisher {
	return &natsResultPublisher{conn: conn, subject: subject, logger: log}
}

func (p *natsResultPublisher) Publish(ctx context.Context, event ResultEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal result event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish result event: %w", err)
	}
	p.logger.Debug("Published result event", logger.StringField("subject", p.subject), logger.StringField("title", event.Title))
	return nil
}

type noopResultPublisher struct{}

// NewNoopResultPublisher returns a publisher that drops every event.
func NewNoopResultPublisher() ResultEventPublisher {
	return noopResultPublisher{}
}

func (noopResultPublisher) Publish(context.Context, ResultEvent) error {
	return nil
}
