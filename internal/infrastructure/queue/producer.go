package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// StatusEvent is published whenever an application or one of its documents
// changes state through the review workflow.
type StatusEvent struct {
	ApplicationID string    `json:"application_id"`
	UserID        string    `json:"user_id"`
	Kind          string    `json:"kind"` // "application" or "document"
	Subject       string    `json:"subject,omitempty"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	At            time.Time `json:"at"`
}

type Producer struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewProducer(broker, topic string, log *zap.Logger) *Producer {
	if broker == "" {
		return &Producer{log: log}
	}
	return &Producer{
		log: log,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Publish is best-effort: a dead broker must never fail the review request
// that triggered the event.
func (p *Producer) Publish(ctx context.Context, ev StatusEvent) {
	if p == nil || p.writer == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.ApplicationID),
		Value: payload,
		Time:  time.Now(),
	}); err != nil && p.log != nil {
		p.log.Warn("status event publish failed", zap.String("application_id", ev.ApplicationID), zap.Error(err))
	}
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
