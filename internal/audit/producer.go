// Package audit publishes admin action events to Kafka. The backend keeps
// its own activity log; this stream exists for ops pipelines that want the
// console's side of the story. With no brokers configured the producer is a
// no-op.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type Event struct {
	ID         string    `json:"id"`
	ActorID    int64     `json:"actor_id"`
	ActorEmail string    `json:"actor_email"`
	Action     string    `json:"action"`
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entity_id"`
	Detail     string    `json:"detail,omitempty"`
	At         time.Time `json:"at"`
}

type Producer struct {
	writer *kafka.Writer
	log    *slog.Logger
}

// NewProducer returns a no-op producer when brokers is empty.
func NewProducer(brokers []string, topic string, log *slog.Logger) *Producer {
	if log == nil {
		log = slog.Default()
	}
	if len(brokers) == 0 {
		return &Producer{log: log}
	}
	return &Producer{
		log: log,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 100 * time.Millisecond,
		},
	}
}

// Publish fills in the event ID and timestamp and writes the event keyed by
// actor. Failures are logged, never surfaced to the admin's action.
func (p *Producer) Publish(ctx context.Context, e Event) {
	if p == nil || p.writer == nil {
		return
	}

	e.ID = uuid.NewString()
	e.At = time.Now().UTC()

	data, err := json.Marshal(e)
	if err != nil {
		p.log.Error("audit_marshal_failed", "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(e.ActorID, 10)),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("audit_publish_failed", "action", e.Action, "entity", e.Entity, "error", err)
		return
	}
	p.log.Info("audit_published", "action", e.Action, "entity", e.Entity, "entity_id", e.EntityID)
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Entry is a convenience constructor used by the page handlers.
func Entry(actorID int64, actorEmail, action, entity string, entityID int64) Event {
	return Event{
		ActorID:    actorID,
		ActorEmail: actorEmail,
		Action:     action,
		Entity:     entity,
		EntityID:   fmt.Sprintf("%d", entityID),
	}
}
