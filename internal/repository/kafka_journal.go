package repository

import (
	"context"
	"fmt"

	"StockSight/internal/domain/models"
	domrepo "StockSight/internal/domain/repository"
)

// EventPublisher is the slice of pkg/kafka.Producer the journal needs.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
}

// KafkaJournal publishes each event as JSON keyed by its ID. It cannot list events.
// The producer is shared with the log collector and is closed by its owner.
type KafkaJournal struct {
	p     EventPublisher
	topic string
}

func NewKafkaJournal(p EventPublisher, topic string) *KafkaJournal {
	return &KafkaJournal{p: p, topic: topic}
}

func (j *KafkaJournal) Record(ctx context.Context, ev models.PredictionEvent) error {
	if err := j.p.Publish(ctx, j.topic, []byte(ev.ID), ev); err != nil {
		return fmt.Errorf("publish prediction: %w", err)
	}
	return nil
}

func (j *KafkaJournal) Close() error { return nil }

var _ domrepo.Journal = (*KafkaJournal)(nil)
