package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"StockSight/internal/domain/models"
	domrepo "StockSight/internal/domain/repository"
	"StockSight/pkg/cache"
)

const redisJournalKey = "predictions:recent"

// RedisJournal keeps the newest events in a capped Redis list.
type RedisJournal struct {
	store cache.ListStore
	max   int
}

func NewRedisJournal(store cache.ListStore, max int) *RedisJournal {
	if max <= 0 {
		max = 50
	}
	return &RedisJournal{store: store, max: max}
}

func (j *RedisJournal) Record(ctx context.Context, ev models.PredictionEvent) error {
	if err := j.store.PushCapped(ctx, redisJournalKey, ev, j.max); err != nil {
		return fmt.Errorf("redis push prediction: %w", err)
	}
	return nil
}

func (j *RedisJournal) Recent(ctx context.Context, n int) ([]models.PredictionEvent, error) {
	if n > j.max {
		n = j.max
	}
	raw, err := j.store.Range(ctx, redisJournalKey, n)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return []models.PredictionEvent{}, nil
		}
		return nil, fmt.Errorf("redis range predictions: %w", err)
	}
	out := make([]models.PredictionEvent, 0, len(raw))
	for _, b := range raw {
		var ev models.PredictionEvent
		if err := json.Unmarshal(b, &ev); err != nil {
			continue // skip entries written by an older schema
		}
		out = append(out, ev)
	}
	return out, nil
}

func (j *RedisJournal) Close() error {
	return j.store.Close()
}

var (
	_ domrepo.Journal       = (*RedisJournal)(nil)
	_ domrepo.JournalReader = (*RedisJournal)(nil)
)
