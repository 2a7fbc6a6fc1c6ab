package cache

import (
	"context"
	"errors"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// ListStore is a capped, newest-first list of encoded values.
type ListStore interface {
	PushCapped(ctx context.Context, key string, value interface{}, max int) error
	Range(ctx context.Context, key string, n int) ([][]byte, error)
	Close() error
}
