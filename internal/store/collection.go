package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iliyamo/farm-market/internal/metrics"
)

const defaultMutateAttempts = 5

// ErrNoChange can be returned from a Mutate callback to finish without
// writing anything back.
var ErrNoChange = errors.New("store: no change")

// Collection is a typed view of one JSON array stored under a single key.
// Reads always see the whole collection and writes always replace it.
type Collection[T any] struct {
	kv       KV
	key      string
	attempts int
}

// NewCollection binds a collection to key on kv.
func NewCollection[T any](kv KV, key string) *Collection[T] {
	return &Collection[T]{kv: kv, key: key, attempts: defaultMutateAttempts}
}

// Key returns the storage key of the collection.
func (c *Collection[T]) Key() string { return c.key }

// Load returns every record in insertion order. A missing key and a payload
// that is not valid JSON both read as an empty collection.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	items, _, err := c.load(ctx)
	return items, err
}

func (c *Collection[T]) load(ctx context.Context) ([]T, int64, error) {
	raw, version, err := c.kv.Get(ctx, c.key)
	if err != nil {
		return nil, 0, fmt.Errorf("load %s: %w", c.key, err)
	}
	return decodeCollection[T](c.key, raw), version, nil
}

func decodeCollection[T any](key string, raw []byte) []T {
	out := []T{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		slog.Warn("stored collection is not valid JSON, reading as empty", "key", key, "err", err)
		return []T{}
	}
	if out == nil {
		out = []T{}
	}
	return out
}

// Save replaces the entire collection.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	return c.Mutate(ctx, func([]T) ([]T, error) { return items, nil })
}

// Mutate runs a read-transform-write cycle. If another writer got in between
// the read and the write, the cycle is retried from a fresh read, so fn may
// run more than once and must not leak state across calls. Returning
// ErrNoChange skips the write; any other error aborts with nothing written.
func (c *Collection[T]) Mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	for attempt := 1; attempt <= c.attempts; attempt++ {
		items, version, err := c.load(ctx)
		if err != nil {
			return err
		}
		next, err := fn(items)
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		if err != nil {
			return err
		}
		if next == nil {
			next = []T{}
		}
		body, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode %s: %w", c.key, err)
		}
		_, err = c.kv.Put(ctx, c.key, body, version)
		if errors.Is(err, ErrVersionConflict) {
			metrics.StoreConflicts.WithLabelValues(c.key).Inc()
			slog.Warn("collection changed underneath write, retrying", "key", c.key, "attempt", attempt)
			continue
		}
		if err != nil {
			return fmt.Errorf("save %s: %w", c.key, err)
		}
		return nil
	}
	return fmt.Errorf("save %s: %w", c.key, ErrVersionConflict)
}
