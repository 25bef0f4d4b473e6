package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Document is a single JSON object stored under one key, used for the
// currentUser session mirror. Writes are last-write-wins.
type Document[T any] struct {
	kv  KV
	key string
}

// NewDocument binds a document to key on kv.
func NewDocument[T any](kv KV, key string) *Document[T] {
	return &Document[T]{kv: kv, key: key}
}

// Load reports ok=false when the key is absent or its payload is unreadable.
func (d *Document[T]) Load(ctx context.Context) (T, bool, error) {
	var zero T
	raw, _, err := d.kv.Get(ctx, d.key)
	if err != nil {
		return zero, false, fmt.Errorf("load %s: %w", d.key, err)
	}
	if len(raw) == 0 {
		return zero, false, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.Warn("stored document is not valid JSON, ignoring it", "key", d.key, "err", err)
		return zero, false, nil
	}
	return v, true, nil
}

// Save overwrites the document.
func (d *Document[T]) Save(ctx context.Context, v T) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.key, err)
	}
	for attempt := 0; attempt < defaultMutateAttempts; attempt++ {
		_, version, err := d.kv.Get(ctx, d.key)
		if err != nil {
			return fmt.Errorf("load %s: %w", d.key, err)
		}
		_, err = d.kv.Put(ctx, d.key, body, version)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("save %s: %w", d.key, err)
		}
		return nil
	}
	return fmt.Errorf("save %s: %w", d.key, ErrVersionConflict)
}

// Clear removes the document. Clearing an absent document is not an error.
func (d *Document[T]) Clear(ctx context.Context) error {
	return d.kv.Delete(ctx, d.key)
}
