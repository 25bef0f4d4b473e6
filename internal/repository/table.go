package repository

import (
	"context"

	"github.com/iliyamo/farm-market/internal/store"
)

// table gives keyed access (id -> record) on top of a whole-array
// collection. Each call reads the collection once and indexes it.
type table[T any] struct {
	col *store.Collection[T]
	id  func(T) string
}

func newTable[T any](kv store.KV, key string, id func(T) string) table[T] {
	return table[T]{col: store.NewCollection[T](kv, key), id: id}
}

func (t table[T]) index(items []T) map[string]int {
	idx := make(map[string]int, len(items))
	for i, it := range items {
		idx[t.id(it)] = i
	}
	return idx
}

func (t table[T]) list(ctx context.Context) ([]T, error) {
	return t.col.Load(ctx)
}

func (t table[T]) filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	items, err := t.col.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (t table[T]) get(ctx context.Context, id string) (T, error) {
	var zero T
	items, err := t.col.Load(ctx)
	if err != nil {
		return zero, err
	}
	i, ok := t.index(items)[id]
	if !ok {
		return zero, ErrNotFound
	}
	return items[i], nil
}

func (t table[T]) insert(ctx context.Context, rec T) error {
	return t.col.Mutate(ctx, func(items []T) ([]T, error) {
		if _, dup := t.index(items)[t.id(rec)]; dup {
			return nil, ErrConflict
		}
		return append(items, rec), nil
	})
}

// update applies fn to the record with the given id and writes the
// collection back. fn may return store.ErrNoChange to skip the write.
func (t table[T]) update(ctx context.Context, id string, fn func(*T) error) (T, bool, error) {
	var (
		out   T
		found bool
	)
	err := t.col.Mutate(ctx, func(items []T) ([]T, error) {
		var zero T
		out, found = zero, false
		i, ok := t.index(items)[id]
		if !ok {
			return nil, store.ErrNoChange
		}
		found = true
		rec := items[i]
		if err := fn(&rec); err != nil {
			out = items[i]
			return nil, err
		}
		items[i] = rec
		out = rec
		return items, nil
	})
	return out, found, err
}

func (t table[T]) delete(ctx context.Context, id string) (bool, error) {
	var found bool
	err := t.col.Mutate(ctx, func(items []T) ([]T, error) {
		found = false
		i, ok := t.index(items)[id]
		if !ok {
			return nil, store.ErrNoChange
		}
		found = true
		return append(items[:i:i], items[i+1:]...), nil
	})
	return found, err
}
