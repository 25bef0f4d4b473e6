// Package store holds the key-value persistence layer behind the marketplace.
// Every collection (users, crops, orders, messages) is kept as one JSON array
// under a well-known key, and the signed-in user is mirrored under its own key.
// Backends only move opaque bytes around; JSON handling lives in Collection
// and Document.
package store

import (
	"context"
	"errors"
)

// Well-known keys.
const (
	KeyUsers       = "users"
	KeyCrops       = "crops"
	KeyOrders      = "orders"
	KeyMessages    = "messages"
	KeyCurrentUser = "currentUser"
)

// ErrVersionConflict is returned by Put when the stored version no longer
// matches the version the caller read.
var ErrVersionConflict = errors.New("store: version conflict")

// KV is a versioned byte store. A missing key reads as (nil, 0, nil). Put
// succeeds only when expected equals the current version (0 for a missing
// key) and returns the new version.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, int64, error)
	Put(ctx context.Context, key string, value []byte, expected int64) (int64, error)
	Delete(ctx context.Context, key string) error
}
