package repository

import (
	"context"

	"github.com/iliyamo/farm-market/internal/model"
	"github.com/iliyamo/farm-market/internal/store"
)

// MessageRepo persists the append-only `messages` collection.
type MessageRepo struct{ t table[model.Message] }

func NewMessageRepo(kv store.KV) *MessageRepo {
	return &MessageRepo{t: newTable(kv, store.KeyMessages, func(m model.Message) string { return m.ID })}
}

func (r *MessageRepo) Append(ctx context.Context, m model.Message) error {
	return r.t.insert(ctx, m)
}

// ListByChat returns a conversation in insertion order. Timestamps are not
// consulted.
func (r *MessageRepo) ListByChat(ctx context.Context, chatID string) ([]model.Message, error) {
	return r.t.filter(ctx, func(m model.Message) bool { return m.ChatID == chatID })
}

// ListByParticipant returns every message userID sent or received.
func (r *MessageRepo) ListByParticipant(ctx context.Context, userID string) ([]model.Message, error) {
	return r.t.filter(ctx, func(m model.Message) bool { return m.Involves(userID) })
}
