package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/farm-market/internal/model"
	"github.com/iliyamo/farm-market/internal/store"
)

// UserRepo persists the `users` collection.
type UserRepo struct{ t table[model.User] }

func NewUserRepo(kv store.KV) *UserRepo {
	return &UserRepo{t: newTable(kv, store.KeyUsers, func(u model.User) string { return u.ID })}
}

// Create appends u. Email is normalized before it is stored.
func (r *UserRepo) Create(ctx context.Context, u model.User) error {
	u.Email = normalizeEmail(u.Email)
	return r.t.insert(ctx, u)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.t.get(ctx, id)
}

// FindByEmailAndRole returns the first user, in insertion order, with the
// given email and role.
func (r *UserRepo) FindByEmailAndRole(ctx context.Context, email string, role model.Role) (model.User, error) {
	email = normalizeEmail(email)
	users, err := r.t.list(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) && u.Role == role {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

// List returns all users in insertion order.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	return r.t.list(ctx)
}

// Delete removes a user. Listings, orders and messages that reference the
// user are left untouched.
func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	return r.t.delete(ctx, id)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
