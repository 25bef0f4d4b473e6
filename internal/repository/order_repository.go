package repository

import (
	"context"

	"github.com/iliyamo/farm-market/internal/model"
	"github.com/iliyamo/farm-market/internal/store"
)

// OrderRepo persists the `orders` collection.
type OrderRepo struct{ t table[model.Order] }

func NewOrderRepo(kv store.KV) *OrderRepo {
	return &OrderRepo{t: newTable(kv, store.KeyOrders, func(o model.Order) string { return o.ID })}
}

func (r *OrderRepo) Create(ctx context.Context, o model.Order) error {
	return r.t.insert(ctx, o)
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (model.Order, error) {
	return r.t.get(ctx, id)
}

func (r *OrderRepo) List(ctx context.Context) ([]model.Order, error) {
	return r.t.list(ctx)
}

// ListByFarmer returns orders placed against farmerID's listings.
func (r *OrderRepo) ListByFarmer(ctx context.Context, farmerID string) ([]model.Order, error) {
	return r.t.filter(ctx, func(o model.Order) bool { return o.FarmerID == farmerID })
}

// ListByBuyer returns orders placed by buyerID.
func (r *OrderRepo) ListByBuyer(ctx context.Context, buyerID string) ([]model.Order, error) {
	return r.t.filter(ctx, func(o model.Order) bool { return o.BuyerID == buyerID })
}

// Update applies fn to the order with the given id; see CropRepo.Update.
func (r *OrderRepo) Update(ctx context.Context, id string, fn func(*model.Order) error) (model.Order, bool, error) {
	return r.t.update(ctx, id, fn)
}
