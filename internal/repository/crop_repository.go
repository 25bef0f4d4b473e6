package repository

import (
	"context"

	"github.com/iliyamo/farm-market/internal/model"
	"github.com/iliyamo/farm-market/internal/store"
)

// CropRepo persists the `crops` collection (listings).
type CropRepo struct{ t table[model.Crop] }

func NewCropRepo(kv store.KV) *CropRepo {
	return &CropRepo{t: newTable(kv, store.KeyCrops, func(c model.Crop) string { return c.ID })}
}

func (r *CropRepo) Create(ctx context.Context, c model.Crop) error {
	return r.t.insert(ctx, c)
}

func (r *CropRepo) GetByID(ctx context.Context, id string) (model.Crop, error) {
	return r.t.get(ctx, id)
}

func (r *CropRepo) List(ctx context.Context) ([]model.Crop, error) {
	return r.t.list(ctx)
}

// ListByFarmer returns the listings owned by farmerID.
func (r *CropRepo) ListByFarmer(ctx context.Context, farmerID string) ([]model.Crop, error) {
	return r.t.filter(ctx, func(c model.Crop) bool { return c.FarmerID == farmerID })
}

// Update applies fn to the listing with the given id. found is false when
// no such listing exists, in which case nothing is written.
func (r *CropRepo) Update(ctx context.Context, id string, fn func(*model.Crop) error) (model.Crop, bool, error) {
	return r.t.update(ctx, id, fn)
}

func (r *CropRepo) Delete(ctx context.Context, id string) (bool, error) {
	return r.t.delete(ctx, id)
}
