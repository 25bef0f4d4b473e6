package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/farm-market/internal/metrics"
	"github.com/iliyamo/farm-market/internal/model"
	"github.com/iliyamo/farm-market/internal/repository"
)

// ListingInput is the create-listing form.
type ListingInput struct {
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Quantity        float64  `json:"quantity"`
	Price           float64  `json:"price"`
	Unit            string   `json:"unit"`
	Images          []string `json:"images"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	AvailableFrom   string   `json:"availableFrom"`
	AvailableTo     string   `json:"availableTo"`
	DeliveryOptions []string `json:"deliveryOptions"`
}

// ListingPatch carries the fields an edit touches; nil fields keep their
// stored value. Owner, id and creation time cannot be patched.
type ListingPatch struct {
	Name            *string   `json:"name"`
	Category        *string   `json:"category"`
	Quantity        *float64  `json:"quantity"`
	Price           *float64  `json:"price"`
	Unit            *string   `json:"unit"`
	Images          *[]string `json:"images"`
	Description     *string   `json:"description"`
	Location        *string   `json:"location"`
	AvailableFrom   *string   `json:"availableFrom"`
	AvailableTo     *string   `json:"availableTo"`
	DeliveryOptions *[]string `json:"deliveryOptions"`
}

func (p ListingPatch) apply(c *model.Crop) {
	setIf(&c.Name, p.Name)
	setIf(&c.Category, p.Category)
	setIf(&c.Quantity, p.Quantity)
	setIf(&c.Price, p.Price)
	setIf(&c.Unit, p.Unit)
	setIf(&c.Images, p.Images)
	setIf(&c.Description, p.Description)
	setIf(&c.Location, p.Location)
	setIf(&c.AvailableFrom, p.AvailableFrom)
	setIf(&c.AvailableTo, p.AvailableTo)
	setIf(&c.DeliveryOptions, p.DeliveryOptions)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// ListingService manages the farmer side of the listing lifecycle.
type ListingService struct {
	crops *repository.CropRepo
	now   Clock
	newID IDFunc
}

func NewListingService(crops *repository.CropRepo) *ListingService {
	return &ListingService{crops: crops, now: systemClock, newID: newUUID}
}

// Create stores a new listing for the owner. Every listing starts
// unapproved whatever the input says.
func (s *ListingService) Create(ctx context.Context, in ListingInput, ownerID, ownerName string) (model.Crop, error) {
	c := model.Crop{
		ID:              s.newID(),
		FarmerID:        ownerID,
		FarmerName:      ownerName,
		Name:            strings.TrimSpace(in.Name),
		Category:        strings.TrimSpace(in.Category),
		Quantity:        in.Quantity,
		Price:           in.Price,
		Unit:            in.Unit,
		Images:          nonNil(in.Images),
		Description:     in.Description,
		Location:        in.Location,
		AvailableFrom:   in.AvailableFrom,
		AvailableTo:     in.AvailableTo,
		DeliveryOptions: nonNil(in.DeliveryOptions),
		IsApproved:      false,
		CreatedAt:       s.now(),
	}
	if err := validateStruct("missing required listing fields", c); err != nil {
		return model.Crop{}, err
	}
	if err := s.crops.Create(ctx, c); err != nil {
		return model.Crop{}, err
	}
	metrics.ListingsCreated.Inc()
	return c, nil
}

// Update merges patch into the listing and sends it back to moderation.
// found is false, and nothing is written, when id does not exist.
func (s *ListingService) Update(ctx context.Context, id string, patch ListingPatch) (model.Crop, bool, error) {
	return s.update(ctx, id, "", patch)
}

// UpdateOwned is Update restricted to listings owned by ownerID; any other
// listing yields repository.ErrForbidden.
func (s *ListingService) UpdateOwned(ctx context.Context, ownerID, id string, patch ListingPatch) (model.Crop, bool, error) {
	return s.update(ctx, id, ownerID, patch)
}

func (s *ListingService) update(ctx context.Context, id, ownerID string, patch ListingPatch) (model.Crop, bool, error) {
	return s.crops.Update(ctx, id, func(c *model.Crop) error {
		if ownerID != "" && c.FarmerID != ownerID {
			return repository.ErrForbidden
		}
		patch.apply(c)
		c.Images = nonNil(c.Images)
		c.DeliveryOptions = nonNil(c.DeliveryOptions)
		c.IsApproved = false
		return validateStruct("missing required listing fields", *c)
	})
}

// Delete removes the listing. Deleting an unknown id is a no-op.
func (s *ListingService) Delete(ctx context.Context, id string) (bool, error) {
	return s.crops.Delete(ctx, id)
}

// DeleteOwned deletes the listing only if ownerID owns it.
func (s *ListingService) DeleteOwned(ctx context.Context, ownerID, id string) (bool, error) {
	c, err := s.crops.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.FarmerID != ownerID {
		return false, repository.ErrForbidden
	}
	return s.crops.Delete(ctx, id)
}

// ForOwner lists the owner's listings, approved or not.
func (s *ListingService) ForOwner(ctx context.Context, ownerID string) ([]model.Crop, error) {
	return s.crops.ListByFarmer(ctx, ownerID)
}

// All lists every listing in storage order.
func (s *ListingService) All(ctx context.Context) ([]model.Crop, error) {
	return s.crops.List(ctx)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
