package service

import (
	"context"

	"github.com/iliyamo/farm-market/internal/metrics"
	"github.com/iliyamo/farm-market/internal/model"
	"github.com/iliyamo/farm-market/internal/repository"
	"github.com/iliyamo/farm-market/internal/views"
)

// ModerationService backs the admin dashboard and marketctl.
type ModerationService struct {
	users  *repository.UserRepo
	crops  *repository.CropRepo
	orders *repository.OrderRepo
}

func NewModerationService(users *repository.UserRepo, crops *repository.CropRepo, orders *repository.OrderRepo) *ModerationService {
	return &ModerationService{users: users, crops: crops, orders: orders}
}

// SetListingApproval sets the approval flag. found is false for an unknown
// listing.
func (s *ModerationService) SetListingApproval(ctx context.Context, id string, approved bool) (model.Crop, bool, error) {
	c, found, err := s.crops.Update(ctx, id, func(c *model.Crop) error {
		c.IsApproved = approved
		return nil
	})
	if err == nil && found {
		decision := "reject"
		if approved {
			decision = "approve"
		}
		metrics.ListingModerations.WithLabelValues(decision).Inc()
	}
	return c, found, err
}

// RemoveUser deletes the account only. The user's listings, orders and
// messages stay and show up under placeholder names.
func (s *ModerationService) RemoveUser(ctx context.Context, id string) (bool, error) {
	return s.users.Delete(ctx, id)
}

// Stats aggregates the whole platform.
func (s *ModerationService) Stats(ctx context.Context) (views.PlatformStats, error) {
	users, crops, orders, err := s.snapshot(ctx)
	if err != nil {
		return views.PlatformStats{}, err
	}
	return views.ComputeStats(users, crops, orders), nil
}

// Listings searches all listings by name or farmer name.
func (s *ModerationService) Listings(ctx context.Context, q string) ([]model.Crop, error) {
	crops, err := s.crops.List(ctx)
	if err != nil {
		return nil, err
	}
	return views.SearchListings(crops, q), nil
}

// Users searches accounts by name or email.
func (s *ModerationService) Users(ctx context.Context, q string) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return views.SearchUsers(users, q), nil
}

// Orders lists every order with crop and party names resolved.
func (s *ModerationService) Orders(ctx context.Context) ([]views.OrderDetail, error) {
	users, crops, orders, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return views.DescribeOrders(orders, crops, users), nil
}

func (s *ModerationService) snapshot(ctx context.Context) ([]model.User, []model.Crop, []model.Order, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	crops, err := s.crops.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return users, crops, orders, nil
}
