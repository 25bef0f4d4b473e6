package service

import (
	"context"

	"github.com/iliyamo/farm-market/internal/model"
	"github.com/iliyamo/farm-market/internal/repository"
	"github.com/iliyamo/farm-market/internal/views"
)

// recentOrderCount is how many orders the buyer dashboard previews.
const recentOrderCount = 3

// FarmerDashboard is the farmer's overview.
type FarmerDashboard struct {
	Stats  views.FarmerStats   `json:"stats"`
	Orders []views.OrderDetail `json:"orders"`
}

// BuyerDashboard is the buyer's overview.
type BuyerDashboard struct {
	Stats  views.BuyerStats    `json:"stats"`
	Recent []views.OrderDetail `json:"recentOrders"`
}

// DashboardService assembles the per-role read models.
type DashboardService struct {
	users  *repository.UserRepo
	crops  *repository.CropRepo
	orders *repository.OrderRepo
}

func NewDashboardService(users *repository.UserRepo, crops *repository.CropRepo, orders *repository.OrderRepo) *DashboardService {
	return &DashboardService{users: users, crops: crops, orders: orders}
}

func (s *DashboardService) Farmer(ctx context.Context, farmerID string) (FarmerDashboard, error) {
	mine, err := s.crops.ListByFarmer(ctx, farmerID)
	if err != nil {
		return FarmerDashboard{}, err
	}
	orders, err := s.orders.ListByFarmer(ctx, farmerID)
	if err != nil {
		return FarmerDashboard{}, err
	}
	details, err := s.describe(ctx, orders)
	if err != nil {
		return FarmerDashboard{}, err
	}
	return FarmerDashboard{Stats: views.ComputeFarmerStats(mine), Orders: details}, nil
}

func (s *DashboardService) Buyer(ctx context.Context, buyerID string) (BuyerDashboard, error) {
	orders, err := s.orders.ListByBuyer(ctx, buyerID)
	if err != nil {
		return BuyerDashboard{}, err
	}
	details, err := s.describe(ctx, views.RecentOrders(orders, recentOrderCount))
	if err != nil {
		return BuyerDashboard{}, err
	}
	return BuyerDashboard{Stats: views.ComputeBuyerStats(orders), Recent: details}, nil
}

// DescribeFarmerOrders resolves names for every order against farmerID.
func (s *DashboardService) DescribeFarmerOrders(ctx context.Context, farmerID string) ([]views.OrderDetail, error) {
	orders, err := s.orders.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	return s.describe(ctx, orders)
}

// DescribeBuyerOrders resolves names for every order buyerID placed.
func (s *DashboardService) DescribeBuyerOrders(ctx context.Context, buyerID string) ([]views.OrderDetail, error) {
	orders, err := s.orders.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	return s.describe(ctx, orders)
}

// Catalog returns the approved listings matching f. ApprovedOnly is
// forced on since buyers never see unmoderated listings.
func (s *DashboardService) Catalog(ctx context.Context, f views.ListingFilter) ([]model.Crop, error) {
	crops, err := s.crops.List(ctx)
	if err != nil {
		return nil, err
	}
	f.ApprovedOnly = true
	return views.FilterListings(crops, f), nil
}

// Categories lists the categories present in the approved catalog.
func (s *DashboardService) Categories(ctx context.Context) ([]string, error) {
	crops, err := s.crops.List(ctx)
	if err != nil {
		return nil, err
	}
	return views.Categories(views.FilterListings(crops, views.ListingFilter{ApprovedOnly: true})), nil
}

func (s *DashboardService) describe(ctx context.Context, orders []model.Order) ([]views.OrderDetail, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	crops, err := s.crops.List(ctx)
	if err != nil {
		return nil, err
	}
	return views.DescribeOrders(orders, crops, users), nil
}
