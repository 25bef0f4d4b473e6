package views

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/farm-market/internal/model"
)

// PlatformStats is the admin overview.
type PlatformStats struct {
	TotalUsers       int     `json:"totalUsers"`
	TotalFarmers     int     `json:"totalFarmers"`
	TotalBuyers      int     `json:"totalBuyers"`
	TotalCrops       int     `json:"totalCrops"`
	ApprovedCrops    int     `json:"approvedCrops"`
	PendingApprovals int     `json:"pendingApprovals"`
	TotalOrders      int     `json:"totalOrders"`
	PendingOrders    int     `json:"pendingOrders"`
	AcceptedOrders   int     `json:"acceptedOrders"`
	RejectedOrders   int     `json:"rejectedOrders"`
	CompletedOrders  int     `json:"completedOrders"`
	TotalRevenue     float64 `json:"totalRevenue"`
}

// ComputeStats aggregates the three collections. Revenue only counts
// completed orders; since nothing moves an order to completed, it stays 0
// however large the accepted totals are.
func ComputeStats(users []model.User, crops []model.Crop, orders []model.Order) PlatformStats {
	s := PlatformStats{
		TotalUsers:  len(users),
		TotalCrops:  len(crops),
		TotalOrders: len(orders),
	}
	for _, u := range users {
		switch u.Role {
		case model.RoleFarmer:
			s.TotalFarmers++
		case model.RoleBuyer:
			s.TotalBuyers++
		}
	}
	for _, c := range crops {
		if c.IsApproved {
			s.ApprovedCrops++
		} else {
			s.PendingApprovals++
		}
	}
	revenue := decimal.Zero
	for _, o := range orders {
		switch o.Status {
		case model.OrderPending:
			s.PendingOrders++
		case model.OrderAccepted:
			s.AcceptedOrders++
		case model.OrderRejected:
			s.RejectedOrders++
		case model.OrderCompleted:
			s.CompletedOrders++
			revenue = revenue.Add(decimal.NewFromFloat(o.TotalPrice))
		}
	}
	s.TotalRevenue = revenue.InexactFloat64()
	return s
}

// FarmerStats is the farmer dashboard header.
type FarmerStats struct {
	TotalCrops     int     `json:"totalCrops"`
	ApprovedCrops  int     `json:"approvedCrops"`
	PendingCrops   int     `json:"pendingCrops"`
	InventoryValue float64 `json:"inventoryValue"`
}

// ComputeFarmerStats summarizes a farmer's own listings. InventoryValue is
// the sum of price × quantity over every listing, approved or not.
func ComputeFarmerStats(crops []model.Crop) FarmerStats {
	s := FarmerStats{TotalCrops: len(crops)}
	value := decimal.Zero
	for _, c := range crops {
		if c.IsApproved {
			s.ApprovedCrops++
		} else {
			s.PendingCrops++
		}
		value = value.Add(decimal.NewFromFloat(c.Price).Mul(decimal.NewFromFloat(c.Quantity)))
	}
	s.InventoryValue = value.InexactFloat64()
	return s
}

// BuyerStats is the buyer dashboard header.
type BuyerStats struct {
	TotalOrders     int `json:"totalOrders"`
	PendingOrders   int `json:"pendingOrders"`
	CompletedOrders int `json:"completedOrders"`
}

func ComputeBuyerStats(orders []model.Order) BuyerStats {
	s := BuyerStats{TotalOrders: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case model.OrderPending:
			s.PendingOrders++
		case model.OrderCompleted:
			s.CompletedOrders++
		}
	}
	return s
}
