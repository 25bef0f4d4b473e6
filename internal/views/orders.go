package views

import "github.com/iliyamo/farm-market/internal/model"

// Placeholders for references whose target no longer exists.
const (
	UnknownCrop = "Unknown Crop"
	UnknownUser = "Unknown"
)

// OrderDetail is an order joined with the names the dashboards print.
type OrderDetail struct {
	model.Order
	CropName      string `json:"cropName"`
	Unit          string `json:"unit"`
	FarmerName    string `json:"farmerName"`
	BuyerName     string `json:"buyerName"`
	BuyerPhone    string `json:"buyerPhone,omitempty"`
	BuyerLocation string `json:"buyerLocation,omitempty"`
}

// DescribeOrders resolves crop and user references. Deleted users and
// listings are not cascaded, so lookups that miss fall back to the
// placeholder names instead of dropping the order.
func DescribeOrders(orders []model.Order, crops []model.Crop, users []model.User) []OrderDetail {
	cropByID := make(map[string]model.Crop, len(crops))
	for _, c := range crops {
		cropByID[c.ID] = c
	}
	userByID := make(map[string]model.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	out := make([]OrderDetail, 0, len(orders))
	for _, o := range orders {
		d := OrderDetail{Order: o, CropName: UnknownCrop, FarmerName: UnknownUser, BuyerName: UnknownUser}
		if c, ok := cropByID[o.CropID]; ok {
			d.CropName = c.Name
			d.Unit = c.Unit
		}
		if u, ok := userByID[o.FarmerID]; ok {
			d.FarmerName = u.Name
		}
		if u, ok := userByID[o.BuyerID]; ok {
			d.BuyerName = u.Name
			d.BuyerPhone = u.Phone
			d.BuyerLocation = u.Location
		}
		out = append(out, d)
	}
	return out
}

// RecentOrders returns the first n orders in storage order, matching the
// "recent orders" strip on the buyer dashboard.
func RecentOrders(orders []model.Order, n int) []model.Order {
	if n < 0 || n >= len(orders) {
		return orders
	}
	return orders[:n]
}
