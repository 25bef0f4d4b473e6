package model

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderAccepted  OrderStatus = "accepted"
	OrderRejected  OrderStatus = "rejected"
	OrderCompleted OrderStatus = "completed" // no transition leads here yet
)

// PaymentStatus is fixed at creation; nothing updates it.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// OrderAction is a farmer decision on a pending order.
type OrderAction string

const (
	ActionAccept OrderAction = "accept"
	ActionReject OrderAction = "reject"
)

// Target returns the status an action moves a pending order to.
func (a OrderAction) Target() (OrderStatus, bool) {
	switch a {
	case ActionAccept:
		return OrderAccepted, true
	case ActionReject:
		return OrderRejected, true
	}
	return "", false
}

// Order is one entry of the `orders` collection. FarmerID is copied from
// the listing when the order is placed.
//
// Fields:
//
//	ID            – unique id.
//	FarmerID      – owner of the ordered listing.
//	BuyerID       – user who placed the order.
//	CropID        – ordered listing.
//	Quantity      – units ordered, at most the listing quantity at order time.
//	TotalPrice    – Quantity × listing price at order time.
//	Status        – pending, then accepted or rejected.
//	PaymentStatus – always pending today.
//	CreatedAt     – placement time.
type Order struct {
	ID            string        `json:"id"`
	FarmerID      string        `json:"farmerId"`
	BuyerID       string        `json:"buyerId"`
	CropID        string        `json:"cropId"`
	Quantity      float64       `json:"quantity"`
	TotalPrice    float64       `json:"totalPrice"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
}
