// Package queue carries order lifecycle events over RabbitMQ.
package queue

import "time"

// Event types.
const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"
)

// OrderEvent is published whenever an order is created or a farmer decides
// on it. It repeats enough of the order that a consumer can log or notify
// without reading the store.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	CropID     string    `json:"crop_id"`
	FarmerID   string    `json:"farmer_id"`
	BuyerID    string    `json:"buyer_id"`
	Quantity   float64   `json:"quantity"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
