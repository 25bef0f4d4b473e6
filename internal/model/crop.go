package model

import "time"

// Crop is a listing offered by a farmer. FarmerName is copied from the
// owner at creation time and is not kept in sync afterwards. Quantity is
// advisory stock; orders never decrement it.
//
// IsApproved starts false and is reset to false by every edit, so a listing
// is only visible to buyers between an admin approval and the next edit.
type Crop struct {
	ID              string    `json:"id"`
	FarmerID        string    `json:"farmerId"`
	FarmerName      string    `json:"farmerName"`
	Name            string    `json:"name" validate:"required"`
	Category        string    `json:"category" validate:"required"`
	Quantity        float64   `json:"quantity" validate:"required"`
	Price           float64   `json:"price" validate:"required"`
	Unit            string    `json:"unit"`
	Images          []string  `json:"images"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	AvailableFrom   string    `json:"availableFrom"`
	AvailableTo     string    `json:"availableTo"`
	DeliveryOptions []string  `json:"deliveryOptions"`
	IsApproved      bool      `json:"isApproved"`
	CreatedAt       time.Time `json:"createdAt"`
}
