package models

import (
	"github.com/google/uuid"
)

// Booking lifecycle states.
const (
	BookingStatusPending    = "pending"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusInProgress = "in_progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"
)

// BookingStatuses lists every accepted status value.
var BookingStatuses = []string{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

// Booking is a customer's order of one or more offerings from a shop.
// TotalPrice is computed server-side from the selected offerings.
type Booking struct {
	BaseModel
	UserID           uuid.UUID         `gorm:"type:uuid;index" json:"user_id"`
	User             *User             `json:"user,omitempty"`
	ShopID           uuid.UUID         `gorm:"type:uuid;index" json:"shop_id"`
	Shop             *LaundryShop      `json:"shop,omitempty"`
	ServiceOfferings []ServiceOffering `gorm:"many2many:booking_offerings" json:"service_offerings,omitempty"`
	TotalPrice       float64           `json:"total_price"`
	Status           string            `gorm:"default:pending" json:"status"`
}
