package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// LaundryShop is a vendor-owned listing. Rating and TotalReviews are
// derived from the review set and are only ever written by the rating
// recompute; clients cannot set them.
type LaundryShop struct {
	BaseModel
	VendorID    uuid.UUID `gorm:"type:uuid;index" json:"vendor_id"`
	Name        string    `gorm:"uniqueIndex" json:"name"`
	Description string    `json:"description"`

	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	LocationURL string `json:"location_url"`

	Address   string   `json:"address"`
	District  string   `json:"district"`
	State     string   `json:"state"`
	Country   string   `gorm:"default:India" json:"country"`
	Zipcode   string   `json:"zipcode"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	PickupStartTime   string `json:"pickup_start_time"`
	PickupEndTime     string `json:"pickup_end_time"`
	DeliveryStartTime string `json:"delivery_start_time"`
	DeliveryEndTime   string `json:"delivery_end_time"`

	Rating       float64 `gorm:"type:numeric(3,2);default:0" json:"rating"`
	TotalReviews int     `gorm:"default:0" json:"total_reviews"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	ServiceOfferings []ServiceOffering `gorm:"foreignKey:ShopID" json:"service_offerings,omitempty"`
	OperatingHours   []OperatingHour   `gorm:"foreignKey:ShopID" json:"operating_hours,omitempty"`
	Reviews          []Review          `gorm:"foreignKey:ShopID" json:"reviews,omitempty"`
}

// ServiceType is a kind of laundry work (wash, iron, dry clean, ...).
type ServiceType struct {
	BaseModel
	Name        string `gorm:"uniqueIndex" json:"name"`
	Description string `json:"description"`
}

// ServiceOffering says that a shop offers a service type at a price.
type ServiceOffering struct {
	BaseModel
	ShopID           uuid.UUID    `gorm:"type:uuid;uniqueIndex:idx_offerings_shop_type" json:"shop_id"`
	ServiceTypeID    uuid.UUID    `gorm:"type:uuid;uniqueIndex:idx_offerings_shop_type" json:"service_type_id"`
	ServiceType      *ServiceType `json:"service_type,omitempty"`
	Price            float64      `json:"price"`
	Unit             string       `gorm:"default:per item" json:"unit"`
	EstimatedMinutes int          `json:"estimated_minutes"`
}

// Weekday values for OperatingHour, Monday first to match the listing order.
const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// OperatingHour is one weekday's window for a shop, at most one per weekday.
type OperatingHour struct {
	BaseModel
	ShopID      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_hours_shop_day" json:"shop_id"`
	DayOfWeek   int       `gorm:"uniqueIndex:idx_hours_shop_day" json:"day_of_week"`
	OpeningTime string    `json:"opening_time"`
	ClosingTime string    `json:"closing_time"`
	IsClosed    bool      `json:"is_closed"`
}

// DayName returns the weekday label, or "" for an out-of-range value.
func (h *OperatingHour) DayName() string {
	if h.DayOfWeek < 0 || h.DayOfWeek >= len(dayNames) {
		return ""
	}
	return dayNames[h.DayOfWeek]
}

// MarshalJSON adds the weekday label alongside the numeric day.
func (h OperatingHour) MarshalJSON() ([]byte, error) {
	type alias OperatingHour
	return json.Marshal(struct {
		alias
		DayName string `json:"day_name"`
	}{alias(h), h.DayName()})
}

// Review is a customer rating of a shop. Shop and author are fixed at
// creation; only rating and comment may change afterwards.
type Review struct {
	BaseModel
	ShopID       uuid.UUID  `gorm:"type:uuid;index" json:"shop_id"`
	UserID       *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	CustomerName string     `json:"customer_name"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment"`
}
