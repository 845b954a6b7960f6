package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account roles.
const (
	UserTypeCustomer = "customer"
	UserTypeVendor   = "vendor"
)

// User is an account reachable through one identity channel: an email
// address or a country code + phone number pair. The unique indexes on
// both channels are the backstop against duplicate accounts.
type User struct {
	BaseModel
	Email       *string      `gorm:"uniqueIndex" json:"email"`
	CountryCode *string      `gorm:"size:5;uniqueIndex:idx_users_full_phone" json:"country_code"`
	PhoneNumber *string      `gorm:"size:15;uniqueIndex:idx_users_full_phone" json:"phone_number"`
	UserType    string       `gorm:"default:customer" json:"user_type"`
	IsVerified  bool         `json:"is_verified"`
	IsActive    bool         `gorm:"default:true" json:"is_active"`
	IsStaff     bool         `json:"is_staff"`
	Profile     *UserProfile `json:"profile,omitempty"`
}

// FullPhone joins country code and number, or returns "" for email-only accounts.
func (u *User) FullPhone() string {
	if u.CountryCode == nil || u.PhoneNumber == nil {
		return ""
	}
	return *u.CountryCode + *u.PhoneNumber
}

// OTP is a one-time login code bound to a user. Rows are never deleted;
// superseded and consumed codes stay behind with is_used set.
type OTP struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Code      string    `gorm:"size:6" json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `json:"is_used"`
}

// Valid reports whether the code can still be consumed at the given time.
func (o *OTP) Valid(now time.Time) bool {
	return !o.IsUsed && o.ExpiresAt.After(now)
}

// UserProfile holds optional account details created by the holder after
// verification. Absence of a row is a meaningful state surfaced to clients.
type UserProfile struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Pincode   string    `json:"pincode"`
	Address   string    `json:"address"`
}

// FullName joins the populated name parts.
func (p *UserProfile) FullName() string {
	parts := make([]string, 0, 2)
	if p.FirstName != "" {
		parts = append(parts, p.FirstName)
	}
	if p.LastName != "" {
		parts = append(parts, p.LastName)
	}
	return strings.Join(parts, " ")
}

// AuthToken is the persistent opaque bearer credential, issued once per
// user and returned verbatim on every successful verification.
type AuthToken struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Key    string    `gorm:"size:40;uniqueIndex" json:"-"`
}
