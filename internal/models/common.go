package models

import (
	"time"
)

// DateLayout is the wire format of calendar dates (delivery dates, start dates, months)
const DateLayout = "2006-01-02"

// MonthLayout is the wire format of a billing month
const MonthLayout = "2006-01"

// RefreshToken represents a JWT refresh token issued to a vendor
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	VendorID  string     `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Token     string     `gorm:"uniqueIndex" json:"token"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Associations
	Vendor Vendor `gorm:"foreignKey:VendorID" json:"-"`
}

// TableName specifies the table name for RefreshToken
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// IsExpired returns true if the refresh token has expired
func (r *RefreshToken) IsExpired() bool {
	if r.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*r.ExpiresAt)
}

// formatDate renders a calendar date, or "" for the zero time
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
