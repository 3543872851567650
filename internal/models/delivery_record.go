package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeliveryStatus is the state of one customer's delivery on one day
type DeliveryStatus string

// Delivery status constants
const (
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusSkipped   DeliveryStatus = "skipped"
	DeliveryStatusPending   DeliveryStatus = "pending"
)

// Valid reports whether s is one of the known statuses
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusDelivered, DeliveryStatusSkipped, DeliveryStatusPending:
		return true
	}
	return false
}

// DeliveryRecord is a single ledger entry. There is at most one record per
// (customer, delivery date); writes go through an upsert on that pair.
type DeliveryRecord struct {
	ID              string          `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID        string          `gorm:"type:uuid;not null;index" json:"vendor_id"`
	CustomerID      string          `gorm:"type:uuid;not null;uniqueIndex:idx_delivery_customer_date,priority:1" json:"customer_id"`
	DeliveryDate    time.Time       `gorm:"type:date;not null;uniqueIndex:idx_delivery_customer_date,priority:2" json:"delivery_date"`
	Status          DeliveryStatus  `gorm:"type:varchar(16);not null;index" json:"status"`
	LitersDelivered decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"liters_delivered"`
	Notes           *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for DeliveryRecord
func (DeliveryRecord) TableName() string {
	return "delivery_records"
}

// BeforeCreate assigns an identifier when none was given
func (r *DeliveryRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// DateKey returns the record's day as YYYY-MM-DD
func (r *DeliveryRecord) DateKey() string {
	return r.DeliveryDate.Format(DateLayout)
}

// DeliveryRecordResponse is the JSON response format for ledger entries
type DeliveryRecordResponse struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	DeliveryDate    string          `json:"delivery_date"`
	Status          DeliveryStatus  `json:"status"`
	LitersDelivered decimal.Decimal `json:"liters_delivered"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToResponse converts DeliveryRecord to DeliveryRecordResponse
func (r *DeliveryRecord) ToResponse() DeliveryRecordResponse {
	return DeliveryRecordResponse{
		ID:              r.ID,
		CustomerID:      r.CustomerID,
		DeliveryDate:    r.DateKey(),
		Status:          r.Status,
		LitersDelivered: r.LitersDelivered,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
