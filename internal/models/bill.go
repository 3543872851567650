package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bill is a monthly snapshot of a customer's billing summary. It is
// regenerated from the ledger whenever requested.
type Bill struct {
	ID              string          `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID        string          `gorm:"type:uuid;not null;index" json:"vendor_id"`
	CustomerID      string          `gorm:"type:uuid;not null;uniqueIndex:idx_bill_customer_month,priority:1" json:"customer_id"`
	Month           time.Time       `gorm:"type:date;not null;uniqueIndex:idx_bill_customer_month,priority:2" json:"month"`
	TotalDays       int             `gorm:"not null;default:0" json:"total_days"`
	DeliveredDays   int             `gorm:"not null;default:0" json:"delivered_days"`
	SkippedDays     int             `gorm:"not null;default:0" json:"skipped_days"`
	TotalLiters     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_liters"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	Status          string          `gorm:"not null;default:draft;index" json:"status"`
	SentViaWhatsApp bool            `gorm:"column:sent_via_whatsapp;not null;default:false" json:"sent_via_whatsapp"`
	DocumentPath    *string         `json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Associations
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// TableName specifies the table name for Bill
func (Bill) TableName() string {
	return "bills"
}

// Bill status constants
const (
	BillStatusDraft   = "draft"
	BillStatusSent    = "sent"
	BillStatusPaid    = "paid"
	BillStatusPartial = "partial"
)

// BeforeCreate assigns an identifier when none was given
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// SettleStatus derives the bill status from paid and total amounts
func (b *Bill) SettleStatus() {
	switch {
	case b.PaidAmount.IsZero():
		b.Status = BillStatusDraft
	case b.PaidAmount.GreaterThanOrEqual(b.TotalAmount):
		b.Status = BillStatusPaid
	default:
		b.Status = BillStatusPartial
	}
}

// HasDocument returns true if a PDF was rendered for the bill
func (b *Bill) HasDocument() bool {
	return b.DocumentPath != nil && *b.DocumentPath != ""
}

// BillResponse is the JSON response format for bills
type BillResponse struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	Month           string          `json:"month"`
	TotalDays       int             `json:"total_days"`
	DeliveredDays   int             `json:"delivered_days"`
	SkippedDays     int             `json:"skipped_days"`
	TotalLiters     decimal.Decimal `json:"total_liters"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	Status          string          `json:"status"`
	SentViaWhatsApp bool            `json:"sent_via_whatsapp"`
	HasDocument     bool            `json:"has_document"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToResponse converts Bill to BillResponse
func (b *Bill) ToResponse() BillResponse {
	return BillResponse{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		Month:           b.Month.Format(MonthLayout),
		TotalDays:       b.TotalDays,
		DeliveredDays:   b.DeliveredDays,
		SkippedDays:     b.SkippedDays,
		TotalLiters:     b.TotalLiters,
		TotalAmount:     b.TotalAmount,
		PaidAmount:      b.PaidAmount,
		Status:          b.Status,
		SentViaWhatsApp: b.SentViaWhatsApp,
		HasDocument:     b.HasDocument(),
		UpdatedAt:       b.UpdatedAt,
	}
}
