package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer is a household or shop that receives a daily milk delivery
type Customer struct {
	ID                string          `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID          string          `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Name              string          `gorm:"not null" json:"name"`
	Phone             string          `json:"phone"`
	MilkType          string          `gorm:"not null;default:cow" json:"milk_type"`
	DailyLiters       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"daily_liters"`
	RatePerLiter      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"rate_per_liter"`
	OutstandingAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"outstanding_amount"`
	PaymentStatus     string          `gorm:"not null;default:unpaid" json:"payment_status"`
	StartDate         *time.Time      `gorm:"type:date" json:"start_date"`
	BillingCycle      string          `gorm:"not null;default:monthly" json:"billing_cycle"`
	CreatedAt         time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// Milk type constants
const (
	MilkTypeCow     = "cow"
	MilkTypeBuffalo = "buffalo"
)

// Customer payment status constants
const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

// Billing cycle constants. The cycle is informational only.
const (
	BillingCycleDaily   = "daily"
	BillingCycleWeekly  = "weekly"
	BillingCycleMonthly = "monthly"
)

// BeforeCreate assigns an identifier and fills defaults
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.MilkType == "" {
		c.MilkType = MilkTypeCow
	}
	if c.PaymentStatus == "" {
		c.PaymentStatus = PaymentStatusUnpaid
	}
	if c.BillingCycle == "" {
		c.BillingCycle = BillingCycleMonthly
	}
	return nil
}

// ValidMilkType reports whether t is a known milk type
func ValidMilkType(t string) bool {
	return t == MilkTypeCow || t == MilkTypeBuffalo
}

// ValidBillingCycle reports whether c is a known billing cycle
func ValidBillingCycle(c string) bool {
	switch c {
	case BillingCycleDaily, BillingCycleWeekly, BillingCycleMonthly:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known customer payment status
func ValidPaymentStatus(s string) bool {
	return s == PaymentStatusPaid || s == PaymentStatusUnpaid
}

// BillingStart returns the first billable day: the stored start date, or the
// creation date when no start date was ever recorded.
func (c *Customer) BillingStart() time.Time {
	if c.StartDate != nil && !c.StartDate.IsZero() {
		return *c.StartDate
	}
	return c.CreatedAt
}

// SettleStatus derives the payment status from the outstanding amount
func (c *Customer) SettleStatus() {
	if c.OutstandingAmount.LessThanOrEqual(decimal.Zero) {
		c.PaymentStatus = PaymentStatusPaid
	} else {
		c.PaymentStatus = PaymentStatusUnpaid
	}
}

// CustomerResponse is the JSON response format for customers
type CustomerResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone"`
	MilkType          string          `json:"milk_type"`
	DailyLiters       decimal.Decimal `json:"daily_liters"`
	RatePerLiter      decimal.Decimal `json:"rate_per_liter"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	PaymentStatus     string          `json:"payment_status"`
	StartDate         string          `json:"start_date"`
	BillingCycle      string          `json:"billing_cycle"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToResponse converts Customer to CustomerResponse
func (c *Customer) ToResponse() CustomerResponse {
	return CustomerResponse{
		ID:                c.ID,
		Name:              c.Name,
		Phone:             c.Phone,
		MilkType:          c.MilkType,
		DailyLiters:       c.DailyLiters,
		RatePerLiter:      c.RatePerLiter,
		OutstandingAmount: c.OutstandingAmount,
		PaymentStatus:     c.PaymentStatus,
		StartDate:         formatDate(c.BillingStart()),
		BillingCycle:      c.BillingCycle,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}
