package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is money received from a customer
type Payment struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID    string          `gorm:"type:uuid;not null;index" json:"vendor_id"`
	CustomerID  string          `gorm:"type:uuid;not null;index" json:"customer_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method      string          `gorm:"column:payment_method;not null;default:cash" json:"payment_method"`
	PaymentDate time.Time       `gorm:"type:date;not null;index" json:"payment_date"`
	ReferenceID *string         `json:"reference_id,omitempty"`
	Notes       *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Associations
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment method constants
const (
	PaymentMethodCash = "cash"
	PaymentMethodUPI  = "upi"
	PaymentMethodCard = "card"
	PaymentMethodBank = "bank"
)

// BeforeCreate assigns an identifier and the default method
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Method == "" {
		p.Method = PaymentMethodCash
	}
	return nil
}

// ValidPaymentMethod reports whether m is a known payment method
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodCard, PaymentMethodBank:
		return true
	}
	return false
}

// Describe returns a one-line description used in audit entries
func (p *Payment) Describe() string {
	return fmt.Sprintf("%s %s on %s", strings.ToUpper(p.Method), p.Amount.StringFixed(2), formatDate(p.PaymentDate))
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"payment_method"`
	PaymentDate string          `json:"payment_date"`
	ReferenceID *string         `json:"reference_id,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		CustomerID:  p.CustomerID,
		Amount:      p.Amount,
		Method:      p.Method,
		PaymentDate: formatDate(p.PaymentDate),
		ReferenceID: p.ReferenceID,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}
