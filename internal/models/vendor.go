package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vendor is a milk-delivery business owner. Every customer, ledger record,
// payment and bill belongs to exactly one vendor.
type Vendor struct {
	ID                string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	EncryptedPassword string    `gorm:"column:encrypted_password;not null" json:"-"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for Vendor
func (Vendor) TableName() string {
	return "vendors"
}

// BeforeCreate assigns a new identifier when none was given
func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// VendorResponse is the JSON response format for a vendor
type VendorResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts Vendor to VendorResponse
func (v *Vendor) ToResponse() VendorResponse {
	return VendorResponse{
		ID:        v.ID,
		Email:     v.Email,
		Name:      v.Name,
		Phone:     v.Phone,
		CreatedAt: v.CreatedAt,
	}
}
