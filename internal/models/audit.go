package models

import (
	"time"
)

// AuditLog records a vendor action against one of its entities
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VendorID  string    `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Action    string    `gorm:"size:50;not null" json:"action"` // CREATE, UPDATE, DELETE, TOGGLE, VOICE
	Entity    string    `gorm:"size:50;not null" json:"entity"` // Customer, DeliveryRecord, Payment, Bill
	EntityID  string    `gorm:"size:64" json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
