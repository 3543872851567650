package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Vendor       VendorRepository
	RefreshToken RefreshTokenRepository
	Customer     CustomerRepository
	Delivery     DeliveryRepository
	Payment      PaymentRepository
	Bill         BillRepository
	Audit        AuditRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Vendor:       NewVendorRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Customer:     NewCustomerRepository(db),
		Delivery:     NewDeliveryRepository(db),
		Payment:      NewPaymentRepository(db),
		Bill:         NewBillRepository(db),
		Audit:        NewAuditRepository(db),
	}
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery returns a query with defaults applied
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset of the current page
func (q *ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}
