package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dairydash-api/internal/models"
	"gorm.io/gorm"
)

// CustomerRepository defines the interface for customer data access.
// Every lookup is scoped to the owning vendor.
type CustomerRepository interface {
	FindByID(ctx context.Context, vendorID, id string) (*models.Customer, error)
	List(ctx context.Context, vendorID string, query *ListQuery) ([]models.Customer, int64, error)
	FindAllByVendor(ctx context.Context, vendorID string) ([]models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	UpdateOutstanding(ctx context.Context, vendorID, id string, amount decimal.Decimal, status string) error
	Delete(ctx context.Context, vendorID, id string) error
	DeleteWithLedger(ctx context.Context, vendorID, id string) error
	SyncPaymentStatuses(ctx context.Context) (int64, error)
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) FindByID(ctx context.Context, vendorID, id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, vendorID string, query *ListQuery) ([]models.Customer, int64, error) {
	var customers []models.Customer
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Customer{}).Where("vendor_id = ?", vendorID)

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR phone ILIKE ?", search, search)
	}
	if query.Filters["payment_status"] != "" {
		db = db.Where("payment_status = ?", query.Filters["payment_status"])
	}
	if query.Filters["milk_type"] != "" {
		db = db.Where("milk_type = ?", query.Filters["milk_type"])
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch query.SortBy {
	case "name", "outstanding_amount", "start_date", "created_at":
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	default:
		db = db.Order("created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Find(&customers).Error
	return customers, total, err
}

// FindAllByVendor returns every customer of a vendor, newest first
func (r *customerRepository) FindAllByVendor(ctx context.Context, vendorID string) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&customers).Error
	return customers, err
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) UpdateOutstanding(ctx context.Context, vendorID, id string, amount decimal.Decimal, status string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		Updates(map[string]interface{}{
			"outstanding_amount": amount,
			"payment_status":     status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, vendorID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		Delete(&models.Customer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteWithLedger removes the customer's ledger records and the customer in one transaction
func (r *customerRepository) DeleteWithLedger(ctx context.Context, vendorID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ? AND vendor_id = ?", id, vendorID).
			Delete(&models.DeliveryRecord{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND vendor_id = ?", id, vendorID).Delete(&models.Customer{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// SyncPaymentStatuses aligns payment_status with outstanding_amount for every customer
func (r *customerRepository) SyncPaymentStatuses(ctx context.Context) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		paid := tx.Model(&models.Customer{}).
			Where("outstanding_amount <= 0 AND payment_status <> ?", models.PaymentStatusPaid).
			Update("payment_status", models.PaymentStatusPaid)
		if paid.Error != nil {
			return paid.Error
		}
		unpaid := tx.Model(&models.Customer{}).
			Where("outstanding_amount > 0 AND payment_status <> ?", models.PaymentStatusUnpaid).
			Update("payment_status", models.PaymentStatusUnpaid)
		if unpaid.Error != nil {
			return unpaid.Error
		}
		affected = paid.RowsAffected + unpaid.RowsAffected
		return nil
	})
	return affected, err
}
