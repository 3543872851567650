package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dairydash-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	FindByID(ctx context.Context, vendorID, id string) (*models.Payment, error)
	List(ctx context.Context, vendorID string, query *ListQuery) ([]models.Payment, int64, error)
	FindByCustomer(ctx context.Context, vendorID, customerID string) ([]models.Payment, error)
	SumForRange(ctx context.Context, customerID string, start, end time.Time) (decimal.Decimal, error)
	CreateAndApply(ctx context.Context, payment *models.Payment) (*models.Customer, error)
	DeleteAndRevert(ctx context.Context, payment *models.Payment) (*models.Customer, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) FindByID(ctx context.Context, vendorID, id string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, vendorID string, query *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{}).Where("vendor_id = ?", vendorID)

	if customerID := query.Filters["customer_id"]; customerID != "" {
		db = db.Where("customer_id = ?", customerID)
	}
	if method := query.Filters["payment_method"]; method != "" {
		db = db.Where("payment_method = ?", method)
	}
	if from := query.Filters["start_date"]; from != "" {
		db = db.Where("payment_date >= ?", from)
	}
	if to := query.Filters["end_date"]; to != "" {
		db = db.Where("payment_date <= ?", to)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy == "amount" || query.SortBy == "payment_date" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("payment_date DESC, created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Find(&payments).Error
	return payments, total, err
}

func (r *paymentRepository) FindByCustomer(ctx context.Context, vendorID, customerID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND customer_id = ?", vendorID, customerID).
		Order("payment_date DESC").
		Find(&payments).Error
	return payments, err
}

// SumForRange totals the customer's payments dated within [start, end]
func (r *paymentRepository) SumForRange(ctx context.Context, customerID string, start, end time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("SUM(amount)").
		Where("customer_id = ? AND payment_date >= ? AND payment_date <= ?",
			customerID, start.Format(models.DateLayout), end.Format(models.DateLayout)).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// CreateAndApply stores the payment and subtracts it from the customer's
// outstanding amount in one transaction. The updated customer is returned.
func (r *paymentRepository) CreateAndApply(ctx context.Context, payment *models.Payment) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND vendor_id = ?", payment.CustomerID, payment.VendorID).
			First(&customer).Error; err != nil {
			return err
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		customer.OutstandingAmount = customer.OutstandingAmount.Sub(payment.Amount)
		customer.SettleStatus()
		return tx.Model(&customer).Updates(map[string]interface{}{
			"outstanding_amount": customer.OutstandingAmount,
			"payment_status":     customer.PaymentStatus,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// DeleteAndRevert removes the payment and adds its amount back to the
// customer's outstanding amount in one transaction.
func (r *paymentRepository) DeleteAndRevert(ctx context.Context, payment *models.Payment) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND vendor_id = ?", payment.CustomerID, payment.VendorID).
			First(&customer).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", payment.ID).Delete(&models.Payment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		customer.OutstandingAmount = customer.OutstandingAmount.Add(payment.Amount)
		customer.SettleStatus()
		return tx.Model(&customer).Updates(map[string]interface{}{
			"outstanding_amount": customer.OutstandingAmount,
			"payment_status":     customer.PaymentStatus,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
