package repository

import (
	"context"
	"time"

	"github.com/sjperalta/dairydash-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BillRepository defines the interface for monthly bill data access
type BillRepository interface {
	FindByID(ctx context.Context, vendorID, id string) (*models.Bill, error)
	FindByMonth(ctx context.Context, customerID string, month time.Time) (*models.Bill, error)
	List(ctx context.Context, vendorID string, query *ListQuery) ([]models.Bill, int64, error)
	Upsert(ctx context.Context, bill *models.Bill) error
	Update(ctx context.Context, bill *models.Bill) error
}

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) FindByID(ctx context.Context, vendorID, id string) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("id = ? AND vendor_id = ?", id, vendorID).
		First(&bill).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) FindByMonth(ctx context.Context, customerID string, month time.Time) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND month = ?", customerID, month.Format(models.DateLayout)).
		First(&bill).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) List(ctx context.Context, vendorID string, query *ListQuery) ([]models.Bill, int64, error) {
	var bills []models.Bill
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Bill{}).Where("vendor_id = ?", vendorID)

	if customerID := query.Filters["customer_id"]; customerID != "" {
		db = db.Where("customer_id = ?", customerID)
	}
	if status := query.Filters["status"]; status != "" {
		db = db.Where("status = ?", status)
	}
	if month := query.Filters["month"]; month != "" {
		db = db.Where("month = ?", month)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order("month DESC, created_at DESC")
	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Preload("Customer").Find(&bills).Error
	return bills, total, err
}

// Upsert stores the snapshot, replacing the figures of an existing bill for
// the same customer and month. Sent flags are kept.
func (r *billRepository) Upsert(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "customer_id"}, {Name: "month"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_days", "delivered_days", "skipped_days", "total_liters",
				"total_amount", "paid_amount", "status", "document_path", "updated_at",
			}),
		}, clause.Returning{}).
		Create(bill).Error
}

func (r *billRepository) Update(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Omit("Customer").Save(bill).Error
}
