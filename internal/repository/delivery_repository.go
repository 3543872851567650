package repository

import (
	"context"
	"time"

	"github.com/sjperalta/dairydash-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeliveryRepository defines the interface for the per-day delivery ledger
type DeliveryRepository interface {
	GetRange(ctx context.Context, customerID string, start, end time.Time) ([]models.DeliveryRecord, error)
	FindByDate(ctx context.Context, customerID string, date time.Time) (*models.DeliveryRecord, error)
	FindByID(ctx context.Context, id string) (*models.DeliveryRecord, error)
	Upsert(ctx context.Context, record *models.DeliveryRecord) error
	BulkUpsert(ctx context.Context, records []models.DeliveryRecord) error
	CountByStatus(ctx context.Context, customerID string, status models.DeliveryStatus, start, end time.Time) (int64, error)
	CountByCustomer(ctx context.Context, customerID string) (int64, error)
	DeleteByID(ctx context.Context, id string) error
}

type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates a new delivery ledger repository
func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

// upsertConflict targets the (customer_id, delivery_date) unique index
var upsertConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "customer_id"}, {Name: "delivery_date"}},
	DoUpdates: clause.AssignmentColumns([]string{"status", "liters_delivered", "notes", "updated_at"}),
}

// GetRange returns the customer's records with start <= date <= end, oldest first
func (r *deliveryRepository) GetRange(ctx context.Context, customerID string, start, end time.Time) ([]models.DeliveryRecord, error) {
	var records []models.DeliveryRecord
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND delivery_date >= ? AND delivery_date <= ?",
			customerID, start.Format(models.DateLayout), end.Format(models.DateLayout)).
		Order("delivery_date ASC").
		Find(&records).Error
	return records, err
}

func (r *deliveryRepository) FindByDate(ctx context.Context, customerID string, date time.Time) (*models.DeliveryRecord, error) {
	var record models.DeliveryRecord
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND delivery_date = ?", customerID, date.Format(models.DateLayout)).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *deliveryRepository) FindByID(ctx context.Context, id string) (*models.DeliveryRecord, error) {
	var record models.DeliveryRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert inserts the record or, when (customer_id, delivery_date) already
// exists, overwrites status, liters and notes in the same statement. The
// stored row is read back into record.
func (r *deliveryRepository) Upsert(ctx context.Context, record *models.DeliveryRecord) error {
	return r.db.WithContext(ctx).
		Clauses(upsertConflict, clause.Returning{}).
		Create(record).Error
}

// BulkUpsert applies Upsert to many days in one statement
func (r *deliveryRepository) BulkUpsert(ctx context.Context, records []models.DeliveryRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(upsertConflict).
		Create(&records).Error
}

// CountByStatus counts records with the given status within [start, end]
func (r *deliveryRepository) CountByStatus(ctx context.Context, customerID string, status models.DeliveryStatus, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DeliveryRecord{}).
		Where("customer_id = ? AND status = ? AND delivery_date >= ? AND delivery_date <= ?",
			customerID, status, start.Format(models.DateLayout), end.Format(models.DateLayout)).
		Count(&count).Error
	return count, err
}

func (r *deliveryRepository) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DeliveryRecord{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count, err
}

// DeleteByID removes a record unconditionally
func (r *deliveryRepository) DeleteByID(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.DeliveryRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
