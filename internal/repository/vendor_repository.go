package repository

import (
	"context"
	"errors"

	"github.com/sjperalta/dairydash-api/internal/models"
	"gorm.io/gorm"
)

// ErrEmailTaken is returned when a vendor registers with an existing email
var ErrEmailTaken = errors.New("a vendor with this email already exists")

// VendorRepository defines the interface for vendor data access
type VendorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Vendor, error)
	FindByEmail(ctx context.Context, email string) (*models.Vendor, error)
	Create(ctx context.Context, vendor *models.Vendor) error
	Update(ctx context.Context, vendor *models.Vendor) error
	FindAll(ctx context.Context) ([]models.Vendor, error)
}

type vendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository creates a new vendor repository
func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) FindByID(ctx context.Context, id string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) FindByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	if err := r.db.WithContext(ctx).Create(vendor).Error; err != nil {
		if IsDuplicateKeyError(err, "") {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *vendorRepository) Update(ctx context.Context, vendor *models.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

func (r *vendorRepository) FindAll(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&vendors).Error
	return vendors, err
}
