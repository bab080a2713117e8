package persistence

import (
	"context"
	"strings"

	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/models"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/query"
	"gorm.io/gorm"
)

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// ListForAdmin lists suppliers
func (r *GormSupplierRepository) ListForAdmin(ctx context.Context, params shared.ListParams) ([]partner.Supplier, error) {
	var rows []models.SupplierModel
	if err := r.db.WithContext(ctx).
		Scopes(query.New(SupplierAdminSpec, params).Apply()).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	suppliers := make([]partner.Supplier, len(rows))
	for i := range rows {
		suppliers[i] = *rows[i].ToDomain()
	}
	return suppliers, nil
}

// CountForAdmin counts suppliers matching the same filters as ListForAdmin
func (r *GormSupplierRepository) CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.SupplierModel{}).
		Scopes(query.New(SupplierAdminSpec, params).Where()).
		Count(&total).Error
	return total, err
}

// GetByID finds a supplier by its ID
func (r *GormSupplierRepository) GetByID(ctx context.Context, id int64) (*partner.Supplier, error) {
	var model models.SupplierModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		return nil, translateError(err, shared.ErrSupplierNotFound)
	}
	return model.ToDomain(), nil
}

// GetByCode finds a supplier by its code
func (r *GormSupplierRepository) GetByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	var model models.SupplierModel
	if err := r.db.WithContext(ctx).Where("code = ?", strings.TrimSpace(code)).Take(&model).Error; err != nil {
		return nil, translateError(err, shared.ErrSupplierNotFound)
	}
	return model.ToDomain(), nil
}

// Create inserts a new supplier and sets its ID
func (r *GormSupplierRepository) Create(ctx context.Context, supplier *partner.Supplier) error {
	model := models.SupplierModelFromDomain(supplier)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err, shared.ErrSupplierNotFound)
	}
	supplier.ID = model.ID
	return nil
}

// Update writes the supplier's code and title
func (r *GormSupplierRepository) Update(ctx context.Context, supplier *partner.Supplier) error {
	result := r.db.WithContext(ctx).
		Model(&models.SupplierModel{}).
		Where("id = ?", supplier.ID).
		Updates(map[string]any{"code": supplier.Code, "title": supplier.Title})
	if result.Error != nil {
		return translateError(result.Error, shared.ErrSupplierNotFound)
	}
	if result.RowsAffected == 0 {
		return shared.ErrSupplierNotFound
	}
	return nil
}

// Ensure GormSupplierRepository implements SupplierRepository
var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
