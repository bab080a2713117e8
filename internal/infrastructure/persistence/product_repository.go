package persistence

import (
	"context"

	"github.com/eightysix/analytics/internal/domain/catalog"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/models"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/query"
	"gorm.io/gorm"
)

const productViewColumns = "products.*, suppliers.code AS supplier_code, suppliers.title AS supplier_title"

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) withSupplier(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Joins("JOIN suppliers ON suppliers.id = products.supplier_id")
}

// ListForAdmin lists products with their supplier code/title
func (r *GormProductRepository) ListForAdmin(ctx context.Context, params shared.ListParams) ([]catalog.ProductView, error) {
	var rows []models.ProductViewRow
	if err := r.withSupplier(ctx).
		Select(productViewColumns).
		Scopes(query.New(ProductAdminSpec, params).Apply()).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	views := make([]catalog.ProductView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToDomain()
	}
	return views, nil
}

// CountForAdmin counts products matching the same filters as ListForAdmin
func (r *GormProductRepository) CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error) {
	var total int64
	err := r.withSupplier(ctx).
		Scopes(query.New(ProductAdminSpec, params).Where()).
		Count(&total).Error
	return total, err
}

// GetByIDForAdmin finds any product by ID
func (r *GormProductRepository) GetByIDForAdmin(ctx context.Context, id int64) (*catalog.ProductView, error) {
	var row models.ProductViewRow
	if err := r.withSupplier(ctx).
		Select(productViewColumns).
		Where("products.id = ?", id).
		Take(&row).Error; err != nil {
		return nil, translateError(err, shared.ErrProductNotFound)
	}
	view := row.ToDomain()
	return &view, nil
}

// Create inserts a new product and sets its ID
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err, shared.ErrProductNotFound)
	}
	product.ID = model.ID
	return nil
}

// Update writes the editable product fields
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"supplier_id": product.SupplierID,
			"code":        product.Code,
			"title":       product.Title,
			"list_price":  product.ListPrice,
		})
	if result.Error != nil {
		return translateError(result.Error, shared.ErrProductNotFound)
	}
	if result.RowsAffected == 0 {
		return shared.ErrProductNotFound
	}
	return nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
