package persistence

import (
	"context"
	"time"

	"github.com/eightysix/analytics/internal/domain/catalog"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/datascope"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/models"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/query"
	"gorm.io/gorm"
)

const customerProductViewColumns = "customer_products.*, " +
	"products.code AS product_code, products.title AS product_title, " +
	"customers.code AS customer_code, customers.title AS customer_title"

// GormCustomerProductRepository implements CustomerProductRepository using GORM
type GormCustomerProductRepository struct {
	db *gorm.DB
}

// NewGormCustomerProductRepository creates a new GormCustomerProductRepository
func NewGormCustomerProductRepository(db *gorm.DB) *GormCustomerProductRepository {
	return &GormCustomerProductRepository{db: db}
}

func (r *GormCustomerProductRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.CustomerProductModel{}).
		Joins("JOIN products ON products.id = customer_products.product_id").
		Joins("JOIN customers ON customers.id = customer_products.customer_id")
}

func (r *GormCustomerProductRepository) list(db *gorm.DB) ([]catalog.CustomerProductView, error) {
	var rows []models.CustomerProductViewRow
	if err := db.Select(customerProductViewColumns).Scan(&rows).Error; err != nil {
		return nil, err
	}
	views := make([]catalog.CustomerProductView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToDomain()
	}
	return views, nil
}

// ListForAdmin lists every customer product with labels
func (r *GormCustomerProductRepository) ListForAdmin(ctx context.Context, params shared.ListParams) ([]catalog.CustomerProductView, error) {
	return r.list(r.joined(ctx).Scopes(query.New(CustomerProductAdminSpec, params).Apply()))
}

// CountForAdmin counts rows matching the same filters as ListForAdmin
func (r *GormCustomerProductRepository) CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error) {
	var total int64
	err := r.joined(ctx).
		Scopes(query.New(CustomerProductAdminSpec, params).Where()).
		Count(&total).Error
	return total, err
}

// ListForSupplierCustomer lists products of a customer the actor is subscribed to
func (r *GormCustomerProductRepository) ListForSupplierCustomer(ctx context.Context, actorID, customerID int64, params shared.ListParams) ([]catalog.CustomerProductView, error) {
	return r.list(r.joined(ctx).
		Where("customer_products.customer_id = ?", customerID).
		Scopes(
			datascope.Subscribed(actorID, "customer_products.customer_id"),
			query.New(CustomerProductSupplierSpec, params).Apply(),
		))
}

// CountForSupplierCustomer counts rows matching the same filters as ListForSupplierCustomer
func (r *GormCustomerProductRepository) CountForSupplierCustomer(ctx context.Context, actorID, customerID int64, params shared.ListParams) (int64, error) {
	var total int64
	err := r.joined(ctx).
		Where("customer_products.customer_id = ?", customerID).
		Scopes(
			datascope.Subscribed(actorID, "customer_products.customer_id"),
			query.New(CustomerProductSupplierSpec, params).Where(),
		).
		Count(&total).Error
	return total, err
}

// GetByIDForSupplier finds a row whose customer the actor is subscribed to
func (r *GormCustomerProductRepository) GetByIDForSupplier(ctx context.Context, actorID, id int64) (*catalog.CustomerProduct, error) {
	var model models.CustomerProductModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.Subscribed(actorID, "customer_products.customer_id")).
		Where("customer_products.id = ?", id).
		Take(&model).Error; err != nil {
		return nil, translateError(err, shared.ErrProductNotFound)
	}
	return model.ToDomain(), nil
}

// GetByIDForAdmin finds any customer product by ID
func (r *GormCustomerProductRepository) GetByIDForAdmin(ctx context.Context, id int64) (*catalog.CustomerProductView, error) {
	var row models.CustomerProductViewRow
	if err := r.joined(ctx).
		Select(customerProductViewColumns).
		Where("customer_products.id = ?", id).
		Take(&row).Error; err != nil {
		return nil, translateError(err, shared.ErrProductNotFound)
	}
	view := row.ToDomain()
	return &view, nil
}

// Create inserts a new customer product and sets its ID
func (r *GormCustomerProductRepository) Create(ctx context.Context, cp *catalog.CustomerProduct) error {
	cp.Modified = time.Now()
	model := models.CustomerProductModelFromDomain(cp)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err, shared.ErrProductNotFound)
	}
	cp.ID = model.ID
	return nil
}

// Update writes every column of the row, including zero values
func (r *GormCustomerProductRepository) Update(ctx context.Context, cp *catalog.CustomerProduct) error {
	cp.Modified = time.Now()
	model := models.CustomerProductModelFromDomain(cp)
	result := r.db.WithContext(ctx).
		Model(&models.CustomerProductModel{}).
		Where("id = ?", cp.ID).
		Select("customer_id", "product_id", "last_delivered", "margin", "outlier", "period",
			"price", "month_value", "growth", "active", "modified").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error, shared.ErrProductNotFound)
	}
	if result.RowsAffected == 0 {
		return shared.ErrProductNotFound
	}
	return nil
}

// Ensure GormCustomerProductRepository implements CustomerProductRepository
var _ catalog.CustomerProductRepository = (*GormCustomerProductRepository)(nil)
