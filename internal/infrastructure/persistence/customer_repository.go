package persistence

import (
	"context"
	"time"

	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/datascope"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/models"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/query"
	"gorm.io/gorm"
)

const customerViewColumns = "customers.*, suppliers.code AS supplier_code, suppliers.title AS supplier_title"

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) withSupplier(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Joins("JOIN suppliers ON suppliers.id = customers.supplier_id")
}

// ListForAdmin lists every customer with its supplier code/title
func (r *GormCustomerRepository) ListForAdmin(ctx context.Context, params shared.ListParams) ([]partner.CustomerView, error) {
	q := query.New(CustomerAdminSpec, params)
	var rows []models.CustomerViewRow
	if err := r.withSupplier(ctx).
		Select(customerViewColumns).
		Scopes(q.Apply()).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return customerViews(rows), nil
}

// CountForAdmin counts customers matching the same filters as ListForAdmin
func (r *GormCustomerRepository) CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error) {
	var total int64
	err := r.withSupplier(ctx).
		Scopes(query.New(CustomerAdminSpec, params).Where()).
		Count(&total).Error
	return total, err
}

// ListForSupplier lists customers of the supplier(s) the actor is staff of
func (r *GormCustomerRepository) ListForSupplier(ctx context.Context, actorID int64, params shared.ListParams) ([]partner.CustomerView, error) {
	q := query.New(CustomerSupplierSpec, params)
	flag, args := datascope.SubscribedFlag(actorID, "customers.id")
	var rows []models.CustomerViewRow
	if err := r.withSupplier(ctx).
		Select(customerViewColumns+", "+flag, args...).
		Scopes(datascope.Managed(actorID, "customers.id"), q.Apply()).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return customerViews(rows), nil
}

// CountForSupplier counts customers matching the same filters as ListForSupplier
func (r *GormCustomerRepository) CountForSupplier(ctx context.Context, actorID int64, params shared.ListParams) (int64, error) {
	var total int64
	err := r.withSupplier(ctx).
		Scopes(datascope.Managed(actorID, "customers.id"), query.New(CustomerSupplierSpec, params).Where()).
		Count(&total).Error
	return total, err
}

// GetByIDForSupplier finds a customer the actor both manages and is subscribed to
func (r *GormCustomerRepository) GetByIDForSupplier(ctx context.Context, actorID, id int64) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Scopes(
			datascope.Managed(actorID, "customers.id"),
			datascope.Subscribed(actorID, "customers.id"),
		).
		Where("customers.id = ?", id).
		Take(&model).Error; err != nil {
		return nil, translateError(err, shared.ErrCustomerNotFound)
	}
	return model.ToDomain(), nil
}

// GetManagedByID finds a customer of the actor's supplier, flagging the subscription
func (r *GormCustomerRepository) GetManagedByID(ctx context.Context, actorID, id int64) (*partner.CustomerView, error) {
	flag, args := datascope.SubscribedFlag(actorID, "customers.id")
	var row models.CustomerViewRow
	if err := r.withSupplier(ctx).
		Select(customerViewColumns+", "+flag, args...).
		Scopes(datascope.Managed(actorID, "customers.id")).
		Where("customers.id = ?", id).
		Take(&row).Error; err != nil {
		return nil, translateError(err, shared.ErrCustomerNotFound)
	}
	view := row.ToDomain()
	return &view, nil
}

// GetByIDForAdmin finds any customer by ID
func (r *GormCustomerRepository) GetByIDForAdmin(ctx context.Context, id int64) (*partner.CustomerView, error) {
	var row models.CustomerViewRow
	if err := r.withSupplier(ctx).
		Select(customerViewColumns).
		Where("customers.id = ?", id).
		Take(&row).Error; err != nil {
		return nil, translateError(err, shared.ErrCustomerNotFound)
	}
	view := row.ToDomain()
	return &view, nil
}

// Create inserts a new customer and sets its ID
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	if customer.Modified.IsZero() {
		customer.Modified = time.Now()
	}
	model := models.CustomerModelFromDomain(customer)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err, shared.ErrCustomerNotFound)
	}
	customer.ID = model.ID
	return nil
}

// Update writes the editable customer fields. The derived aggregates are owned
// by the projection and are never written here.
func (r *GormCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	customer.Modified = time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("id = ?", customer.ID).
		Updates(map[string]any{
			"supplier_id":    customer.SupplierID,
			"code":           customer.Code,
			"title":          customer.Title,
			"address":        customer.Address,
			"currency":       customer.Currency,
			"last_delivered": customer.LastDelivered,
			"growth":         customer.Growth,
			"modified":       customer.Modified,
		})
	if result.Error != nil {
		return translateError(result.Error, shared.ErrCustomerNotFound)
	}
	if result.RowsAffected == 0 {
		return shared.ErrCustomerNotFound
	}
	return nil
}

func customerViews(rows []models.CustomerViewRow) []partner.CustomerView {
	views := make([]partner.CustomerView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToDomain()
	}
	return views
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
