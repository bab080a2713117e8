package catalog

import (
	"context"
	"time"

	"github.com/eightysix/analytics/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// ListForAdmin lists products with their supplier code/title
	ListForAdmin(ctx context.Context, params shared.ListParams) ([]ProductView, error)

	// CountForAdmin counts products matching the same filters as ListForAdmin
	CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error)

	// GetByIDForAdmin finds any product by ID
	GetByIDForAdmin(ctx context.Context, id int64) (*ProductView, error)

	// Create inserts a new product and sets its ID
	Create(ctx context.Context, product *Product) error

	// Update writes the editable product fields
	Update(ctx context.Context, product *Product) error
}

// CustomerProductRepository defines the interface for customer product persistence
type CustomerProductRepository interface {
	ListForAdmin(ctx context.Context, params shared.ListParams) ([]CustomerProductView, error)
	CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error)

	// ListForSupplierCustomer lists products of a customer the actor is subscribed to.
	// The "overdue" flag keeps only active rows past their period.
	ListForSupplierCustomer(ctx context.Context, actorID, customerID int64, params shared.ListParams) ([]CustomerProductView, error)

	// CountForSupplierCustomer counts rows matching the same filters as ListForSupplierCustomer
	CountForSupplierCustomer(ctx context.Context, actorID, customerID int64, params shared.ListParams) (int64, error)

	// GetByIDForSupplier finds a row whose customer the actor is subscribed to
	GetByIDForSupplier(ctx context.Context, actorID, id int64) (*CustomerProduct, error)

	GetByIDForAdmin(ctx context.Context, id int64) (*CustomerProductView, error)
	Create(ctx context.Context, cp *CustomerProduct) error
	Update(ctx context.Context, cp *CustomerProduct) error
}

// ProjectionRepository writes the derived customer aggregates
type ProjectionRepository interface {
	// ApplyCustomerAggregates loads the active products of a customer, computes the
	// aggregates with compute and stores them with modified, all in one transaction.
	// It returns shared.ErrCustomerNotFound when the customer does not exist.
	ApplyCustomerAggregates(
		ctx context.Context,
		customerID int64,
		modified time.Time,
		compute func(active []CustomerProduct) Aggregates,
	) (Aggregates, error)
}
