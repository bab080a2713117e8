package trade

import (
	"context"

	"github.com/eightysix/analytics/internal/domain/shared"
)

// TransactionRepository defines the interface for transaction persistence
type TransactionRepository interface {
	// ListForAdmin lists transactions with product and customer labels
	ListForAdmin(ctx context.Context, params shared.ListParams) ([]TransactionView, error)

	// CountForAdmin counts transactions matching the same filters as ListForAdmin
	CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error)

	// ListForSupplierCustomer lists transactions of a customer the actor is subscribed to
	ListForSupplierCustomer(ctx context.Context, actorID, customerID int64, params shared.ListParams) ([]TransactionView, error)

	// CountForSupplierCustomer counts rows matching the same filters as ListForSupplierCustomer
	CountForSupplierCustomer(ctx context.Context, actorID, customerID int64, params shared.ListParams) (int64, error)

	// GetByIDForSupplier finds a transaction whose customer the actor is subscribed to
	GetByIDForSupplier(ctx context.Context, actorID, id int64) (*Transaction, error)

	// GetByIDForAdmin finds any transaction by ID
	GetByIDForAdmin(ctx context.Context, id int64) (*TransactionView, error)

	// ListOrdersForSupplierCustomer pages over delivery dates, newest first, and
	// returns every line item delivered on each selected date
	ListOrdersForSupplierCustomer(ctx context.Context, actorID, customerID int64, params shared.ListParams) ([]Order, error)

	// CountOrdersForSupplierCustomer counts distinct delivery dates in scope
	CountOrdersForSupplierCustomer(ctx context.Context, actorID, customerID int64) (int64, error)

	Create(ctx context.Context, tx *Transaction) error
	Update(ctx context.Context, tx *Transaction) error
}
