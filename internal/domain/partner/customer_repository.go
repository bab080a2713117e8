package partner

import (
	"context"

	"github.com/eightysix/analytics/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// ListForAdmin lists every customer with its supplier code/title
	ListForAdmin(ctx context.Context, params shared.ListParams) ([]CustomerView, error)

	// CountForAdmin counts customers matching the same filters as ListForAdmin
	CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error)

	// ListForSupplier lists customers of the supplier(s) the actor is staff of
	ListForSupplier(ctx context.Context, actorID int64, params shared.ListParams) ([]CustomerView, error)

	// CountForSupplier counts customers matching the same filters as ListForSupplier
	CountForSupplier(ctx context.Context, actorID int64, params shared.ListParams) (int64, error)

	// GetByIDForSupplier finds a customer the actor both manages and is subscribed to
	GetByIDForSupplier(ctx context.Context, actorID, id int64) (*Customer, error)

	// GetManagedByID finds a customer of the actor's supplier, flagging the subscription
	GetManagedByID(ctx context.Context, actorID, id int64) (*CustomerView, error)

	// GetByIDForAdmin finds any customer by ID
	GetByIDForAdmin(ctx context.Context, id int64) (*CustomerView, error)

	// Create inserts a new customer and sets its ID
	Create(ctx context.Context, customer *Customer) error

	// Update writes the editable customer fields
	Update(ctx context.Context, customer *Customer) error
}

// CustomerUserRepository persists customer subscriptions
type CustomerUserRepository interface {
	// ListForSupplier lists the customers the actor is subscribed to with their latest note
	ListForSupplier(ctx context.Context, actorID int64, params shared.ListParams) ([]SubscribedCustomer, error)

	// CountForSupplier counts subscribed customers matching the same filters
	CountForSupplier(ctx context.Context, actorID int64, params shared.ListParams) (int64, error)

	// Subscribe creates the subscription if it does not exist yet
	Subscribe(ctx context.Context, actorID, customerID int64) error

	// Unsubscribe removes the subscription; removing a missing one is not an error
	Unsubscribe(ctx context.Context, actorID, customerID int64) error
}
