package partner

import (
	"context"

	"github.com/eightysix/analytics/internal/domain/identity"
	"github.com/eightysix/analytics/internal/domain/shared"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	ListForAdmin(ctx context.Context, params shared.ListParams) ([]Supplier, error)
	CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error)
	GetByID(ctx context.Context, id int64) (*Supplier, error)
	GetByCode(ctx context.Context, code string) (*Supplier, error)
	Create(ctx context.Context, supplier *Supplier) error
	Update(ctx context.Context, supplier *Supplier) error
}

// SupplierUserRepository persists supplier staff links
type SupplierUserRepository interface {
	// ListForAdmin lists links with user contact data and supplier code/title
	ListForAdmin(ctx context.Context, params shared.ListParams) ([]SupplierUserView, error)

	// CountForAdmin counts links matching the same filters as ListForAdmin
	CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error)

	// GetByID finds a bare link
	GetByID(ctx context.Context, id int64) (*SupplierUser, error)

	// GetByIDForAdmin finds a link with its admin projection
	GetByIDForAdmin(ctx context.Context, id int64) (*SupplierUserView, error)

	// CreateWithUser inserts the user and its supplier link in one transaction
	CreateWithUser(ctx context.Context, user *identity.User, supplierID int64) (*SupplierUser, error)

	// Link adds an existing user to a supplier's staff
	Link(ctx context.Context, userID, supplierID int64) (*SupplierUser, error)

	// Unlink removes the user's subscriptions to the supplier's customers and then
	// the staff link itself, in one transaction. It returns the rows removed.
	Unlink(ctx context.Context, userID, supplierID int64) (customers int64, suppliers int64, err error)
}

// NoteRepository persists customer notes
type NoteRepository interface {
	// ListForCustomer lists the notes authorID wrote on a customer, optionally
	// fuzzy-filtered by author name or body
	ListForCustomer(ctx context.Context, authorID, customerID int64, params shared.ListParams) ([]NoteView, error)

	// CountForCustomer counts notes matching the same filters as ListForCustomer
	CountForCustomer(ctx context.Context, authorID, customerID int64, params shared.ListParams) (int64, error)

	// GetViewByID finds a note with author and customer data
	GetViewByID(ctx context.Context, id int64) (*NoteView, error)

	// GetByIDForAuthor finds a note written by authorID
	GetByIDForAuthor(ctx context.Context, authorID, id int64) (*Note, error)

	Create(ctx context.Context, note *Note) error
	Update(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id int64) error
}
