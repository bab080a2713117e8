package identity

import (
	"context"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// GetByID finds a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail finds a user by normalized email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// Update updates name, phone and role
	Update(ctx context.Context, user *User) error

	// DeleteWithLinks removes the user's supplier and customer links and the
	// user row in one transaction
	DeleteWithLinks(ctx context.Context, id int64) error
}
