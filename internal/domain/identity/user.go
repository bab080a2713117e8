package identity

import (
	"regexp"
	"strings"

	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/eightysix/analytics/internal/domain/shared"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is the local profile of an identity managed by the identity provider.
// ExternalUsername is the provider's subject for this user.
type User struct {
	ID               int64
	Name             string
	Email            string
	Phone            string
	ExternalUsername string
	Role             access.Role
}

// NewUser creates a new user with required fields
func NewUser(name, email, phone string, role access.Role) (*User, error) {
	u := &User{
		Name:  strings.TrimSpace(name),
		Email: NormalizeEmail(email),
		Phone: strings.TrimSpace(phone),
		Role:  role,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the user's profile fields
func (u *User) Validate() error {
	verr := shared.NewValidationError()
	if u.Email == "" {
		verr.Add("email", "Please, fill email")
	} else if !emailRegex.MatchString(u.Email) {
		verr.Add("email", "Please, enter a valid email")
	}
	if len(u.Phone) > 50 {
		verr.Add("phone", "Phone cannot exceed 50 characters")
	}
	if !u.Role.Valid() {
		verr.Add("role", "Unknown role")
	}
	return verr.OrNil()
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == access.RoleAdmin
}

// NormalizeEmail lower-cases and trims an address for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the address has a plausible shape
func ValidEmail(email string) bool {
	return emailRegex.MatchString(NormalizeEmail(email))
}
