package partner

import (
	"strings"

	"github.com/eightysix/analytics/internal/domain/shared"
)

// Supplier is the tenant organization whose staff manage customers and products.
type Supplier struct {
	ID    int64
	Title string
	Code  string
}

// NewSupplier creates a supplier with a normalized code.
func NewSupplier(title, code string) (*Supplier, error) {
	s := &Supplier{Title: strings.TrimSpace(title), Code: strings.TrimSpace(code)}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the supplier's required fields.
func (s *Supplier) Validate() error {
	verr := shared.NewValidationError()
	if s.Code == "" {
		verr.Add("code", "Please, fill supplier code")
	}
	if s.Title == "" {
		verr.Add("title", "Please, fill supplier title")
	}
	return verr.OrNil()
}

// SupplierUser links a User to the staff of a Supplier.
type SupplierUser struct {
	ID         int64
	UserID     int64
	SupplierID int64
}

// SupplierUserView is the admin projection of a supplier-user link.
type SupplierUserView struct {
	ID            int64
	UserID        int64
	SupplierID    int64
	Name          string
	Email         string
	Phone         string
	Role          string
	SupplierCode  string
	SupplierTitle string
}
