package partner

import (
	"strings"
	"time"

	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Customer is a supplier's client account. MonthValue and ThreatenedValue are
// projections recomputed from CustomerProduct rows and are never set by callers.
type Customer struct {
	ID              int64
	SupplierID      int64
	Code            string
	Title           string
	Address         string
	Currency        string
	LastDelivered   *time.Time
	MonthValue      decimal.Decimal
	ThreatenedValue decimal.Decimal
	Growth          float64
	Modified        time.Time
}

// NewCustomer creates a customer owned by supplierID.
func NewCustomer(supplierID int64, code, title, currency string) (*Customer, error) {
	c := &Customer{
		SupplierID: supplierID,
		Code:       strings.TrimSpace(code),
		Title:      strings.TrimSpace(title),
		Currency:   strings.TrimSpace(currency),
		Modified:   time.Now(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the customer's required fields.
func (c *Customer) Validate() error {
	verr := shared.NewValidationError()
	if c.SupplierID <= 0 {
		verr.Add("supplier_id", "Please, specify supplier")
	}
	if c.Code == "" {
		verr.Add("code", "Please, fill customer code")
	}
	if c.Currency == "" {
		verr.Add("currency", "Please, fill currency")
	}
	return verr.OrNil()
}

// CustomerView is a customer row enriched for listing.
type CustomerView struct {
	Customer
	SupplierCode  string
	SupplierTitle string
	// Subscribed reports whether the requesting actor has a CustomerUser row.
	Subscribed bool
}

// SubscribedCustomer is a row of the "my customers" list with the latest note.
type SubscribedCustomer struct {
	Customer
	LastNote          *string
	LastNoteTimestamp *time.Time
	LastNoteBy        *string
}

// CustomerUser is a user's subscription to a customer.
type CustomerUser struct {
	ID         int64
	UserID     int64
	CustomerID int64
}
