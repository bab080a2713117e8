package catalog

import (
	"time"

	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerProduct is the per-customer subscription to a product with its
// delivery cadence. Outlier and Period are day counts.
type CustomerProduct struct {
	ID            int64
	CustomerID    int64
	ProductID     int64
	LastDelivered *time.Time
	Margin        decimal.Decimal
	Outlier       *int
	Period        *int
	Price         decimal.Decimal
	MonthValue    decimal.Decimal
	Growth        float64
	Active        bool
	Modified      time.Time
}

// NewCustomerProduct creates an active customer product.
func NewCustomerProduct(customerID, productID int64) (*CustomerProduct, error) {
	cp := &CustomerProduct{
		CustomerID: customerID,
		ProductID:  productID,
		Active:     true,
		Modified:   time.Now(),
	}
	if err := cp.Validate(); err != nil {
		return nil, err
	}
	return cp, nil
}

// Validate checks references and the non-negative day counts.
func (cp *CustomerProduct) Validate() error {
	verr := shared.NewValidationError()
	if cp.CustomerID <= 0 {
		verr.Add("customer_id", "Please, specify customer")
	}
	if cp.ProductID <= 0 {
		verr.Add("product_id", "Please, specify product")
	}
	if cp.Outlier != nil && *cp.Outlier < 0 {
		verr.Add("outlier", "Outlier cannot be negative")
	}
	if cp.Period != nil && *cp.Period < 0 {
		verr.Add("period", "Period cannot be negative")
	}
	return verr.OrNil()
}

// Overdue reports whether more than Period whole days have passed since the
// last delivery. Inactive rows are never overdue.
func (cp *CustomerProduct) Overdue(now time.Time) bool {
	if !cp.Active || cp.LastDelivered == nil || cp.Period == nil {
		return false
	}
	return int(now.Sub(*cp.LastDelivered).Hours()/24) > *cp.Period
}

// CustomerProductView joins a customer product with product and customer labels.
type CustomerProductView struct {
	CustomerProduct
	ProductCode   string
	ProductTitle  string
	CustomerCode  string
	CustomerTitle string
}
