package catalog

import (
	"strings"

	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is an item in a supplier's catalog.
type Product struct {
	ID         int64
	SupplierID int64
	Code       string
	Title      string
	ListPrice  decimal.Decimal
}

// NewProduct creates a new product
func NewProduct(supplierID int64, code, title string, listPrice decimal.Decimal) (*Product, error) {
	p := &Product{
		SupplierID: supplierID,
		Code:       strings.TrimSpace(code),
		Title:      strings.TrimSpace(title),
		ListPrice:  listPrice,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the product's required fields
func (p *Product) Validate() error {
	verr := shared.NewValidationError()
	if p.SupplierID <= 0 {
		verr.Add("supplier_id", "Please, specify supplier")
	}
	if p.Code == "" {
		verr.Add("code", "Please, fill product code")
	}
	if p.Title == "" {
		verr.Add("title", "Please, fill product title")
	}
	if p.ListPrice.IsNegative() {
		verr.Add("list_price", "List price cannot be negative")
	}
	return verr.OrNil()
}

// ProductView is a product row with its supplier's code and title.
type ProductView struct {
	Product
	SupplierCode  string
	SupplierTitle string
}
