package catalog

import (
	"time"

	"github.com/eightysix/analytics/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	SupplierID int64           `json:"supplier_id" binding:"required,min=1"`
	Code       string          `json:"code" binding:"required,min=1,max=100"`
	Title      string          `json:"title" binding:"required,min=1,max=255"`
	ListPrice  decimal.Decimal `json:"list_price"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	SupplierID *int64           `json:"supplier_id" binding:"omitempty,min=1"`
	Code       *string          `json:"code" binding:"omitempty,min=1,max=100"`
	Title      *string          `json:"title" binding:"omitempty,min=1,max=255"`
	ListPrice  *decimal.Decimal `json:"list_price"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            int64           `json:"id"`
	SupplierID    int64           `json:"supplier_id"`
	Code          string          `json:"code"`
	Title         string          `json:"title"`
	ListPrice     decimal.Decimal `json:"list_price"`
	SupplierCode  string          `json:"supplier_code,omitempty"`
	SupplierTitle string          `json:"supplier_title,omitempty"`
}

// ToProductResponse converts a ProductView to a response
func ToProductResponse(v catalog.ProductView) ProductResponse {
	return ProductResponse{
		ID:            v.ID,
		SupplierID:    v.SupplierID,
		Code:          v.Code,
		Title:         v.Title,
		ListPrice:     v.ListPrice,
		SupplierCode:  v.SupplierCode,
		SupplierTitle: v.SupplierTitle,
	}
}

// CustomerProductFields are the editable fields of a customer product.
// A nil field is left unchanged.
type CustomerProductFields struct {
	LastDelivered *time.Time       `json:"last_delivered"`
	Margin        *decimal.Decimal `json:"margin"`
	Outlier       *int             `json:"outlier" binding:"omitempty,min=0"`
	Period        *int             `json:"period" binding:"omitempty,min=0"`
	Price         *decimal.Decimal `json:"price"`
	MonthValue    *decimal.Decimal `json:"month_value"`
	Growth        *float64         `json:"growth"`
	Active        *bool            `json:"active"`
}

// CreateCustomerProductRequest represents a request to attach a product to a customer
type CreateCustomerProductRequest struct {
	CustomerID int64 `json:"customer_id" binding:"required,min=1"`
	ProductID  int64 `json:"product_id" binding:"required,min=1"`
	CustomerProductFields
}

// UpdateCustomerProductRequest represents a partial customer product update
type UpdateCustomerProductRequest struct {
	CustomerID *int64 `json:"customer_id" binding:"omitempty,min=1"`
	ProductID  *int64 `json:"product_id" binding:"omitempty,min=1"`
	CustomerProductFields
}

// SetActiveRequest toggles a customer product
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// CustomerProductResponse represents a customer product in API responses
type CustomerProductResponse struct {
	ID            int64           `json:"id"`
	CustomerID    int64           `json:"customer_id"`
	ProductID     int64           `json:"product_id"`
	LastDelivered *time.Time      `json:"last_delivered"`
	Margin        decimal.Decimal `json:"margin"`
	Outlier       *int            `json:"outlier"`
	Period        *int            `json:"period"`
	Price         decimal.Decimal `json:"price"`
	MonthValue    decimal.Decimal `json:"month_value"`
	Growth        float64         `json:"growth"`
	Active        bool            `json:"active"`
	Modified      time.Time       `json:"modified"`
	Overdue       bool            `json:"overdue"`
	Code          string          `json:"code"`
	Title         string          `json:"title"`
	CustomerCode  string          `json:"customer_code,omitempty"`
	CustomerTitle string          `json:"customer_title,omitempty"`
}

// ToCustomerProductResponse converts a CustomerProductView to a response
func ToCustomerProductResponse(v catalog.CustomerProductView, now time.Time) CustomerProductResponse {
	return CustomerProductResponse{
		ID:            v.ID,
		CustomerID:    v.CustomerID,
		ProductID:     v.ProductID,
		LastDelivered: v.LastDelivered,
		Margin:        v.Margin,
		Outlier:       v.Outlier,
		Period:        v.Period,
		Price:         v.Price,
		MonthValue:    v.MonthValue,
		Growth:        v.Growth,
		Active:        v.Active,
		Modified:      v.Modified,
		Overdue:       v.Overdue(now),
		Code:          v.ProductCode,
		Title:         v.ProductTitle,
		CustomerCode:  v.CustomerCode,
		CustomerTitle: v.CustomerTitle,
	}
}

func (f CustomerProductFields) apply(cp *catalog.CustomerProduct) {
	if f.LastDelivered != nil {
		cp.LastDelivered = f.LastDelivered
	}
	if f.Margin != nil {
		cp.Margin = *f.Margin
	}
	if f.Outlier != nil {
		cp.Outlier = f.Outlier
	}
	if f.Period != nil {
		cp.Period = f.Period
	}
	if f.Price != nil {
		cp.Price = *f.Price
	}
	if f.MonthValue != nil {
		cp.MonthValue = *f.MonthValue
	}
	if f.Growth != nil {
		cp.Growth = *f.Growth
	}
	if f.Active != nil {
		cp.Active = *f.Active
	}
}
