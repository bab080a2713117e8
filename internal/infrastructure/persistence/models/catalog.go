package models

import (
	"time"

	"github.com/eightysix/analytics/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	IDModel
	SupplierID int64           `gorm:"not null;uniqueIndex:idx_products_supplier_code,priority:1"`
	Code       string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_products_supplier_code,priority:2"`
	Title      string          `gorm:"type:varchar(255);not null"`
	ListPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:         m.ID,
		SupplierID: m.SupplierID,
		Code:       m.Code,
		Title:      m.Title,
		ListPrice:  m.ListPrice,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.ID = p.ID
	m.SupplierID = p.SupplierID
	m.Code = p.Code
	m.Title = p.Title
	m.ListPrice = p.ListPrice
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductViewRow is a product joined with its supplier.
type ProductViewRow struct {
	ProductModel
	SupplierCode  string
	SupplierTitle string
}

// ToDomain converts the row to a domain ProductView.
func (r *ProductViewRow) ToDomain() catalog.ProductView {
	return catalog.ProductView{
		Product:       *r.ProductModel.ToDomain(),
		SupplierCode:  r.SupplierCode,
		SupplierTitle: r.SupplierTitle,
	}
}

// CustomerProductModel is the persistence model for the CustomerProduct domain entity.
type CustomerProductModel struct {
	IDModel
	CustomerID    int64           `gorm:"not null;uniqueIndex:idx_customer_products_customer_product,priority:1"`
	ProductID     int64           `gorm:"not null;uniqueIndex:idx_customer_products_customer_product,priority:2;index"`
	LastDelivered *time.Time      `gorm:"column:last_delivered"`
	Margin        decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	Outlier       *int
	Period        *int
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	MonthValue    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	Growth        float64         `gorm:"not null;default:0"`
	Active        bool            `gorm:"not null"`
	Modified      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerProductModel) TableName() string {
	return "customer_products"
}

// ToDomain converts the persistence model to a domain CustomerProduct entity.
func (m *CustomerProductModel) ToDomain() *catalog.CustomerProduct {
	return &catalog.CustomerProduct{
		ID:            m.ID,
		CustomerID:    m.CustomerID,
		ProductID:     m.ProductID,
		LastDelivered: m.LastDelivered,
		Margin:        m.Margin,
		Outlier:       m.Outlier,
		Period:        m.Period,
		Price:         m.Price,
		MonthValue:    m.MonthValue,
		Growth:        m.Growth,
		Active:        m.Active,
		Modified:      m.Modified,
	}
}

// FromDomain populates the persistence model from a domain CustomerProduct entity.
func (m *CustomerProductModel) FromDomain(cp *catalog.CustomerProduct) {
	m.ID = cp.ID
	m.CustomerID = cp.CustomerID
	m.ProductID = cp.ProductID
	m.LastDelivered = cp.LastDelivered
	m.Margin = cp.Margin
	m.Outlier = cp.Outlier
	m.Period = cp.Period
	m.Price = cp.Price
	m.MonthValue = cp.MonthValue
	m.Growth = cp.Growth
	m.Active = cp.Active
	m.Modified = cp.Modified
}

// CustomerProductModelFromDomain creates a new persistence model from a domain CustomerProduct entity.
func CustomerProductModelFromDomain(cp *catalog.CustomerProduct) *CustomerProductModel {
	m := &CustomerProductModel{}
	m.FromDomain(cp)
	return m
}

// CustomerProductViewRow is a customer product joined with product and customer labels.
type CustomerProductViewRow struct {
	CustomerProductModel
	ProductCode   string
	ProductTitle  string
	CustomerCode  string
	CustomerTitle string
}

// ToDomain converts the row to a domain CustomerProductView.
func (r *CustomerProductViewRow) ToDomain() catalog.CustomerProductView {
	return catalog.CustomerProductView{
		CustomerProduct: *r.CustomerProductModel.ToDomain(),
		ProductCode:     r.ProductCode,
		ProductTitle:    r.ProductTitle,
		CustomerCode:    r.CustomerCode,
		CustomerTitle:   r.CustomerTitle,
	}
}
