package models

import (
	"time"

	"github.com/eightysix/analytics/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// TransactionModel is the persistence model for the Transaction domain entity.
type TransactionModel struct {
	IDModel
	CustomerID int64           `gorm:"not null;uniqueIndex:idx_transactions_customer_product_delivered,priority:1"`
	ProductID  int64           `gorm:"not null;uniqueIndex:idx_transactions_customer_product_delivered,priority:2;index"`
	Cost       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	Quantity   decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	Delivered  time.Time       `gorm:"not null;uniqueIndex:idx_transactions_customer_product_delivered,priority:3"`
	Stopped    bool            `gorm:"not null;default:false"`
	Modified   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction entity.
func (m *TransactionModel) ToDomain() *trade.Transaction {
	return &trade.Transaction{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		ProductID:  m.ProductID,
		Cost:       m.Cost,
		Price:      m.Price,
		Quantity:   m.Quantity,
		Delivered:  m.Delivered,
		Stopped:    m.Stopped,
		Modified:   m.Modified,
	}
}

// FromDomain populates the persistence model from a domain Transaction entity.
func (m *TransactionModel) FromDomain(t *trade.Transaction) {
	m.ID = t.ID
	m.CustomerID = t.CustomerID
	m.ProductID = t.ProductID
	m.Cost = t.Cost
	m.Price = t.Price
	m.Quantity = t.Quantity
	m.Delivered = t.Delivered
	m.Stopped = t.Stopped
	m.Modified = t.Modified
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction entity.
func TransactionModelFromDomain(t *trade.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}

// TransactionViewRow is a transaction joined with product and customer labels.
type TransactionViewRow struct {
	TransactionModel
	ProductCode   string
	ProductTitle  string
	CustomerCode  string
	CustomerTitle string
}

// ToDomain converts the row to a domain TransactionView.
func (r *TransactionViewRow) ToDomain() trade.TransactionView {
	return trade.TransactionView{
		Transaction:   *r.TransactionModel.ToDomain(),
		ProductCode:   r.ProductCode,
		ProductTitle:  r.ProductTitle,
		CustomerCode:  r.CustomerCode,
		CustomerTitle: r.CustomerTitle,
	}
}

// OrderLineRow is a line of the orders view: a transaction plus the day it
// was grouped under and that day's total.
type OrderLineRow struct {
	TransactionViewRow
	Day        string
	TotalValue decimal.Decimal
}
