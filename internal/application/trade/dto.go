package trade

import (
	"time"

	"github.com/eightysix/analytics/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest represents a request to record a delivery line
type CreateTransactionRequest struct {
	CustomerID int64           `json:"customer_id" binding:"required,min=1"`
	ProductID  int64           `json:"product_id" binding:"required,min=1"`
	Cost       decimal.Decimal `json:"cost"`
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity"`
	Delivered  time.Time       `json:"delivered" binding:"required"`
	Stopped    bool            `json:"stopped"`
}

// UpdateTransactionRequest represents a partial transaction update
type UpdateTransactionRequest struct {
	CustomerID *int64           `json:"customer_id" binding:"omitempty,min=1"`
	ProductID  *int64           `json:"product_id" binding:"omitempty,min=1"`
	Cost       *decimal.Decimal `json:"cost"`
	Price      *decimal.Decimal `json:"price"`
	Quantity   *decimal.Decimal `json:"quantity"`
	Delivered  *time.Time       `json:"delivered"`
	Stopped    *bool            `json:"stopped"`
}

// SetStoppedRequest flags a transaction as stopped. A missing value means false.
type SetStoppedRequest struct {
	Stopped bool `json:"stopped"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID            int64           `json:"id"`
	CustomerID    int64           `json:"customer_id"`
	ProductID     int64           `json:"product_id"`
	Cost          decimal.Decimal `json:"cost"`
	Price         decimal.Decimal `json:"price"`
	Quantity      decimal.Decimal `json:"quantity"`
	Delivered     time.Time       `json:"delivered"`
	Stopped       bool            `json:"stopped"`
	Modified      time.Time       `json:"modified"`
	Code          string          `json:"code"`
	Title         string          `json:"title"`
	CustomerCode  string          `json:"customer_code,omitempty"`
	CustomerTitle string          `json:"customer_title,omitempty"`
}

// OrderResponse groups the lines delivered on one day
type OrderResponse struct {
	Delivered  string                `json:"delivered"`
	TotalValue decimal.Decimal       `json:"total_value"`
	Items      []TransactionResponse `json:"items"`
}

// ToTransactionResponse converts a TransactionView to a response
func ToTransactionResponse(v trade.TransactionView) TransactionResponse {
	return TransactionResponse{
		ID:            v.ID,
		CustomerID:    v.CustomerID,
		ProductID:     v.ProductID,
		Cost:          v.Cost,
		Price:         v.Price,
		Quantity:      v.Quantity,
		Delivered:     v.Delivered,
		Stopped:       v.Stopped,
		Modified:      v.Modified,
		Code:          v.ProductCode,
		Title:         v.ProductTitle,
		CustomerCode:  v.CustomerCode,
		CustomerTitle: v.CustomerTitle,
	}
}

// ToOrderResponse converts an Order to a response
func ToOrderResponse(o trade.Order) OrderResponse {
	items := make([]TransactionResponse, len(o.Items))
	for i := range o.Items {
		items[i] = ToTransactionResponse(o.Items[i])
	}
	return OrderResponse{
		Delivered:  trade.DateKey(o.Delivered),
		TotalValue: o.TotalValue,
		Items:      items,
	}
}
