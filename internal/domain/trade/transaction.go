package trade

import (
	"time"

	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Transaction is a single delivered line: one product to one customer on one date.
type Transaction struct {
	ID         int64
	CustomerID int64
	ProductID  int64
	Cost       decimal.Decimal
	Price      decimal.Decimal
	Quantity   decimal.Decimal
	Delivered  time.Time
	Stopped    bool
	Modified   time.Time
}

// NewTransaction creates a new delivery line
func NewTransaction(customerID, productID int64, price, quantity decimal.Decimal, delivered time.Time) (*Transaction, error) {
	t := &Transaction{
		CustomerID: customerID,
		ProductID:  productID,
		Price:      price,
		Quantity:   quantity,
		Delivered:  delivered,
		Modified:   time.Now(),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks references, amounts and the delivery date
func (t *Transaction) Validate() error {
	verr := shared.NewValidationError()
	if t.CustomerID <= 0 {
		verr.Add("customer_id", "Please, specify customer")
	}
	if t.ProductID <= 0 {
		verr.Add("product_id", "Please, specify product")
	}
	if t.Delivered.IsZero() {
		verr.Add("delivered", "Please, fill delivery date")
	}
	if t.Price.IsNegative() {
		verr.Add("price", "Price cannot be negative")
	}
	if t.Cost.IsNegative() {
		verr.Add("cost", "Cost cannot be negative")
	}
	if t.Quantity.IsNegative() {
		verr.Add("quantity", "Quantity cannot be negative")
	}
	return verr.OrNil()
}

// Value returns price multiplied by quantity
func (t *Transaction) Value() decimal.Decimal {
	return t.Price.Mul(t.Quantity)
}

// TransactionView is a transaction with product and customer labels.
type TransactionView struct {
	Transaction
	ProductCode   string
	ProductTitle  string
	CustomerCode  string
	CustomerTitle string
}

// Order groups a customer's transactions delivered on the same calendar date.
type Order struct {
	Delivered  time.Time
	TotalValue decimal.Decimal
	Items      []TransactionView
}

// GroupOrders folds line items into orders keyed by delivery date. Orders keep
// the order of dates; totals are supplied per DateKey and lines on dates not
// listed are dropped.
func GroupOrders(dates []time.Time, totals map[string]decimal.Decimal, lines []TransactionView) []Order {
	orders := make([]Order, 0, len(dates))
	index := make(map[string]int, len(dates))
	for _, d := range dates {
		key := DateKey(d)
		if _, ok := index[key]; ok {
			continue
		}
		index[key] = len(orders)
		total, ok := totals[key]
		if !ok {
			total = decimal.Zero
		}
		orders = append(orders, Order{Delivered: d, TotalValue: total, Items: []TransactionView{}})
	}
	for _, line := range lines {
		i, ok := index[DateKey(line.Delivered)]
		if !ok {
			continue
		}
		orders[i].Items = append(orders[i].Items, line)
	}
	return orders
}

// DateKey formats the calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
