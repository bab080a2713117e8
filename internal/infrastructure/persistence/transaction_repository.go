package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/domain/trade"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/datascope"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/models"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/query"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const transactionViewColumns = "transactions.*, " +
	"products.code AS product_code, products.title AS product_title, " +
	"customers.code AS customer_code, customers.title AS customer_title"

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

func (r *GormTransactionRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Joins("JOIN products ON products.id = transactions.product_id").
		Joins("JOIN customers ON customers.id = transactions.customer_id")
}

func (r *GormTransactionRepository) list(db *gorm.DB) ([]trade.TransactionView, error) {
	var rows []models.TransactionViewRow
	if err := db.Select(transactionViewColumns).Scan(&rows).Error; err != nil {
		return nil, err
	}
	views := make([]trade.TransactionView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToDomain()
	}
	return views, nil
}

// ListForAdmin lists transactions with product and customer labels
func (r *GormTransactionRepository) ListForAdmin(ctx context.Context, params shared.ListParams) ([]trade.TransactionView, error) {
	return r.list(r.joined(ctx).Scopes(query.New(TransactionAdminSpec, params).Apply()))
}

// CountForAdmin counts transactions matching the same filters as ListForAdmin
func (r *GormTransactionRepository) CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error) {
	var total int64
	err := r.joined(ctx).
		Scopes(query.New(TransactionAdminSpec, params).Where()).
		Count(&total).Error
	return total, err
}

// ListForSupplierCustomer lists transactions of a customer the actor is subscribed to
func (r *GormTransactionRepository) ListForSupplierCustomer(ctx context.Context, actorID, customerID int64, params shared.ListParams) ([]trade.TransactionView, error) {
	if params.SortBy == "" {
		params.Descending = true
	}
	return r.list(r.joined(ctx).
		Where("transactions.customer_id = ?", customerID).
		Scopes(
			datascope.Subscribed(actorID, "transactions.customer_id"),
			query.New(TransactionSupplierSpec, params).Apply(),
		))
}

// CountForSupplierCustomer counts rows matching the same filters as ListForSupplierCustomer
func (r *GormTransactionRepository) CountForSupplierCustomer(ctx context.Context, actorID, customerID int64, params shared.ListParams) (int64, error) {
	var total int64
	err := r.joined(ctx).
		Where("transactions.customer_id = ?", customerID).
		Scopes(
			datascope.Subscribed(actorID, "transactions.customer_id"),
			query.New(TransactionSupplierSpec, params).Where(),
		).
		Count(&total).Error
	return total, err
}

// GetByIDForSupplier finds a transaction whose customer the actor is subscribed to
func (r *GormTransactionRepository) GetByIDForSupplier(ctx context.Context, actorID, id int64) (*trade.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.Subscribed(actorID, "transactions.customer_id")).
		Where("transactions.id = ?", id).
		Take(&model).Error; err != nil {
		return nil, translateError(err, shared.ErrTransactionNotFound)
	}
	return model.ToDomain(), nil
}

// GetByIDForAdmin finds any transaction by ID
func (r *GormTransactionRepository) GetByIDForAdmin(ctx context.Context, id int64) (*trade.TransactionView, error) {
	var row models.TransactionViewRow
	if err := r.joined(ctx).
		Select(transactionViewColumns).
		Where("transactions.id = ?", id).
		Take(&row).Error; err != nil {
		return nil, translateError(err, shared.ErrTransactionNotFound)
	}
	view := row.ToDomain()
	return &view, nil
}

// orderDays selects one page of delivery dates with the day's total value.
func (r *GormTransactionRepository) orderDays(ctx context.Context, actorID, customerID int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select("DATE(transactions.delivered) AS day, SUM(transactions.price * transactions.quantity) AS total_value").
		Where("transactions.customer_id = ?", customerID).
		Scopes(datascope.Subscribed(actorID, "transactions.customer_id")).
		Group("DATE(transactions.delivered)")
}

// ListOrdersForSupplierCustomer pages over delivery dates, newest first, and
// returns every line item delivered on each selected date
func (r *GormTransactionRepository) ListOrdersForSupplierCustomer(ctx context.Context, actorID, customerID int64, params shared.ListParams) ([]trade.Order, error) {
	page := query.New(OrderSpec, params)
	days := r.orderDays(ctx, actorID, customerID).
		Order("day DESC").
		Offset(page.Offset()).
		Limit(page.Limit())

	var rows []models.OrderLineRow
	if err := r.joined(ctx).
		Select(transactionViewColumns+", days.day, days.total_value").
		Joins("JOIN (?) AS days ON DATE(transactions.delivered) = days.day", days).
		Where("transactions.customer_id = ?", customerID).
		Order("days.day DESC, transactions.id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	var dates []time.Time
	totals := make(map[string]decimal.Decimal)
	lines := make([]trade.TransactionView, 0, len(rows))
	for i := range rows {
		day, err := parseDay(rows[i].Day)
		if err != nil {
			return nil, err
		}
		key := trade.DateKey(day)
		if _, ok := totals[key]; !ok {
			dates = append(dates, day)
			totals[key] = rows[i].TotalValue
		}
		line := rows[i].ToDomain()
		// DATE() runs in the session time zone, which the DSN pins to UTC.
		line.Delivered = line.Delivered.UTC()
		lines = append(lines, line)
	}
	return trade.GroupOrders(dates, totals, lines), nil
}

// CountOrdersForSupplierCustomer counts distinct delivery dates in scope
func (r *GormTransactionRepository) CountOrdersForSupplierCustomer(ctx context.Context, actorID, customerID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Table("(?) AS days", r.orderDays(ctx, actorID, customerID)).
		Count(&total).Error
	return total, err
}

// Create inserts a new transaction and sets its ID
func (r *GormTransactionRepository) Create(ctx context.Context, tx *trade.Transaction) error {
	tx.Modified = time.Now()
	model := models.TransactionModelFromDomain(tx)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err, shared.ErrTransactionNotFound)
	}
	tx.ID = model.ID
	return nil
}

// Update writes every column of the transaction, including zero values
func (r *GormTransactionRepository) Update(ctx context.Context, tx *trade.Transaction) error {
	tx.Modified = time.Now()
	model := models.TransactionModelFromDomain(tx)
	result := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("id = ?", tx.ID).
		Select("customer_id", "product_id", "cost", "price", "quantity", "delivered", "stopped", "modified").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error, shared.ErrTransactionNotFound)
	}
	if result.RowsAffected == 0 {
		return shared.ErrTransactionNotFound
	}
	return nil
}

// parseDay reads the DATE() column, which drivers return either as a bare
// date or as a full timestamp.
func parseDay(raw string) (time.Time, error) {
	if len(raw) < len(time.DateOnly) {
		return time.Time{}, fmt.Errorf("unexpected order day %q", raw)
	}
	return time.Parse(time.DateOnly, raw[:len(time.DateOnly)])
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ trade.TransactionRepository = (*GormTransactionRepository)(nil)
