package persistence

import (
	"testing"
	"time"

	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTransactions(t *testing.T, repo *GormTransactionRepository) {
	t.Helper()
	day1 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	day3 := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)
	lines := []struct {
		customer  int64
		product   int64
		price     int64
		quantity  int64
		delivered time.Time
	}{
		{fxAlpha, fxWidget, 5, 2, day1},
		{fxAlpha, fxGadget, 7, 1, day1.Add(3 * time.Hour)},
		{fxAlpha, fxWidget, 5, 4, day2},
		{fxAlpha, fxWidget, 5, 1, day3},
		{fxGamma, fxWidget, 5, 10, day3},
	}
	for _, l := range lines {
		tx, err := trade.NewTransaction(l.customer, l.product, decimal.NewFromInt(l.price), decimal.NewFromInt(l.quantity), l.delivered)
		require.NoError(t, err)
		require.NoError(t, repo.Create(testCtx, tx))
	}
}

func TestGormTransactionRepository_Lists(t *testing.T) {
	repo := NewGormTransactionRepository(newSeededDB(t))
	seedTransactions(t, repo)

	t.Run("admin sees everything", func(t *testing.T) {
		total, err := repo.CountForAdmin(testCtx, shared.ListParams{})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
	})

	t.Run("supplier list is newest first and scoped", func(t *testing.T) {
		list, err := repo.ListForSupplierCustomer(testCtx, fxStaff1, fxAlpha, shared.ListParams{})
		require.NoError(t, err)
		require.Len(t, list, 4)
		assert.Equal(t, 9, list[0].Delivered.Day())
		assert.Equal(t, "ALPHA", list[0].CustomerCode)

		count, err := repo.CountForSupplierCustomer(testCtx, fxStaff1, fxAlpha, shared.ListParams{})
		require.NoError(t, err)
		assert.Equal(t, int64(len(list)), count)
	})

	t.Run("unsubscribed customer is empty", func(t *testing.T) {
		list, err := repo.ListForSupplierCustomer(testCtx, fxStaff2, fxAlpha, shared.ListParams{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("product search", func(t *testing.T) {
		params := shared.ListParams{Search: map[string]string{"searchProduct": "gadg"}}
		list, err := repo.ListForSupplierCustomer(testCtx, fxStaff1, fxAlpha, params)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, fxGadget, list[0].ProductID)
	})

	t.Run("scoped get", func(t *testing.T) {
		list, err := repo.ListForAdmin(testCtx, shared.ListParams{SortBy: "id"})
		require.NoError(t, err)
		_, err = repo.GetByIDForSupplier(testCtx, fxStaff2, list[0].ID)
		assert.ErrorIs(t, err, shared.ErrTransactionNotFound)

		tx, err := repo.GetByIDForSupplier(testCtx, fxStaff1, list[0].ID)
		require.NoError(t, err)
		tx.Stopped = true
		require.NoError(t, repo.Update(testCtx, tx))

		stopped, err := repo.CountForAdmin(testCtx, shared.ListParams{Flags: map[string]bool{"stopped": true}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), stopped)
	})
}

func TestGormTransactionRepository_Orders(t *testing.T) {
	repo := NewGormTransactionRepository(newSeededDB(t))
	seedTransactions(t, repo)

	t.Run("one order per delivery date, newest first", func(t *testing.T) {
		orders, err := repo.ListOrdersForSupplierCustomer(testCtx, fxStaff1, fxAlpha, shared.ListParams{})
		require.NoError(t, err)
		require.Len(t, orders, 3)

		assert.Equal(t, "2024-03-09", trade.DateKey(orders[0].Delivered))
		assert.Equal(t, "2024-03-05", trade.DateKey(orders[1].Delivered))
		assert.Equal(t, "2024-03-01", trade.DateKey(orders[2].Delivered))

		sameDay := orders[2]
		assert.Len(t, sameDay.Items, 2)
		assert.True(t, decimal.NewFromInt(17).Equal(sameDay.TotalValue))
	})

	t.Run("count matches distinct dates", func(t *testing.T) {
		count, err := repo.CountOrdersForSupplierCustomer(testCtx, fxStaff1, fxAlpha)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("pages over dates, not lines", func(t *testing.T) {
		orders, err := repo.ListOrdersForSupplierCustomer(testCtx, fxStaff1, fxAlpha, shared.ListParams{Offset: 2, Limit: 1})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Len(t, orders[0].Items, 2)
	})

	t.Run("other customers never leak in", func(t *testing.T) {
		orders, err := repo.ListOrdersForSupplierCustomer(testCtx, fxStaff1, fxAlpha, shared.ListParams{Limit: 1})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		require.Len(t, orders[0].Items, 1)
		assert.Equal(t, fxAlpha, orders[0].Items[0].CustomerID)
	})

	t.Run("unsubscribed actor has no orders", func(t *testing.T) {
		orders, err := repo.ListOrdersForSupplierCustomer(testCtx, fxStaff2, fxAlpha, shared.ListParams{})
		require.NoError(t, err)
		assert.Empty(t, orders)

		count, err := repo.CountOrdersForSupplierCustomer(testCtx, fxStaff2, fxAlpha)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
