package persistence

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/eightysix/analytics/internal/domain/catalog"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/domain/trade"
	"github.com/eightysix/analytics/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a disposable postgres, applies the embedded migrations
// and loads the shared fixtures.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration tests skipped in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("eightysix_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable", "TimeZone=UTC")
	require.NoError(t, err)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, nil)
	require.NoError(t, err)
	require.NoError(t, m.Up())

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), cfg)
	require.NoError(t, err)
	pool, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	seedFixtures(t, db)
	return db
}

func TestPostgres(t *testing.T) {
	db := newPostgresDB(t)

	t.Run("trigram title search tolerates typos", func(t *testing.T) {
		repo := NewGormCustomerRepository(db)
		views, err := repo.ListForSupplier(testCtx, fxStaff1, shared.ListParams{
			Search: map[string]string{"searchTitle": "Alpha Fods"},
		})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "ALPHA", views[0].Code)
	})

	t.Run("orders group by delivery date", func(t *testing.T) {
		repo := NewGormTransactionRepository(db)
		seedTransactions(t, repo)

		orders, err := repo.ListOrdersForSupplierCustomer(testCtx, fxStaff1, fxAlpha, shared.ListParams{})
		require.NoError(t, err)
		require.Len(t, orders, 3)
		assert.Equal(t, "2024-03-09", trade.DateKey(orders[0].Delivered))
		assert.True(t, decimal.NewFromInt(17).Equal(orders[2].TotalValue))

		count, err := repo.CountOrdersForSupplierCustomer(testCtx, fxStaff1, fxAlpha)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("projection stores totals under a row lock", func(t *testing.T) {
		repo := NewGormProjectionRepository(db)
		modified := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

		agg, err := repo.ApplyCustomerAggregates(testCtx, fxAlpha, modified, func(active []catalog.CustomerProduct) catalog.Aggregates {
			assert.Len(t, active, 2)
			return catalog.Aggregates{MonthValue: decimal.NewFromInt(30), ThreatenedValue: decimal.NewFromInt(10)}
		})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(30).Equal(agg.MonthValue))

		customer, err := NewGormCustomerRepository(db).GetByIDForAdmin(testCtx, fxAlpha)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(30).Equal(customer.MonthValue))
		assert.True(t, decimal.NewFromInt(10).Equal(customer.ThreatenedValue))
	})

	t.Run("projection on a missing customer", func(t *testing.T) {
		_, err := NewGormProjectionRepository(db).ApplyCustomerAggregates(testCtx, 9999, time.Now(), func([]catalog.CustomerProduct) catalog.Aggregates {
			return catalog.Aggregates{}
		})
		assert.ErrorIs(t, err, shared.ErrCustomerNotFound)
	})
}
