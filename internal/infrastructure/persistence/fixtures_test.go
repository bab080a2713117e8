package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Fixture ids. Supplier 1 owns customers 10 and 11, supplier 2 owns 20.
// User 100 is staff of supplier 1 and follows customers 10 and 20; user 200
// is staff of supplier 2 and follows nothing.
const (
	fxSupplier1 int64 = 1
	fxSupplier2 int64 = 2
	fxStaff1    int64 = 100
	fxStaff2    int64 = 200
	fxAdmin     int64 = 300
	fxAlpha     int64 = 10
	fxBeta      int64 = 11
	fxGamma     int64 = 20
	fxWidget    int64 = 500
	fxGadget    int64 = 501
)

var fxDay = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	seedFixtures(t, db)
	return db
}

func seedFixtures(t *testing.T, db *gorm.DB) {
	t.Helper()
	ptr := func(s string) *string { return &s }
	outlier := 30

	seed := []any{
		&models.SupplierModel{IDModel: models.IDModel{ID: fxSupplier1}, Code: "S1", Title: "First Supply"},
		&models.SupplierModel{IDModel: models.IDModel{ID: fxSupplier2}, Code: "S2", Title: "Second Supply"},
		&models.UserModel{IDModel: models.IDModel{ID: fxStaff1}, Name: "Ann Staff", Email: "ann@first.test", ExternalUsername: ptr("sub-ann"), Role: "supplier"},
		&models.UserModel{IDModel: models.IDModel{ID: fxStaff2}, Name: "Bob Staff", Email: "bob@second.test", Role: "supplier"},
		&models.UserModel{IDModel: models.IDModel{ID: fxAdmin}, Name: "Root", Email: "root@admin.test", Role: "admin"},
		&models.SupplierUserModel{UserID: fxStaff1, SupplierID: fxSupplier1},
		&models.SupplierUserModel{UserID: fxStaff2, SupplierID: fxSupplier2},
		&models.CustomerModel{IDModel: models.IDModel{ID: fxAlpha}, SupplierID: fxSupplier1, Code: "ALPHA", Title: "Alpha Foods", Currency: "EUR", Modified: fxDay},
		&models.CustomerModel{IDModel: models.IDModel{ID: fxBeta}, SupplierID: fxSupplier1, Code: "BETA", Title: "Beta Bakery", Currency: "EUR", Modified: fxDay},
		&models.CustomerModel{IDModel: models.IDModel{ID: fxGamma}, SupplierID: fxSupplier2, Code: "GAMMA", Title: "Gamma Grocers", Currency: "USD", Modified: fxDay},
		&models.CustomerUserModel{UserID: fxStaff1, CustomerID: fxAlpha},
		&models.CustomerUserModel{UserID: fxStaff1, CustomerID: fxGamma},
		&models.ProductModel{IDModel: models.IDModel{ID: fxWidget}, SupplierID: fxSupplier1, Code: "W-1", Title: "Widget", ListPrice: decimal.NewFromInt(5)},
		&models.ProductModel{IDModel: models.IDModel{ID: fxGadget}, SupplierID: fxSupplier1, Code: "G-1", Title: "Gadget", ListPrice: decimal.NewFromInt(7)},
		&models.CustomerProductModel{CustomerID: fxAlpha, ProductID: fxWidget, MonthValue: decimal.NewFromInt(10), Outlier: &outlier, Active: true, Modified: fxDay},
		&models.CustomerProductModel{CustomerID: fxAlpha, ProductID: fxGadget, MonthValue: decimal.NewFromInt(20), Active: true, Modified: fxDay},
	}
	for _, row := range seed {
		require.NoError(t, db.Create(row).Error)
	}
}

// newMockDB opens a postgres-dialect gorm.DB over sqlmock.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gormDB, mock
}

var testCtx = context.Background()
