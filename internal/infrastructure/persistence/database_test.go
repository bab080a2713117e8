package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	// gorm pings once while opening
	mock.ExpectPing()
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	d, err := wrap(gormDB)
	require.NoError(t, err)
	return d, mock
}

func TestDatabase_PingAndClose(t *testing.T) {
	d, mock := newMockDatabase(t)

	mock.ExpectPing()
	require.NoError(t, d.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(assert.AnError)
	err := d.Ping(context.Background())
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "ping database")

	mock.ExpectClose()
	require.NoError(t, d.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_SQLIsThePool(t *testing.T) {
	d, mock := newMockDatabase(t)
	mock.ExpectClose()
	defer func() { _ = d.Close() }()

	pool, err := d.DB.DB()
	require.NoError(t, err)
	assert.Same(t, pool, d.SQL())
}

func TestDatabase_Transaction(t *testing.T) {
	t.Run("link removal commits", func(t *testing.T) {
		d, mock := newMockDatabase(t)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM customer_users WHERE user_id = \$1`).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM supplier_users WHERE user_id = \$1`).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := d.Transaction(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Exec("DELETE FROM customer_users WHERE user_id = ?", int64(7)).Error; err != nil {
				return err
			}
			return tx.Exec("DELETE FROM supplier_users WHERE user_id = ?", int64(7)).Error
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure rolls back", func(t *testing.T) {
		d, mock := newMockDatabase(t)

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := d.Transaction(context.Background(), func(*gorm.DB) error {
			return assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
