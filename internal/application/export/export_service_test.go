package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/eightysix/analytics/internal/domain/export"
	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) ListForAdmin(ctx context.Context, params shared.ListParams) ([]partner.CustomerView, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]partner.CustomerView), args.Error(1)
}

func (m *MockCustomerRepository) CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ListForSupplier(ctx context.Context, actorID int64, params shared.ListParams) ([]partner.CustomerView, error) {
	args := m.Called(ctx, actorID, params)
	return args.Get(0).([]partner.CustomerView), args.Error(1)
}

func (m *MockCustomerRepository) CountForSupplier(ctx context.Context, actorID int64, params shared.ListParams) (int64, error) {
	args := m.Called(ctx, actorID, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) GetByIDForSupplier(ctx context.Context, actorID, id int64) (*partner.Customer, error) {
	args := m.Called(ctx, actorID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetManagedByID(ctx context.Context, actorID, id int64) (*partner.CustomerView, error) {
	args := m.Called(ctx, actorID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CustomerView), args.Error(1)
}

func (m *MockCustomerRepository) GetByIDForAdmin(ctx context.Context, id int64) (*partner.CustomerView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CustomerView), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

type MockDownloadKeyRepository struct {
	mock.Mock
}

func (m *MockDownloadKeyRepository) Create(ctx context.Context, key *export.DownloadKey) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockDownloadKeyRepository) GetByKey(ctx context.Context, key string) (*export.DownloadKey, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.DownloadKey), args.Error(1)
}

func (m *MockDownloadKeyRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// memoryStorage keeps uploads in a map
type memoryStorage struct {
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (s *memoryStorage) Put(_ context.Context, key string, data []byte, _ string) error {
	s.objects[key] = data
	return nil
}

func (s *memoryStorage) PresignGet(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if _, ok := s.objects[key]; !ok {
		return "", time.Time{}, errors.New("no such key")
	}
	return "https://bucket.test/" + key, time.Now().Add(expiresIn), nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

var supplierActor = access.Actor{UserID: 100, Email: "sam@example.com", Role: access.RoleSupplier}

func TestExportService_ExportCustomers(t *testing.T) {
	ctx := context.Background()
	customers, keys, store := new(MockCustomerRepository), new(MockDownloadKeyRepository), newMemoryStorage()
	svc := NewExportService(customers, keys, store, 15*time.Minute, nil)

	customers.On("ListForSupplier", ctx, int64(100), shared.ListParams{Limit: ExportPageSize, Search: map[string]string{"title": "alp"}}).Return([]partner.CustomerView{
		{Customer: partner.Customer{Code: "C1", Title: "Alpha", MonthValue: decimal.NewFromInt(30)}, Subscribed: true},
	}, nil)
	var stored *export.DownloadKey
	keys.On("Create", ctx, mock.AnythingOfType("*export.DownloadKey")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*export.DownloadKey)
	}).Return(nil)

	resp, err := svc.ExportCustomers(ctx, supplierActor, shared.ListParams{Offset: 20, Limit: 10, Search: map[string]string{"title": "alp"}})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, stored.Key, resp.Key)
	assert.Equal(t, int64(100), stored.UserID)
	assert.True(t, stored.IsDeletable)
	assert.Contains(t, resp.URL, "exports/100/")

	wb, err := excelize.OpenReader(bytes.NewReader(store.objects[stored.File]))
	require.NoError(t, err)
	rows, err := wb.GetRows(customerSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Code", rows[0][0])
	assert.Equal(t, "Alpha", rows[1][1])
	assert.Equal(t, "30", rows[1][5])
}

func TestExportService_ExportCustomers_AllPages(t *testing.T) {
	ctx := context.Background()
	customers, keys, store := new(MockCustomerRepository), new(MockDownloadKeyRepository), newMemoryStorage()
	svc := NewExportService(customers, keys, store, 15*time.Minute, nil)

	full := make([]partner.CustomerView, ExportPageSize)
	for i := range full {
		full[i] = partner.CustomerView{Customer: partner.Customer{ID: int64(i + 1), Code: fmt.Sprintf("C%d", i+1)}}
	}
	tail := []partner.CustomerView{
		{Customer: partner.Customer{ID: 1001, Code: "C1001"}},
		{Customer: partner.Customer{ID: 1002, Code: "C1002"}},
	}
	customers.On("ListForSupplier", ctx, int64(100), shared.ListParams{Limit: ExportPageSize}).Return(full, nil).Once()
	customers.On("ListForSupplier", ctx, int64(100), shared.ListParams{Offset: ExportPageSize, Limit: ExportPageSize}).Return(tail, nil).Once()
	var stored *export.DownloadKey
	keys.On("Create", ctx, mock.AnythingOfType("*export.DownloadKey")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*export.DownloadKey)
	}).Return(nil)

	_, err := svc.ExportCustomers(ctx, supplierActor, shared.ListParams{Limit: 10})
	require.NoError(t, err)
	customers.AssertExpectations(t)

	wb, err := excelize.OpenReader(bytes.NewReader(store.objects[stored.File]))
	require.NoError(t, err)
	rows, err := wb.GetRows(customerSheet)
	require.NoError(t, err)
	require.Len(t, rows, ExportPageSize+3)
	assert.Equal(t, "C1002", rows[len(rows)-1][0])
}

func TestExportService_Download(t *testing.T) {
	ctx := context.Background()
	key := &export.DownloadKey{ID: 1, UserID: 100, File: "exports/100/a.xlsx", Key: "k-1", IsDeletable: true}

	t.Run("owner gets a fresh url", func(t *testing.T) {
		keys, store := new(MockDownloadKeyRepository), newMemoryStorage()
		store.objects[key.File] = []byte("x")
		svc := NewExportService(nil, keys, store, time.Minute, nil)
		keys.On("GetByKey", ctx, "k-1").Return(key, nil)

		resp, err := svc.Download(ctx, supplierActor, "k-1")
		require.NoError(t, err)
		assert.Equal(t, "https://bucket.test/exports/100/a.xlsx", resp.URL)
	})

	t.Run("other users see not found", func(t *testing.T) {
		keys := new(MockDownloadKeyRepository)
		svc := NewExportService(nil, keys, newMemoryStorage(), time.Minute, nil)
		keys.On("GetByKey", ctx, "k-1").Return(key, nil)

		_, err := svc.Download(ctx, access.Actor{UserID: 200, Role: access.RoleSupplier}, "k-1")
		assert.ErrorIs(t, err, shared.ErrDownloadNotFound)
	})
}

func TestExportService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes object and key", func(t *testing.T) {
		keys, store := new(MockDownloadKeyRepository), newMemoryStorage()
		store.objects["exports/100/a.xlsx"] = []byte("x")
		svc := NewExportService(nil, keys, store, time.Minute, nil)
		keys.On("GetByKey", ctx, "k-1").Return(&export.DownloadKey{ID: 1, UserID: 100, File: "exports/100/a.xlsx", Key: "k-1", IsDeletable: true}, nil)
		keys.On("Delete", ctx, int64(1)).Return(nil)

		require.NoError(t, svc.Delete(ctx, supplierActor, "k-1"))
		assert.Empty(t, store.objects)
	})

	t.Run("pinned export is forbidden", func(t *testing.T) {
		keys := new(MockDownloadKeyRepository)
		svc := NewExportService(nil, keys, newMemoryStorage(), time.Minute, nil)
		keys.On("GetByKey", ctx, "k-2").Return(&export.DownloadKey{ID: 2, UserID: 100, File: "f", Key: "k-2"}, nil)

		assert.ErrorIs(t, svc.Delete(ctx, supplierActor, "k-2"), shared.ErrForbidden)
	})
}
