package catalog

import (
	"context"
	"testing"

	"github.com/eightysix/analytics/internal/domain/catalog"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListForAdmin(ctx context.Context, params shared.ListParams) ([]catalog.ProductView, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]catalog.ProductView), args.Error(1)
}

func (m *MockProductRepository) CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) GetByIDForAdmin(ctx context.Context, id int64) (*catalog.ProductView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductView), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func widgetView() *catalog.ProductView {
	return &catalog.ProductView{
		Product:       catalog.Product{ID: 500, SupplierID: 1, Code: "W-1", Title: "Widget", ListPrice: decimal.NewFromInt(12)},
		SupplierCode:  "S1",
		SupplierTitle: "First Supply",
	}
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update keeps other fields", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)
		repo.On("GetByIDForAdmin", ctx, int64(500)).Return(widgetView(), nil)
		repo.On("Update", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.Code == "W-1" && p.Title == "Widget" && p.ListPrice.Equal(decimal.NewFromInt(15))
		})).Return(nil)

		price := decimal.NewFromInt(15)
		_, err := svc.Update(ctx, 500, UpdateProductRequest{ListPrice: &price})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)
		repo.On("GetByIDForAdmin", ctx, int64(500)).Return(widgetView(), nil)

		price := decimal.NewFromInt(-1)
		_, err := svc.Update(ctx, 500, UpdateProductRequest{ListPrice: &price})
		var verr *shared.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("missing product", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)
		repo.On("GetByIDForAdmin", ctx, int64(1)).Return(nil, shared.ErrProductNotFound)

		_, err := svc.Update(ctx, 1, UpdateProductRequest{})
		assert.ErrorIs(t, err, shared.ErrProductNotFound)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := NewProductService(repo)

	repo.On("ListForAdmin", ctx, shared.ListParams{}).Return([]catalog.ProductView{*widgetView()}, nil)
	repo.On("CountForAdmin", ctx, shared.ListParams{}).Return(int64(1), nil)

	list, total, err := svc.List(ctx, shared.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "S1", list[0].SupplierCode)
}
