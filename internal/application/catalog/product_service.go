package catalog

import (
	"context"
	"strings"

	"github.com/eightysix/analytics/internal/domain/catalog"
	"github.com/eightysix/analytics/internal/domain/shared"
)

// ProductService handles product administration
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// List lists products with their supplier
func (s *ProductService) List(ctx context.Context, params shared.ListParams) ([]ProductResponse, int64, error) {
	views, err := s.productRepo.ListForAdmin(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForAdmin(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ProductResponse, len(views))
	for i := range views {
		responses[i] = ToProductResponse(views[i])
	}
	return responses, total, nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.SupplierID, req.Code, req.Title, req.ListPrice)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.get(ctx, product.ID)
}

// Update applies a partial product update
func (s *ProductService) Update(ctx context.Context, id int64, req UpdateProductRequest) (*ProductResponse, error) {
	view, err := s.productRepo.GetByIDForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	product := view.Product

	if req.SupplierID != nil {
		product.SupplierID = *req.SupplierID
	}
	if req.Code != nil {
		product.Code = strings.TrimSpace(*req.Code)
	}
	if req.Title != nil {
		product.Title = strings.TrimSpace(*req.Title)
	}
	if req.ListPrice != nil {
		product.ListPrice = *req.ListPrice
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, &product); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

func (s *ProductService) get(ctx context.Context, id int64) (*ProductResponse, error) {
	view, err := s.productRepo.GetByIDForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(*view)
	return &resp, nil
}
