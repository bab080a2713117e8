package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/eightysix/analytics/internal/domain/catalog"
	"github.com/eightysix/analytics/internal/domain/shared"
)

// Projector recomputes the derived values of a customer. Callers wait for it.
type Projector interface {
	RecomputeCustomerAggregates(ctx context.Context, customerID int64) error
}

// CustomerProductService manages the products a customer buys
type CustomerProductService struct {
	repo      catalog.CustomerProductRepository
	projector Projector
	now       func() time.Time
}

// NewCustomerProductService creates a new CustomerProductService
func NewCustomerProductService(repo catalog.CustomerProductRepository, projector Projector) *CustomerProductService {
	return &CustomerProductService{repo: repo, projector: projector, now: time.Now}
}

// ListForAdmin lists every customer product
func (s *CustomerProductService) ListForAdmin(ctx context.Context, params shared.ListParams) ([]CustomerProductResponse, int64, error) {
	views, err := s.repo.ListForAdmin(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForAdmin(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return s.toResponses(views), total, nil
}

// ListForSupplier lists the products of a customer the actor follows
func (s *CustomerProductService) ListForSupplier(ctx context.Context, actorID, customerID int64, params shared.ListParams) ([]CustomerProductResponse, int64, error) {
	views, err := s.repo.ListForSupplierCustomer(ctx, actorID, customerID, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForSupplierCustomer(ctx, actorID, customerID, params)
	if err != nil {
		return nil, 0, err
	}
	return s.toResponses(views), total, nil
}

// Create attaches a product to a customer and refreshes the customer's projection
func (s *CustomerProductService) Create(ctx context.Context, req CreateCustomerProductRequest) (*CustomerProductResponse, error) {
	cp, err := catalog.NewCustomerProduct(req.CustomerID, req.ProductID)
	if err != nil {
		return nil, err
	}
	req.CustomerProductFields.apply(cp)
	if err := cp.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, cp); err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, cp.CustomerID); err != nil {
		return nil, err
	}
	return s.get(ctx, cp.ID)
}

// Update applies a partial update. Moving the row to another customer
// refreshes both customers.
func (s *CustomerProductService) Update(ctx context.Context, id int64, req UpdateCustomerProductRequest) (*CustomerProductResponse, error) {
	view, err := s.repo.GetByIDForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	cp := view.CustomerProduct
	previousCustomer := cp.CustomerID

	if req.CustomerID != nil {
		cp.CustomerID = *req.CustomerID
	}
	if req.ProductID != nil {
		cp.ProductID = *req.ProductID
	}
	req.CustomerProductFields.apply(&cp)
	if err := cp.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &cp); err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, cp.CustomerID); err != nil {
		return nil, err
	}
	if previousCustomer != cp.CustomerID {
		if err := s.recompute(ctx, previousCustomer); err != nil {
			return nil, err
		}
	}
	return s.get(ctx, id)
}

// SetActive toggles a row of a followed customer and refreshes the projection
func (s *CustomerProductService) SetActive(ctx context.Context, actorID, id int64, active bool) error {
	cp, err := s.repo.GetByIDForSupplier(ctx, actorID, id)
	if err != nil {
		return err
	}
	cp.Active = active
	if err := s.repo.Update(ctx, cp); err != nil {
		return err
	}
	return s.recompute(ctx, cp.CustomerID)
}

func (s *CustomerProductService) recompute(ctx context.Context, customerID int64) error {
	if err := s.projector.RecomputeCustomerAggregates(ctx, customerID); err != nil {
		return fmt.Errorf("refresh customer %d: %w", customerID, err)
	}
	return nil
}

func (s *CustomerProductService) get(ctx context.Context, id int64) (*CustomerProductResponse, error) {
	view, err := s.repo.GetByIDForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerProductResponse(*view, s.now())
	return &resp, nil
}

func (s *CustomerProductService) toResponses(views []catalog.CustomerProductView) []CustomerProductResponse {
	now := s.now()
	responses := make([]CustomerProductResponse, len(views))
	for i := range views {
		responses[i] = ToCustomerProductResponse(views[i], now)
	}
	return responses
}
