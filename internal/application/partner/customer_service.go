package partner

import (
	"context"
	"strings"
	"time"

	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/eightysix/analytics/internal/domain/shared"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo     partner.CustomerRepository
	customerUserRepo partner.CustomerUserRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, customerUserRepo partner.CustomerUserRepository) *CustomerService {
	return &CustomerService{
		customerRepo:     customerRepo,
		customerUserRepo: customerUserRepo,
	}
}

// ListForAdmin lists every customer
func (s *CustomerService) ListForAdmin(ctx context.Context, params shared.ListParams) ([]CustomerResponse, int64, error) {
	views, err := s.customerRepo.ListForAdmin(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.CountForAdmin(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return toCustomerResponses(views, false), total, nil
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.SupplierID, req.Code, req.Title, req.Currency)
	if err != nil {
		return nil, err
	}
	customer.Address = strings.TrimSpace(req.Address)
	customer.LastDelivered = req.LastDelivered
	if req.Growth != nil {
		customer.Growth = *req.Growth
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return s.getForAdmin(ctx, customer.ID)
}

// Update applies a partial update. Derived values are left to the projection.
func (s *CustomerService) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*CustomerResponse, error) {
	view, err := s.customerRepo.GetByIDForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	customer := view.Customer

	if req.SupplierID != nil {
		customer.SupplierID = *req.SupplierID
	}
	if req.Code != nil {
		customer.Code = strings.TrimSpace(*req.Code)
	}
	if req.Title != nil {
		customer.Title = strings.TrimSpace(*req.Title)
	}
	if req.Address != nil {
		customer.Address = strings.TrimSpace(*req.Address)
	}
	if req.Currency != nil {
		customer.Currency = strings.TrimSpace(*req.Currency)
	}
	if req.LastDelivered != nil {
		customer.LastDelivered = req.LastDelivered
	}
	if req.Growth != nil {
		customer.Growth = *req.Growth
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	customer.Modified = time.Now()

	if err := s.customerRepo.Update(ctx, &customer); err != nil {
		return nil, err
	}
	return s.getForAdmin(ctx, id)
}

// ListForSupplier lists the customers of the actor's supplier with the subscription flag
func (s *CustomerService) ListForSupplier(ctx context.Context, actorID int64, params shared.ListParams) ([]CustomerResponse, int64, error) {
	views, err := s.customerRepo.ListForSupplier(ctx, actorID, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.CountForSupplier(ctx, actorID, params)
	if err != nil {
		return nil, 0, err
	}
	return toCustomerResponses(views, true), total, nil
}

// GetForSupplier returns a customer the actor manages and follows
func (s *CustomerService) GetForSupplier(ctx context.Context, actorID, id int64) (*CustomerResponse, error) {
	customer, err := s.customerRepo.GetByIDForSupplier(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// ListSubscribed lists the customers the actor follows with their latest note
func (s *CustomerService) ListSubscribed(ctx context.Context, actorID int64, params shared.ListParams) ([]SubscribedCustomerResponse, int64, error) {
	rows, err := s.customerUserRepo.ListForSupplier(ctx, actorID, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerUserRepo.CountForSupplier(ctx, actorID, params)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]SubscribedCustomerResponse, len(rows))
	for i := range rows {
		responses[i] = ToSubscribedCustomerResponse(rows[i])
	}
	return responses, total, nil
}

// Subscribe follows a customer of the actor's supplier. Following twice is a no-op.
func (s *CustomerService) Subscribe(ctx context.Context, actorID, customerID int64) error {
	if _, err := s.customerRepo.GetManagedByID(ctx, actorID, customerID); err != nil {
		return err
	}
	return s.customerUserRepo.Subscribe(ctx, actorID, customerID)
}

// Unsubscribe stops following a customer of the actor's supplier
func (s *CustomerService) Unsubscribe(ctx context.Context, actorID, customerID int64) error {
	if _, err := s.customerRepo.GetManagedByID(ctx, actorID, customerID); err != nil {
		return err
	}
	return s.customerUserRepo.Unsubscribe(ctx, actorID, customerID)
}

func (s *CustomerService) getForAdmin(ctx context.Context, id int64) (*CustomerResponse, error) {
	view, err := s.customerRepo.GetByIDForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerViewResponse(*view, false)
	return &resp, nil
}

func toCustomerResponses(views []partner.CustomerView, withFlag bool) []CustomerResponse {
	responses := make([]CustomerResponse, len(views))
	for i := range views {
		responses[i] = ToCustomerViewResponse(views[i], withFlag)
	}
	return responses
}
