package partner

import (
	"context"
	"fmt"
	"strings"

	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/eightysix/analytics/internal/domain/identity"
	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/eightysix/analytics/internal/domain/shared"
	"go.uber.org/zap"
)

// SupplierService handles supplier administration
type SupplierService struct {
	supplierRepo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// List lists suppliers
func (s *SupplierService) List(ctx context.Context, params shared.ListParams) ([]SupplierResponse, int64, error) {
	suppliers, err := s.supplierRepo.ListForAdmin(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.CountForAdmin(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses, total, nil
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(req.Title, req.Code)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Update applies a partial supplier update
func (s *SupplierService) Update(ctx context.Context, id int64, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Code != nil {
		supplier.Code = strings.TrimSpace(*req.Code)
	}
	if req.Title != nil {
		supplier.Title = strings.TrimSpace(*req.Title)
	}
	if err := supplier.Validate(); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// SupplierUserService manages supplier staff accounts
type SupplierUserService struct {
	supplierRepo     partner.SupplierRepository
	supplierUserRepo partner.SupplierUserRepository
	userRepo         identity.UserRepository
	provider         identity.Provider
	logger           *zap.Logger
}

// NewSupplierUserService creates a new SupplierUserService
func NewSupplierUserService(
	supplierRepo partner.SupplierRepository,
	supplierUserRepo partner.SupplierUserRepository,
	userRepo identity.UserRepository,
	provider identity.Provider,
	logger *zap.Logger,
) *SupplierUserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierUserService{
		supplierRepo:     supplierRepo,
		supplierUserRepo: supplierUserRepo,
		userRepo:         userRepo,
		provider:         provider,
		logger:           logger,
	}
}

// List lists staff links with user and supplier data
func (s *SupplierUserService) List(ctx context.Context, params shared.ListParams) ([]SupplierUserResponse, int64, error) {
	views, err := s.supplierUserRepo.ListForAdmin(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierUserRepo.CountForAdmin(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]SupplierUserResponse, len(views))
	for i := range views {
		responses[i] = ToSupplierUserResponse(views[i])
	}
	return responses, total, nil
}

// Create creates a user and links it to a supplier in one step
func (s *SupplierUserService) Create(ctx context.Context, req CreateSupplierUserRequest) (*SupplierUserResponse, error) {
	if req.SupplierID <= 0 {
		return nil, shared.ErrNoSupplierID
	}
	user, err := identity.NewUser(req.Name, req.Email, req.Phone, access.RoleSupplier)
	if err != nil {
		return nil, err
	}
	link, err := s.supplierUserRepo.CreateWithUser(ctx, user, req.SupplierID)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, link.ID)
}

// Update edits the contact data of the user behind a staff link
func (s *SupplierUserService) Update(ctx context.Context, id int64, req UpdateSupplierUserRequest) (*SupplierUserResponse, error) {
	link, err := s.supplierUserRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, link.UserID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

// SetUserSupplier links an existing user, found by email, to a supplier found by code
func (s *SupplierUserService) SetUserSupplier(ctx context.Context, req UserSupplierRequest) (*SupplierUserResponse, error) {
	user, supplier, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	link, err := s.supplierUserRepo.Link(ctx, user.ID, supplier.ID)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, link.ID)
}

// DropUserSupplier unlinks a user from a supplier together with the user's
// subscriptions to that supplier's customers
func (s *SupplierUserService) DropUserSupplier(ctx context.Context, req UserSupplierRequest) (*DropUserSupplierResponse, error) {
	user, supplier, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	customers, suppliers, err := s.supplierUserRepo.Unlink(ctx, user.ID, supplier.ID)
	if err != nil {
		return nil, err
	}
	return &DropUserSupplierResponse{Customers: customers, Suppliers: suppliers}, nil
}

// Delete removes a user with all its links and then its external identity
func (s *SupplierUserService) Delete(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.DeleteWithLinks(ctx, user.ID); err != nil {
		return err
	}
	if err := s.provider.DeleteIdentity(ctx, user.Email, user.ExternalUsername); err != nil {
		s.logger.Error("user removed but identity deletion failed",
			zap.Int64("user_id", user.ID),
			zap.String("email", user.Email),
			zap.Error(err),
		)
		return fmt.Errorf("delete identity of user %d: %w", user.ID, err)
	}
	return nil
}

func (s *SupplierUserService) resolve(ctx context.Context, req UserSupplierRequest) (*identity.User, *partner.Supplier, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, err
	}
	supplier, err := s.supplierRepo.GetByCode(ctx, req.Supplier)
	if err != nil {
		return nil, nil, err
	}
	return user, supplier, nil
}

func (s *SupplierUserService) get(ctx context.Context, id int64) (*SupplierUserResponse, error) {
	view, err := s.supplierUserRepo.GetByIDForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierUserResponse(*view)
	return &resp, nil
}
