package partner

import (
	"context"

	"github.com/eightysix/analytics/internal/domain/identity"
	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockCustomerRepository is a mock implementation of CustomerRepository
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
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockCustomerUserRepository is a mock implementation of CustomerUserRepository
type MockCustomerUserRepository struct {
	mock.Mock
}

func (m *MockCustomerUserRepository) ListForSupplier(ctx context.Context, actorID int64, params shared.ListParams) ([]partner.SubscribedCustomer, error) {
	args := m.Called(ctx, actorID, params)
	return args.Get(0).([]partner.SubscribedCustomer), args.Error(1)
}

func (m *MockCustomerUserRepository) CountForSupplier(ctx context.Context, actorID int64, params shared.ListParams) (int64, error) {
	args := m.Called(ctx, actorID, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerUserRepository) Subscribe(ctx context.Context, actorID, customerID int64) error {
	return m.Called(ctx, actorID, customerID).Error(0)
}

func (m *MockCustomerUserRepository) Unsubscribe(ctx context.Context, actorID, customerID int64) error {
	return m.Called(ctx, actorID, customerID).Error(0)
}

// MockSupplierRepository is a mock implementation of SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) ListForAdmin(ctx context.Context, params shared.ListParams) ([]partner.Supplier, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierRepository) GetByID(ctx context.Context, id int64) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) GetByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Create(ctx context.Context, supplier *partner.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

func (m *MockSupplierRepository) Update(ctx context.Context, supplier *partner.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

// MockSupplierUserRepository is a mock implementation of SupplierUserRepository
type MockSupplierUserRepository struct {
	mock.Mock
}

func (m *MockSupplierUserRepository) ListForAdmin(ctx context.Context, params shared.ListParams) ([]partner.SupplierUserView, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]partner.SupplierUserView), args.Error(1)
}

func (m *MockSupplierUserRepository) CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierUserRepository) GetByID(ctx context.Context, id int64) (*partner.SupplierUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.SupplierUser), args.Error(1)
}

func (m *MockSupplierUserRepository) GetByIDForAdmin(ctx context.Context, id int64) (*partner.SupplierUserView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.SupplierUserView), args.Error(1)
}

func (m *MockSupplierUserRepository) CreateWithUser(ctx context.Context, user *identity.User, supplierID int64) (*partner.SupplierUser, error) {
	args := m.Called(ctx, user, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.SupplierUser), args.Error(1)
}

func (m *MockSupplierUserRepository) Link(ctx context.Context, userID, supplierID int64) (*partner.SupplierUser, error) {
	args := m.Called(ctx, userID, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.SupplierUser), args.Error(1)
}

func (m *MockSupplierUserRepository) Unlink(ctx context.Context, userID, supplierID int64) (int64, int64, error) {
	args := m.Called(ctx, userID, supplierID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockNoteRepository is a mock implementation of NoteRepository
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) ListForCustomer(ctx context.Context, authorID, customerID int64, params shared.ListParams) ([]partner.NoteView, error) {
	args := m.Called(ctx, authorID, customerID, params)
	return args.Get(0).([]partner.NoteView), args.Error(1)
}

func (m *MockNoteRepository) CountForCustomer(ctx context.Context, authorID, customerID int64, params shared.ListParams) (int64, error) {
	args := m.Called(ctx, authorID, customerID, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNoteRepository) GetViewByID(ctx context.Context, id int64) (*partner.NoteView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.NoteView), args.Error(1)
}

func (m *MockNoteRepository) GetByIDForAuthor(ctx context.Context, authorID, id int64) (*partner.Note, error) {
	args := m.Called(ctx, authorID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Note), args.Error(1)
}

func (m *MockNoteRepository) Create(ctx context.Context, note *partner.Note) error {
	return m.Called(ctx, note).Error(0)
}

func (m *MockNoteRepository) Update(ctx context.Context, note *partner.Note) error {
	return m.Called(ctx, note).Error(0)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) DeleteWithLinks(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockProvider is a mock identity provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Register(ctx context.Context, email, password, phone, name string) (string, error) {
	args := m.Called(ctx, email, password, phone, name)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) VerifyRegistration(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

func (m *MockProvider) Authenticate(ctx context.Context, email, password string) (identity.Tokens, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(identity.Tokens), args.Error(1)
}

func (m *MockProvider) InitiatePasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockProvider) ConfirmPasswordReset(ctx context.Context, email, newPassword, code string) error {
	return m.Called(ctx, email, newPassword, code).Error(0)
}

func (m *MockProvider) DeleteIdentity(ctx context.Context, email, subject string) error {
	return m.Called(ctx, email, subject).Error(0)
}

func (m *MockProvider) SignOut(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
