package handler

import (
	"context"

	"github.com/eightysix/analytics/internal/domain/contact"
	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type mockCustomerRepo struct {
	mock.Mock
}

func (m *mockCustomerRepo) ListForAdmin(ctx context.Context, params shared.ListParams) ([]partner.CustomerView, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]partner.CustomerView), args.Error(1)
}

func (m *mockCustomerRepo) CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCustomerRepo) ListForSupplier(ctx context.Context, actorID int64, params shared.ListParams) ([]partner.CustomerView, error) {
	args := m.Called(ctx, actorID, params)
	return args.Get(0).([]partner.CustomerView), args.Error(1)
}

func (m *mockCustomerRepo) CountForSupplier(ctx context.Context, actorID int64, params shared.ListParams) (int64, error) {
	args := m.Called(ctx, actorID, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCustomerRepo) GetByIDForSupplier(ctx context.Context, actorID, id int64) (*partner.Customer, error) {
	args := m.Called(ctx, actorID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *mockCustomerRepo) GetManagedByID(ctx context.Context, actorID, id int64) (*partner.CustomerView, error) {
	args := m.Called(ctx, actorID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CustomerView), args.Error(1)
}

func (m *mockCustomerRepo) GetByIDForAdmin(ctx context.Context, id int64) (*partner.CustomerView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CustomerView), args.Error(1)
}

func (m *mockCustomerRepo) Create(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *mockCustomerRepo) Update(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

type mockCustomerUserRepo struct {
	mock.Mock
}

func (m *mockCustomerUserRepo) ListForSupplier(ctx context.Context, actorID int64, params shared.ListParams) ([]partner.SubscribedCustomer, error) {
	args := m.Called(ctx, actorID, params)
	return args.Get(0).([]partner.SubscribedCustomer), args.Error(1)
}

func (m *mockCustomerUserRepo) CountForSupplier(ctx context.Context, actorID int64, params shared.ListParams) (int64, error) {
	args := m.Called(ctx, actorID, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCustomerUserRepo) Subscribe(ctx context.Context, actorID, customerID int64) error {
	return m.Called(ctx, actorID, customerID).Error(0)
}

func (m *mockCustomerUserRepo) Unsubscribe(ctx context.Context, actorID, customerID int64) error {
	return m.Called(ctx, actorID, customerID).Error(0)
}

type mockApplicationRepo struct {
	mock.Mock
}

func (m *mockApplicationRepo) Create(ctx context.Context, app *contact.Application) error {
	args := m.Called(ctx, app)
	if args.Error(0) == nil {
		app.ID = 1
	}
	return args.Error(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, to string, template contact.Template, data map[string]any) error {
	return m.Called(ctx, to, template, data).Error(0)
}
