package handler

import (
	"net/http"
	"testing"

	partnerapp "github.com/eightysix/analytics/internal/application/partner"
	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var adminActor = access.Actor{UserID: 1, Email: "ops@eightysix.test", Role: access.RoleAdmin}

func newAdminEngine(customers *mockCustomerRepo) *gin.Engine {
	base := NewBaseHandler(zap.NewNop())
	h := NewAdminHandler(base, AdminServices{
		Customers: partnerapp.NewCustomerService(customers, new(mockCustomerUserRepo)),
	})
	return newEngine(adminActor, func(r *gin.Engine) {
		r.GET("/admin/customers", h.ListCustomers)
		r.POST("/admin/customer", h.CreateCustomer)
		r.POST("/admin/customer/:customerId", h.UpdateCustomer)
	})
}

func storedCustomer() *partner.CustomerView {
	return &partner.CustomerView{
		Customer: partner.Customer{
			ID: 5, SupplierID: 2, Code: "C-5", Title: "Old title", Address: "1 Main St", Currency: "USD",
		},
		SupplierCode: "S-2",
	}
}

func TestAdminUpdateCustomerKeepsOmittedFields(t *testing.T) {
	customers := new(mockCustomerRepo)
	customers.On("GetByIDForAdmin", mock.Anything, int64(5)).Return(storedCustomer(), nil).Once()
	customers.On("Update", mock.Anything, mock.MatchedBy(func(c *partner.Customer) bool {
		return c.ID == 5 && c.Title == "New title" && c.Address == "1 Main St" && c.Currency == "USD"
	})).Return(nil)
	updated := storedCustomer()
	updated.Title = "New title"
	customers.On("GetByIDForAdmin", mock.Anything, int64(5)).Return(updated, nil).Once()

	w := doJSON(newAdminEngine(customers), http.MethodPost, "/admin/customer/5", map[string]any{"title": "New title"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"title":"New title"`)
	assert.Contains(t, w.Body.String(), `"supplier_code":"S-2"`)
	customers.AssertExpectations(t)
}

func TestAdminUpdateCustomerRejectsEmptyCode(t *testing.T) {
	customers := new(mockCustomerRepo)

	w := doJSON(newAdminEngine(customers), http.MethodPost, "/admin/customer/5", map[string]any{"code": ""})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Error)
	require.NotEmpty(t, resp.Error.Details)
	assert.Equal(t, "code", resp.Error.Details[0].Field)
	customers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAdminUpdateUnknownCustomer(t *testing.T) {
	customers := new(mockCustomerRepo)
	customers.On("GetByIDForAdmin", mock.Anything, int64(404)).Return(nil, shared.ErrCustomerNotFound)

	w := doJSON(newAdminEngine(customers), http.MethodPost, "/admin/customer/404", map[string]any{"title": "x"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminCreateCustomer(t *testing.T) {
	t.Run("missing required fields", func(t *testing.T) {
		customers := new(mockCustomerRepo)

		w := doJSON(newAdminEngine(customers), http.MethodPost, "/admin/customer", map[string]any{"title": "No code"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		fields := map[string]bool{}
		for _, d := range decode(t, w).Error.Details {
			fields[d.Field] = true
		}
		assert.True(t, fields["supplier_id"])
		assert.True(t, fields["code"])
		assert.True(t, fields["currency"])
	})

	t.Run("duplicate code", func(t *testing.T) {
		customers := new(mockCustomerRepo)
		customers.On("Create", mock.Anything, mock.Anything).Return(shared.ErrUniqueConstraint)

		w := doJSON(newAdminEngine(customers), http.MethodPost, "/admin/customer", map[string]any{
			"supplier_id": 2, "code": "C-5", "currency": "USD",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "UNIQUE_CONSTRAINT_ERROR", decode(t, w).Error.Code)
	})
}

func TestAdminListCustomersUsesAdminDefaultPage(t *testing.T) {
	customers := new(mockCustomerRepo)
	customers.On("ListForAdmin", mock.Anything, mock.Anything).Return([]partner.CustomerView{*storedCustomer()}, nil)
	customers.On("CountForAdmin", mock.Anything, mock.Anything).Return(int64(1), nil)

	w := doJSON(newAdminEngine(customers), http.MethodGet, "/admin/customers", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, shared.DefaultAdminLimit, resp.Meta.PageSize)
	assert.NotContains(t, w.Body.String(), `"subscribed"`)
}
