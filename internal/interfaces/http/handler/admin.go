package handler

import (
	catalogapp "github.com/eightysix/analytics/internal/application/catalog"
	partnerapp "github.com/eightysix/analytics/internal/application/partner"
	tradeapp "github.com/eightysix/analytics/internal/application/trade"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// AdminServices groups the use cases behind the admin routes
type AdminServices struct {
	Customers        *partnerapp.CustomerService
	Suppliers        *partnerapp.SupplierService
	SupplierUsers    *partnerapp.SupplierUserService
	Products         *catalogapp.ProductService
	CustomerProducts *catalogapp.CustomerProductService
	Transactions     *tradeapp.TransactionService
}

// AdminHandler serves cross-tenant management under /api/admin
type AdminHandler struct {
	BaseHandler
	svc AdminServices
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(base BaseHandler, svc AdminServices) *AdminHandler {
	return &AdminHandler{BaseHandler: base, svc: svc}
}

// ListSupplierUsers handles GET /admin/supplier-users
func (h *AdminHandler) ListSupplierUsers(c *gin.Context) {
	params := listParams(c)
	rows, total, err := h.svc.SupplierUsers.List(c.Request.Context(), params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, rows, total, params, shared.DefaultAdminLimit)
}

// CreateSupplierUser handles POST /admin/supplier-user
func (h *AdminHandler) CreateSupplierUser(c *gin.Context) {
	var req partnerapp.CreateSupplierUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.SupplierUsers.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, out)
}

// UpdateSupplierUser handles POST /admin/supplier-user/:supplierUserId
func (h *AdminHandler) UpdateSupplierUser(c *gin.Context) {
	id, ok := h.pathID(c, "supplierUserId", shared.ErrUserNotFound)
	if !ok {
		return
	}
	var req partnerapp.UpdateSupplierUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.SupplierUsers.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// SetUserSupplier handles POST /auth/set-user-supplier
func (h *AdminHandler) SetUserSupplier(c *gin.Context) {
	var req partnerapp.UserSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.SupplierUsers.SetUserSupplier(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// DropUserSupplier handles POST /auth/drop-user-supplier
func (h *AdminHandler) DropUserSupplier(c *gin.Context) {
	var req partnerapp.UserSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.SupplierUsers.DropUserSupplier(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// DeleteSupplierUser handles DELETE /supplier/:id, where id is the user id
func (h *AdminHandler) DeleteSupplierUser(c *gin.Context) {
	id, ok := h.pathID(c, "id", shared.ErrUserNotFound)
	if !ok {
		return
	}
	if err := h.svc.SupplierUsers.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id})
}

// ListCustomers handles GET /admin/customers
func (h *AdminHandler) ListCustomers(c *gin.Context) {
	params := listParams(c)
	rows, total, err := h.svc.Customers.ListForAdmin(c.Request.Context(), params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, rows, total, params, shared.DefaultAdminLimit)
}

// CreateCustomer handles POST /admin/customer
func (h *AdminHandler) CreateCustomer(c *gin.Context) {
	var req partnerapp.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.Customers.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, out)
}

// UpdateCustomer handles POST /admin/customer/:customerId
func (h *AdminHandler) UpdateCustomer(c *gin.Context) {
	id, ok := h.pathID(c, "customerId", shared.ErrCustomerNotFound)
	if !ok {
		return
	}
	var req partnerapp.UpdateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.Customers.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// ListSuppliers handles GET /admin/suppliers
func (h *AdminHandler) ListSuppliers(c *gin.Context) {
	params := listParams(c)
	rows, total, err := h.svc.Suppliers.List(c.Request.Context(), params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, rows, total, params, shared.DefaultAdminLimit)
}

// CreateSupplier handles POST /admin/supplier
func (h *AdminHandler) CreateSupplier(c *gin.Context) {
	var req partnerapp.CreateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.Suppliers.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, out)
}

// UpdateSupplier handles POST /admin/supplier/:supplierId
func (h *AdminHandler) UpdateSupplier(c *gin.Context) {
	id, ok := h.pathID(c, "supplierId", shared.ErrSupplierNotFound)
	if !ok {
		return
	}
	var req partnerapp.UpdateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.Suppliers.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// ListProducts handles GET /admin/products
func (h *AdminHandler) ListProducts(c *gin.Context) {
	params := listParams(c)
	rows, total, err := h.svc.Products.List(c.Request.Context(), params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, rows, total, params, shared.DefaultAdminLimit)
}

// CreateProduct handles POST /admin/product
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.Products.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, out)
}

// UpdateProduct handles POST /admin/product/:productId
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.pathID(c, "productId", shared.ErrProductNotFound)
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.Products.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// ListCustomerProducts handles GET /admin/customer-products
func (h *AdminHandler) ListCustomerProducts(c *gin.Context) {
	params := listParams(c)
	rows, total, err := h.svc.CustomerProducts.ListForAdmin(c.Request.Context(), params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, rows, total, params, shared.DefaultAdminLimit)
}

// CreateCustomerProduct handles POST /admin/customer-product
func (h *AdminHandler) CreateCustomerProduct(c *gin.Context) {
	var req catalogapp.CreateCustomerProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.CustomerProducts.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, out)
}

// UpdateCustomerProduct handles POST /admin/customer-product/:customerProductId
func (h *AdminHandler) UpdateCustomerProduct(c *gin.Context) {
	id, ok := h.pathID(c, "customerProductId", shared.ErrProductNotFound)
	if !ok {
		return
	}
	var req catalogapp.UpdateCustomerProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.CustomerProducts.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// ListTransactions handles GET /admin/transactions
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	params := listParams(c)
	rows, total, err := h.svc.Transactions.ListForAdmin(c.Request.Context(), params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, rows, total, params, shared.DefaultAdminLimit)
}

// CreateTransaction handles POST /admin/transaction
func (h *AdminHandler) CreateTransaction(c *gin.Context) {
	var req tradeapp.CreateTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.Transactions.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, out)
}

// UpdateTransaction handles POST /admin/transaction/:transactionId
func (h *AdminHandler) UpdateTransaction(c *gin.Context) {
	id, ok := h.pathID(c, "transactionId", shared.ErrTransactionNotFound)
	if !ok {
		return
	}
	var req tradeapp.UpdateTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.Transactions.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}
