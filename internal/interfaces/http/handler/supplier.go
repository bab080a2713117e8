package handler

import (
	catalogapp "github.com/eightysix/analytics/internal/application/catalog"
	partnerapp "github.com/eightysix/analytics/internal/application/partner"
	tradeapp "github.com/eightysix/analytics/internal/application/trade"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// SupplierServices groups the use cases behind the supplier routes
type SupplierServices struct {
	Customers        *partnerapp.CustomerService
	Notes            *partnerapp.NoteService
	CustomerProducts *catalogapp.CustomerProductService
	Transactions     *tradeapp.TransactionService
}

// SupplierHandler serves a supplier user's own data under /api/supplier.
// Every query is scoped to the authenticated actor.
type SupplierHandler struct {
	BaseHandler
	svc SupplierServices
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(base BaseHandler, svc SupplierServices) *SupplierHandler {
	return &SupplierHandler{BaseHandler: base, svc: svc}
}

// ListCustomers handles GET /supplier/customers
func (h *SupplierHandler) ListCustomers(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	params := listParams(c)
	rows, total, err := h.svc.Customers.ListForSupplier(c.Request.Context(), actor.UserID, params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, rows, total, params, shared.DefaultLimit)
}

// GetCustomer handles GET /supplier/customer/:customerId
func (h *SupplierHandler) GetCustomer(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "customerId", shared.ErrCustomerNotFound)
	if !ok {
		return
	}
	out, err := h.svc.Customers.GetForSupplier(c.Request.Context(), actor.UserID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// ListSubscribed handles GET /supplier/customer-users
func (h *SupplierHandler) ListSubscribed(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	params := listParams(c)
	rows, total, err := h.svc.Customers.ListSubscribed(c.Request.Context(), actor.UserID, params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, rows, total, params, shared.DefaultLimit)
}

// Subscribe handles POST /supplier/customer-user/:customerId/subscribe
func (h *SupplierHandler) Subscribe(c *gin.Context) {
	h.subscription(c, true)
}

// Unsubscribe handles POST /supplier/customer-user/:customerId/unsubscribe
func (h *SupplierHandler) Unsubscribe(c *gin.Context) {
	h.subscription(c, false)
}

func (h *SupplierHandler) subscription(c *gin.Context, subscribe bool) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "customerId", shared.ErrCustomerNotFound)
	if !ok {
		return
	}
	var err error
	if subscribe {
		err = h.svc.Customers.Subscribe(c.Request.Context(), actor.UserID, id)
	} else {
		err = h.svc.Customers.Unsubscribe(c.Request.Context(), actor.UserID, id)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"customer_id": id, "subscribed": subscribe})
}

// ListNotes handles GET /supplier/customer/:customerId/notes
func (h *SupplierHandler) ListNotes(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "customerId", shared.ErrCustomerNotFound)
	if !ok {
		return
	}
	params := listParams(c)
	rows, total, err := h.svc.Notes.List(c.Request.Context(), actor.UserID, id, params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, rows, total, params, shared.DefaultLimit)
}

// CreateNote handles POST /supplier/customer/:customerId/note
func (h *SupplierHandler) CreateNote(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "customerId", shared.ErrCustomerNotFound)
	if !ok {
		return
	}
	var req partnerapp.NoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.Notes.Create(c.Request.Context(), actor.UserID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, out)
}

// UpdateNote handles POST /supplier/note/:id
func (h *SupplierHandler) UpdateNote(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", shared.ErrNoteNotFound)
	if !ok {
		return
	}
	var req partnerapp.NoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := h.svc.Notes.Update(c.Request.Context(), actor.UserID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// DeleteNote handles DELETE /supplier/note/:id
func (h *SupplierHandler) DeleteNote(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", shared.ErrNoteNotFound)
	if !ok {
		return
	}
	if err := h.svc.Notes.Delete(c.Request.Context(), actor.UserID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id})
}

// ListProducts handles GET /supplier/customer/:customerId/products
func (h *SupplierHandler) ListProducts(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "customerId", shared.ErrCustomerNotFound)
	if !ok {
		return
	}
	params := listParams(c)
	rows, total, err := h.svc.CustomerProducts.ListForSupplier(c.Request.Context(), actor.UserID, id, params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, rows, total, params, shared.DefaultLimit)
}

// SetProductActive handles POST /supplier/customer-product/:customerProductId
func (h *SupplierHandler) SetProductActive(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "customerProductId", shared.ErrProductNotFound)
	if !ok {
		return
	}
	var req catalogapp.SetActiveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.svc.CustomerProducts.SetActive(c.Request.Context(), actor.UserID, id, *req.Active); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id, "active": *req.Active})
}

// ListTransactions handles GET /supplier/customer/:customerId/transactions
func (h *SupplierHandler) ListTransactions(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "customerId", shared.ErrCustomerNotFound)
	if !ok {
		return
	}
	params := listParams(c)
	rows, total, err := h.svc.Transactions.ListForSupplier(c.Request.Context(), actor.UserID, id, params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, rows, total, params, shared.DefaultLimit)
}

// ListOrders handles GET /supplier/customer/:customerId/orders
func (h *SupplierHandler) ListOrders(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "customerId", shared.ErrCustomerNotFound)
	if !ok {
		return
	}
	params := listParams(c)
	rows, total, err := h.svc.Transactions.ListOrders(c.Request.Context(), actor.UserID, id, params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, rows, total, params, shared.DefaultLimit)
}

// SetTransactionStopped handles POST /supplier/transaction/:transactionId
func (h *SupplierHandler) SetTransactionStopped(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "transactionId", shared.ErrTransactionNotFound)
	if !ok {
		return
	}
	var req tradeapp.SetStoppedRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.svc.Transactions.SetStopped(c.Request.Context(), actor.UserID, id, req.Stopped); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id, "stopped": req.Stopped})
}
