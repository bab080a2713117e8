package handler

import (
	contactapp "github.com/eightysix/analytics/internal/application/contact"
	"github.com/gin-gonic/gin"
)

// ContactHandler serves the public contact form
type ContactHandler struct {
	BaseHandler
	contact *contactapp.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(base BaseHandler, contact *contactapp.ContactService) *ContactHandler {
	return &ContactHandler{BaseHandler: base, contact: contact}
}

// Submit handles POST /contact/form
func (h *ContactHandler) Submit(c *gin.Context) {
	var req contactapp.SubmitRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.contact.Submit(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"received": true})
}
