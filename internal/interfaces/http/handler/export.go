package handler

import (
	exportapp "github.com/eightysix/analytics/internal/application/export"
	"github.com/gin-gonic/gin"
)

// ExportHandler serves spreadsheet exports and their download keys
type ExportHandler struct {
	BaseHandler
	export *exportapp.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(base BaseHandler, export *exportapp.ExportService) *ExportHandler {
	return &ExportHandler{BaseHandler: base, export: export}
}

// ExportCustomers handles POST /supplier/customers/export. It accepts the
// same query parameters as the customer list.
func (h *ExportHandler) ExportCustomers(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	out, err := h.export.ExportCustomers(c.Request.Context(), actor, listParams(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, out)
}

// Download handles GET /supplier/download/:key
func (h *ExportHandler) Download(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	out, err := h.export.Download(c.Request.Context(), actor, c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// Delete handles DELETE /supplier/download/:key
func (h *ExportHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	key := c.Param("key")
	if err := h.export.Delete(c.Request.Context(), actor, key); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"key": key})
}
