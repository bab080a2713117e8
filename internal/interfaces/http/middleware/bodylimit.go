package middleware

import (
	"net/http"

	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// ErrRequestTooLarge is reported for bodies over the configured limit
var ErrRequestTooLarge = shared.NewDomainError("REQUEST_TOO_LARGE", "Request body exceeds maximum allowed size")

// BodyLimit rejects declared oversize bodies up front and caps streamed ones.
// A non-positive limit disables the check.
func BodyLimit(maxBytes int64, respond ErrorResponder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			respond(c, ErrRequestTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
