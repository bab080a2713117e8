// Package middleware provides the gin middleware chain for the API.
package middleware

import (
	"github.com/eightysix/analytics/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID in both directions
	RequestIDHeader = "X-Request-ID"
	// MaxRequestIDLength bounds a client-supplied ID; longer ones are replaced
	MaxRequestIDLength = 128
)

// ErrorResponder writes err as the response and aborts the chain. The router
// passes the handler layer's mapping so middleware never builds envelopes.
type ErrorResponder func(c *gin.Context, err error)

// RequestID keeps a sane client X-Request-ID or issues a uuid, and stores it
// on the request context for logging and error envelopes
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > MaxRequestIDLength {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
