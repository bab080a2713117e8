package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver records served requests
type RequestObserver interface {
	RequestStarted() func()
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Metrics records every request under its route pattern, never the raw path
func Metrics(obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		done := obs.RequestStarted()
		defer done()

		c.Next()

		obs.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
