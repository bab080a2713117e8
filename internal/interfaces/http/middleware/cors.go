package middleware

import (
	"slices"
	"time"

	"github.com/eightysix/analytics/internal/infrastructure/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultCORSHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader}

// CORS builds the cross-origin policy from the http config. A "*" origin
// allows any origin without credentials.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:  cfg.CORSAllowMethods,
		AllowHeaders:  cfg.CORSAllowHeaders,
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(c.AllowMethods) == 0 {
		c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(c.AllowHeaders) == 0 {
		c.AllowHeaders = defaultCORSHeaders
	}
	if slices.Contains(cfg.CORSAllowOrigins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowOrigins
		c.AllowCredentials = true
	}
	if !c.AllowAllOrigins && len(c.AllowOrigins) == 0 {
		// cors.New panics on an empty origin list
		c.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(c)
}
