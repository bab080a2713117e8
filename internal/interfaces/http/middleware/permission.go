package middleware

import (
	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// RequirePermission lets the request through only when the authenticated
// actor's role holds perm on resource. It runs before any handler so a denied
// request never reaches a repository.
func RequirePermission(policy *access.Policy, perm access.Permission, resource access.Resource, respond ErrorResponder) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok || actor.IsZero() {
			respond(c, shared.ErrUnauthorized)
			return
		}
		if err := policy.Check(actor.Role, perm, resource); err != nil {
			respond(c, err)
			return
		}
		c.Next()
	}
}
