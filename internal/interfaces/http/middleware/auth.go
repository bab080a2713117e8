package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/eightysix/analytics/internal/domain/identity"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	actorKey      = "actor"
	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
)

// Revocations reports users whose earlier tokens were revoked by sign-out
type Revocations interface {
	IsUserRevoked(ctx context.Context, userID int64, issuedAt time.Time) (bool, error)
}

// UserLookup resolves a verified email to its local user
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*identity.User, error)
}

// AuthConfig wires the authentication middleware
type AuthConfig struct {
	Verifier identity.TokenVerifier
	// Revocations is optional; without it only expiry ends a token
	Revocations Revocations
	Users       UserLookup
	Respond     ErrorResponder
	Logger      *zap.Logger
}

// Authenticate verifies the bearer token, loads the caller's user row and
// stores the resulting access.Actor on the context. The role comes from the
// token's groups, falling back to the stored role when no group is known.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		raw := bearerToken(c.GetHeader(authHeaderKey))
		if raw == "" {
			cfg.Respond(c, shared.ErrUnauthorized)
			return
		}

		id, err := cfg.Verifier.Verify(ctx, raw)
		if err != nil {
			logger.Ctx(ctx, log).Debug("Token rejected", zap.Error(err))
			cfg.Respond(c, fmt.Errorf("%w: %v", shared.ErrUnauthorized, err))
			return
		}

		user, err := cfg.Users.GetByEmail(ctx, id.Email)
		if errors.Is(err, shared.ErrUserNotFound) {
			logger.Ctx(ctx, log).Warn("Verified token has no local user", zap.String("subject", id.Subject))
			cfg.Respond(c, shared.ErrUnauthorized)
			return
		}
		if err != nil {
			cfg.Respond(c, err)
			return
		}

		if cfg.Revocations != nil {
			invalidated, err := cfg.Revocations.IsUserRevoked(ctx, user.ID, id.IssuedAt)
			if err != nil {
				// fails open
				logger.Ctx(ctx, log).Error("Failed to check token revocation",
					zap.Int64("user_id", user.ID), zap.Error(err))
			} else if invalidated {
				cfg.Respond(c, shared.ErrUnauthorized)
				return
			}
		}

		role := access.RoleFromGroups(id.Roles)
		if !role.Valid() {
			role = user.Role
		}
		actor := access.Actor{UserID: user.ID, Email: user.Email, Role: role}
		c.Set(actorKey, actor)
		c.Request = c.Request.WithContext(logger.WithActor(ctx, actor.UserID, role.String()))
		c.Next()
	}
}

// bearerToken strips an optional "Bearer " prefix
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		header = header[len(bearerPrefix):]
	}
	return strings.TrimSpace(header)
}

// GetActor returns the authenticated caller
func GetActor(c *gin.Context) (access.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return access.Actor{}, false
	}
	actor, ok := v.(access.Actor)
	return actor, ok
}

// SetActor stores actor on c. Used by tests that bypass token verification.
func SetActor(c *gin.Context, actor access.Actor) {
	c.Set(actorKey, actor)
}
