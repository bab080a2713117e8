package cognito

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/eightysix/analytics/internal/domain/identity"
	"github.com/eightysix/analytics/internal/infrastructure/auth"
	"github.com/eightysix/analytics/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var _ identity.TokenVerifier = (*Verifier)(nil)

const (
	defaultKeyRefresh = time.Hour
	// at most one out-of-band fetch for an unknown kid per window
	unknownKIDWindow = 5 * time.Minute
)

// Verifier validates RS256 ID tokens issued by a Cognito user pool.
// Keys come from the pool JWKS, refreshed in the background for as long
// as the constructor's context lives.
type Verifier struct {
	issuer   string
	clientID string
	keys     keyfunc.Keyfunc
	now      func() time.Time
}

// NewVerifier creates a verifier for the configured pool
func NewVerifier(ctx context.Context, cfg config.IdentityConfig, logger *zap.Logger) (*Verifier, error) {
	issuer := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", cfg.Region, cfg.UserPoolID)
	return NewVerifierWithIssuer(ctx, issuer, issuer+"/.well-known/jwks.json", cfg.ClientID, cfg.Timeout, logger)
}

// NewVerifierWithIssuer creates a verifier with explicit issuer and key set URLs
func NewVerifierWithIssuer(ctx context.Context, issuer, jwksURL, clientID string, timeout time.Duration, logger *zap.Logger) (*Verifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	keys, err := keyfunc.NewDefaultOverrideCtx(ctx, []string{jwksURL}, keyfunc.Override{
		HTTPTimeout:       timeout,
		RateLimitWaitMax:  timeout,
		RefreshInterval:   defaultKeyRefresh,
		RefreshUnknownKID: rate.NewLimiter(rate.Every(unknownKIDWindow), 1),
		RefreshErrorHandlerFunc: func(u string) func(context.Context, error) {
			return func(_ context.Context, err error) {
				logger.Warn("JWKS refresh failed, keeping cached keys", zap.String("url", u), zap.Error(err))
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("load jwks: %w", err)
	}
	return &Verifier{
		issuer:   issuer,
		clientID: clientID,
		keys:     keys,
		now:      time.Now,
	}, nil
}

// Verify checks signature, issuer, audience, expiry and token use
func (v *Verifier) Verify(ctx context.Context, raw string) (identity.Identity, error) {
	claims := &auth.Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, v.keys.KeyfuncCtx(ctx),
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return identity.Identity{}, auth.ErrExpiredToken
		}
		return identity.Identity{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	if !token.Valid {
		return identity.Identity{}, auth.ErrInvalidToken
	}
	if claims.TokenType != auth.TokenTypeID {
		return identity.Identity{}, auth.ErrInvalidTokenType
	}
	if claims.Email == "" {
		return identity.Identity{}, auth.ErrMissingEmail
	}
	return claims.Identity(), nil
}
