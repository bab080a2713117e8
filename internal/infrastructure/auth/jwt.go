package auth

import (
	"context"
	"errors"
	"time"

	"github.com/eightysix/analytics/internal/domain/identity"
	"github.com/eightysix/analytics/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeID      TokenType = "id"
	TokenTypeRefresh TokenType = "refresh"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingEmail     = errors.New("missing email in claims")
)

// Claims represents custom JWT claims. Group names use the same claim key as
// Cognito so both providers feed the same role mapping.
type Claims struct {
	jwt.RegisteredClaims
	Email     string    `json:"email"`
	Groups    []string  `json:"cognito:groups,omitempty"`
	TokenType TokenType `json:"token_use"`
}

// GenerateTokenInput contains input for token generation
type GenerateTokenInput struct {
	Subject string
	Email   string
	Groups  []string
}

// JWTService issues and validates HS256 tokens for the local identity provider
type JWTService struct {
	secret            []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
	now               func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:            []byte(cfg.Secret),
		accessExpiration:  cfg.AccessTokenExpiration,
		refreshExpiration: cfg.RefreshTokenExpiration,
		issuer:            cfg.Issuer,
		now:               time.Now,
	}
}

// GenerateTokens issues the access, id and refresh tokens of one sign-in
func (s *JWTService) GenerateTokens(input GenerateTokenInput) (identity.Tokens, error) {
	now := s.now()

	access, err := s.sign(s.claims(input, TokenTypeAccess, now, s.accessExpiration))
	if err != nil {
		return identity.Tokens{}, err
	}
	id, err := s.sign(s.claims(input, TokenTypeID, now, s.accessExpiration))
	if err != nil {
		return identity.Tokens{}, err
	}
	refresh, err := s.sign(&Claims{
		RegisteredClaims: s.registered(input.Subject, now, s.refreshExpiration),
		TokenType:        TokenTypeRefresh,
	})
	if err != nil {
		return identity.Tokens{}, err
	}

	return identity.Tokens{
		AccessToken:  access,
		IDToken:      id,
		RefreshToken: refresh,
		ExpiresIn:    int32(s.accessExpiration / time.Second),
	}, nil
}

func (s *JWTService) claims(input GenerateTokenInput, typ TokenType, now time.Time, ttl time.Duration) *Claims {
	return &Claims{
		RegisteredClaims: s.registered(input.Subject, now, ttl),
		Email:            input.Email,
		Groups:           input.Groups,
		TokenType:        typ,
	}
}

func (s *JWTService) registered(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    s.issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{s.issuer},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

func (s *JWTService) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses a token and checks its signature, lifetime and type.
// Both access and id tokens are accepted as bearer tokens.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.TokenType != TokenTypeAccess && claims.TokenType != TokenTypeID {
		return nil, ErrInvalidTokenType
	}
	if claims.Email == "" {
		return nil, ErrMissingEmail
	}
	return claims, nil
}

// Verify implements identity.TokenVerifier
func (s *JWTService) Verify(_ context.Context, raw string) (identity.Identity, error) {
	claims, err := s.ValidateToken(raw)
	if err != nil {
		return identity.Identity{}, err
	}
	return claims.Identity(), nil
}

// Identity converts the claims into the provider-neutral form
func (c *Claims) Identity() identity.Identity {
	return identity.Identity{
		Email:     identity.NormalizeEmail(c.Email),
		Subject:   c.Subject,
		Roles:     c.Groups,
		IssuedAt:  c.GetIssuedAtTime(),
		ExpiresAt: c.GetExpiresAtTime(),
		TokenID:   c.ID,
	}
}

// GetIssuedAtTime returns the issued at time
func (c *Claims) GetIssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// GetExpiresAtTime returns the expiration time
func (c *Claims) GetExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// GetAccessTokenExpiration returns the access token expiration duration
func (s *JWTService) GetAccessTokenExpiration() time.Duration {
	return s.accessExpiration
}
