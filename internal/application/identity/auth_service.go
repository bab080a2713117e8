package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/eightysix/analytics/internal/domain/identity"
	"github.com/eightysix/analytics/internal/domain/shared"
	"go.uber.org/zap"
)

// TokenRevoker rejects every token a user holds
type TokenRevoker interface {
	RevokeUser(ctx context.Context, userID int64, ttl time.Duration) error
}

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	// RevocationTTL must outlive the longest token the provider issues
	RevocationTTL time.Duration
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{RevocationTTL: 24 * time.Hour}
}

// AuthService runs the account flows against the identity provider and keeps
// the local user rows in step
type AuthService struct {
	provider  identity.Provider
	userRepo  identity.UserRepository
	revoker   TokenRevoker
	config    AuthServiceConfig
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	provider identity.Provider,
	userRepo identity.UserRepository,
	revoker TokenRevoker,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		provider:  provider,
		userRepo:  userRepo,
		revoker:   revoker,
		config:    config,
		logger:    logger,
	}
}

// SignUp registers the identity and then stores its user row. When the row
// cannot be stored the identity is deleted again.
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResponse, error) {
	user, err := identity.NewUser(req.Name, req.Email, req.Phone, access.RoleSupplier)
	if err != nil {
		return nil, err
	}

	subject, err := s.provider.Register(ctx, user.Email, req.Password, user.Phone, user.Name)
	if err != nil {
		return nil, err
	}
	user.ExternalUsername = subject

	if err := s.userRepo.Create(ctx, user); err != nil {
		if delErr := s.provider.DeleteIdentity(ctx, user.Email, subject); delErr != nil {
			s.logger.Error("Failed to roll back identity after sign-up",
				zap.String("email", user.Email),
				zap.String("subject", subject),
				zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("User signed up", zap.Int64("user_id", user.ID))
	return &SignUpResponse{UserID: user.ID, UserSub: subject}, nil
}

// VerifySignUp confirms a registration
func (s *AuthService) VerifySignUp(ctx context.Context, req SignUpVerificationRequest) error {
	return s.provider.VerifyRegistration(ctx, identity.NormalizeEmail(req.Email), req.Code)
}

// SignIn authenticates and attaches the local user id. An identity without
// a user row has no supplier to act for.
func (s *AuthService) SignIn(ctx context.Context, req SignInRequest) (*SignInResponse, error) {
	email := identity.NormalizeEmail(req.Email)

	tokens, err := s.provider.Authenticate(ctx, email, req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			s.logger.Warn("Signed in identity has no user row", zap.String("email", email))
			return nil, shared.ErrSupplierNotFound
		}
		return nil, err
	}

	return &SignInResponse{
		AccessToken:  tokens.AccessToken,
		IDToken:      tokens.IDToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		UserID:       user.ID,
	}, nil
}

// SignOut ends every session of the actor at the provider and rejects the
// tokens already issued
func (s *AuthService) SignOut(ctx context.Context, actor access.Actor) error {
	if actor.IsZero() {
		return shared.ErrUnauthorized
	}
	if err := s.provider.SignOut(ctx, actor.Email); err != nil {
		return err
	}
	if err := s.revoker.RevokeUser(ctx, actor.UserID, s.config.RevocationTTL); err != nil {
		return fmt.Errorf("revoke tokens of user %d: %w", actor.UserID, err)
	}
	return nil
}

// PasswordReset sends a reset code
func (s *AuthService) PasswordReset(ctx context.Context, req PasswordResetRequest) error {
	return s.provider.InitiatePasswordReset(ctx, identity.NormalizeEmail(req.Email))
}

// PasswordConfirm sets the new password
func (s *AuthService) PasswordConfirm(ctx context.Context, req PasswordConfirmRequest) error {
	return s.provider.ConfirmPasswordReset(ctx, identity.NormalizeEmail(req.Email), req.NewPassword, req.VerificationCode)
}
