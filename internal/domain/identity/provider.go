package identity

import (
	"context"
	"time"
)

// Tokens are the credentials issued on a successful sign-in.
type Tokens struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int32
}

// Provider is the hosted identity service. Implementations translate their own
// fault codes into shared domain errors.
type Provider interface {
	// Register creates an unconfirmed identity in the supplier group and returns its subject
	Register(ctx context.Context, email, password, phone, name string) (string, error)

	// VerifyRegistration confirms an identity with the code sent to the user
	VerifyRegistration(ctx context.Context, email, code string) error

	// Authenticate exchanges credentials for tokens
	Authenticate(ctx context.Context, email, password string) (Tokens, error)

	// InitiatePasswordReset sends a reset code to the user
	InitiatePasswordReset(ctx context.Context, email string) error

	// ConfirmPasswordReset sets a new password with a reset code
	ConfirmPasswordReset(ctx context.Context, email, newPassword, code string) error

	// DeleteIdentity removes the identity; subject may be empty when only the email is known
	DeleteIdentity(ctx context.Context, email, subject string) error

	// SignOut revokes every session of the identity
	SignOut(ctx context.Context, email string) error
}

// Identity is the verified content of a bearer token.
type Identity struct {
	Email     string
	Subject   string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
}

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (Identity, error)
}
