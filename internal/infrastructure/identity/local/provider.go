// Package local implements the identity provider against the application
// database. It issues HS256 tokens and is meant for development and tests.
package local

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/eightysix/analytics/internal/domain/contact"
	"github.com/eightysix/analytics/internal/domain/identity"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/auth"
	"github.com/eightysix/analytics/internal/infrastructure/persistence"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost          = 12
	defaultMaxAttempts  = 5
	defaultLockDuration = 15 * time.Minute
	codeDigits          = 6
)

var _ identity.Provider = (*Provider)(nil)

// TokenIssuer mints the token triple for a verified identity
type TokenIssuer interface {
	GenerateTokens(input auth.GenerateTokenInput) (identity.Tokens, error)
}

// Option configures a Provider
type Option func(*Provider)

// WithLockout sets how many consecutive failures lock an identity and for how long
func WithLockout(maxAttempts int, duration time.Duration) Option {
	return func(p *Provider) {
		p.maxAttempts = maxAttempts
		p.lockDuration = duration
	}
}

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(p *Provider) { p.cost = cost }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// Provider stores identities in local_identities
type Provider struct {
	db           *gorm.DB
	tokens       TokenIssuer
	mailer       contact.Mailer
	logger       *zap.Logger
	cost         int
	maxAttempts  int
	lockDuration time.Duration
	now          func() time.Time
	newCode      func() (string, error)
}

// NewProvider creates a local identity provider
func NewProvider(db *gorm.DB, tokens TokenIssuer, mailer contact.Mailer, logger *zap.Logger, opts ...Option) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Provider{
		db:           db,
		tokens:       tokens,
		mailer:       mailer,
		logger:       logger,
		cost:         bcryptCost,
		maxAttempts:  defaultMaxAttempts,
		lockDuration: defaultLockDuration,
		now:          time.Now,
		newCode:      randomCode,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register creates an unconfirmed identity in the supplier group and mails the verification code
func (p *Provider) Register(ctx context.Context, email, password, phone, name string) (string, error) {
	email = identity.NormalizeEmail(email)
	if len(password) < 8 {
		return "", shared.NewValidationError().Add("password", "Password must be at least 8 characters").OrNil()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	code, err := p.newCode()
	if err != nil {
		return "", err
	}

	row := &models.LocalIdentityModel{
		Email:            email,
		PasswordHash:     string(hash),
		Subject:          uuid.NewString(),
		GroupName:        access.RoleSupplier.String(),
		Phone:            strings.TrimSpace(phone),
		Name:             strings.TrimSpace(name),
		VerificationCode: code,
		CreatedAt:        p.now(),
	}
	if err := p.db.WithContext(ctx).Create(row).Error; err != nil {
		if persistence.IsUniqueViolation(err) {
			return "", shared.ErrUniqueEmail
		}
		return "", fmt.Errorf("create identity: %w", err)
	}

	if err := p.mailer.Send(ctx, email, contact.TemplateVerificationCode, map[string]any{
		"name": row.Name,
		"code": code,
	}); err != nil {
		p.logger.Warn("Failed to send verification code", zap.String("email", email), zap.Error(err))
	}
	return row.Subject, nil
}

// VerifyRegistration confirms an identity whose pending code matches
func (p *Provider) VerifyRegistration(ctx context.Context, email, code string) error {
	row, err := p.find(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			return shared.ErrVerificationCodeNotFound
		}
		return err
	}
	if row.Confirmed {
		return nil
	}
	if row.VerificationCode == "" || row.VerificationCode != strings.TrimSpace(code) {
		return shared.ErrVerificationCodeNotFound
	}
	return p.db.WithContext(ctx).Model(row).Updates(map[string]any{
		"confirmed":         true,
		"verification_code": "",
	}).Error
}

// Authenticate checks the password and issues tokens. Unknown emails, wrong
// passwords and unconfirmed identities all fail with the same error; an
// identity locked after repeated failures reports the attempt limit.
func (p *Provider) Authenticate(ctx context.Context, email, password string) (identity.Tokens, error) {
	row, err := p.find(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			return identity.Tokens{}, shared.ErrIncorrectCredentials
		}
		return identity.Tokens{}, err
	}

	now := p.now()
	if row.LockedUntil != nil && now.Before(*row.LockedUntil) {
		return identity.Tokens{}, shared.ErrLimitExceeded
	}

	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		if err := p.recordFailure(ctx, row, now); err != nil {
			return identity.Tokens{}, err
		}
		return identity.Tokens{}, shared.ErrIncorrectCredentials
	}
	if !row.Confirmed {
		return identity.Tokens{}, shared.ErrIncorrectCredentials
	}

	if row.FailedAttempts > 0 || row.LockedUntil != nil {
		if err := p.db.WithContext(ctx).Model(row).Updates(map[string]any{
			"failed_attempts": 0,
			"locked_until":    nil,
		}).Error; err != nil {
			return identity.Tokens{}, err
		}
	}

	return p.tokens.GenerateTokens(auth.GenerateTokenInput{
		Subject: row.Subject,
		Email:   row.Email,
		Groups:  []string{row.GroupName},
	})
}

func (p *Provider) recordFailure(ctx context.Context, row *models.LocalIdentityModel, now time.Time) error {
	updates := map[string]any{"failed_attempts": row.FailedAttempts + 1}
	if p.maxAttempts > 0 && row.FailedAttempts+1 >= p.maxAttempts {
		lockedUntil := now.Add(p.lockDuration)
		updates["failed_attempts"] = 0
		updates["locked_until"] = lockedUntil
		p.logger.Info("Local identity locked", zap.String("email", row.Email), zap.Time("until", lockedUntil))
	}
	return p.db.WithContext(ctx).Model(row).Updates(updates).Error
}

// InitiatePasswordReset stores a reset code and mails it
func (p *Provider) InitiatePasswordReset(ctx context.Context, email string) error {
	row, err := p.find(ctx, email)
	if err != nil {
		return err
	}
	code, err := p.newCode()
	if err != nil {
		return err
	}
	if err := p.db.WithContext(ctx).Model(row).Update("reset_code", code).Error; err != nil {
		return err
	}
	return p.mailer.Send(ctx, row.Email, contact.TemplatePasswordReset, map[string]any{"code": code})
}

// ConfirmPasswordReset replaces the password when the reset code matches
func (p *Provider) ConfirmPasswordReset(ctx context.Context, email, newPassword, code string) error {
	row, err := p.find(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			return shared.ErrVerificationCodeNotFound
		}
		return err
	}
	if row.ResetCode == "" || row.ResetCode != strings.TrimSpace(code) {
		return shared.ErrVerificationCodeNotFound
	}
	if len(newPassword) < 8 {
		return shared.NewValidationError().Add("newPassword", "Password must be at least 8 characters").OrNil()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), p.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return p.db.WithContext(ctx).Model(row).Updates(map[string]any{
		"password_hash":   string(hash),
		"reset_code":      "",
		"failed_attempts": 0,
		"locked_until":    nil,
	}).Error
}

// DeleteIdentity removes the identity by email, or by subject when given
func (p *Provider) DeleteIdentity(ctx context.Context, email, subject string) error {
	q := p.db.WithContext(ctx)
	if subject != "" {
		q = q.Where("subject = ?", subject)
	} else {
		q = q.Where("email = ?", identity.NormalizeEmail(email))
	}
	res := q.Delete(&models.LocalIdentityModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrUserNotFound
	}
	return nil
}

// SignOut stamps the sign-out time on the identity row. Rejecting tokens
// issued earlier is the auth service's revocation store's job.
func (p *Provider) SignOut(ctx context.Context, email string) error {
	row, err := p.find(ctx, email)
	if err != nil {
		return err
	}
	return p.db.WithContext(ctx).Model(row).Update("sessions_revoked", p.now()).Error
}

func (p *Provider) find(ctx context.Context, email string) (*models.LocalIdentityModel, error) {
	var row models.LocalIdentityModel
	err := p.db.WithContext(ctx).Where("email = ?", identity.NormalizeEmail(email)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func randomCode() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
