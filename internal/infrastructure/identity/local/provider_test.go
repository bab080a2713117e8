package local

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/eightysix/analytics/internal/domain/contact"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/auth"
	"github.com/eightysix/analytics/internal/infrastructure/config"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sentMail struct {
	to   string
	tpl  contact.Template
	data map[string]any
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to string, tpl contact.Template, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, tpl: tpl, data: data})
	return nil
}

func (m *recordingMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

type fixture struct {
	db       *gorm.DB
	jwt      *auth.JWTService
	mailer   *recordingMailer
	provider *Provider
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.LocalIdentityModel{}))

	f := &fixture{
		db: db,
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "local-provider-test-secret-0123456789",
			AccessTokenExpiration:  time.Hour,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "eightysix-test",
		}),
		mailer: &recordingMailer{},
		clock:  time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
	}
	f.provider = NewProvider(db, f.jwt, f.mailer, nil,
		WithBcryptCost(bcrypt.MinCost),
		WithLockout(3, time.Minute),
		WithClock(func() time.Time { return f.clock }),
	)
	return f
}

func (f *fixture) registerConfirmed(t *testing.T, email, password string) string {
	t.Helper()
	ctx := context.Background()
	sub, err := f.provider.Register(ctx, email, password, "+100", "Ann")
	require.NoError(t, err)
	code := f.mailer.last(t).data["code"].(string)
	require.NoError(t, f.provider.VerifyRegistration(ctx, email, code))
	return sub
}

func TestProvider_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := f.provider.Register(ctx, " Ann@Example.com ", "s3cret-pass", "+100", "Ann")
	require.NoError(t, err)
	assert.NotEmpty(t, sub)

	var row models.LocalIdentityModel
	require.NoError(t, f.db.First(&row, "email = ?", "ann@example.com").Error)
	assert.Equal(t, sub, row.Subject)
	assert.Equal(t, "supplier", row.GroupName)
	assert.False(t, row.Confirmed)
	assert.NotEqual(t, "s3cret-pass", row.PasswordHash)

	mail := f.mailer.last(t)
	assert.Equal(t, "ann@example.com", mail.to)
	assert.Equal(t, contact.TemplateVerificationCode, mail.tpl)
	assert.Len(t, mail.data["code"], codeDigits)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.provider.Register(ctx, "ann@example.com", "another-pass", "", "")
		assert.ErrorIs(t, err, shared.ErrUniqueEmail)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := f.provider.Register(ctx, "short@example.com", "abc", "", "")
		var verr *shared.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestProvider_VerifyRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.provider.Register(ctx, "ann@example.com", "s3cret-pass", "", "Ann")
	require.NoError(t, err)

	assert.ErrorIs(t, f.provider.VerifyRegistration(ctx, "ann@example.com", "000000x"), shared.ErrVerificationCodeNotFound)
	assert.ErrorIs(t, f.provider.VerifyRegistration(ctx, "nobody@example.com", "1"), shared.ErrVerificationCodeNotFound)

	code := f.mailer.last(t).data["code"].(string)
	require.NoError(t, f.provider.VerifyRegistration(ctx, "ann@example.com", code))
	require.NoError(t, f.provider.VerifyRegistration(ctx, "ann@example.com", code), "confirming twice is a no-op")
}

func TestProvider_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("issues verifiable tokens", func(t *testing.T) {
		f := newFixture(t)
		sub := f.registerConfirmed(t, "ann@example.com", "s3cret-pass")

		tokens, err := f.provider.Authenticate(ctx, "ANN@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.RefreshToken)

		id, err := f.jwt.Verify(ctx, tokens.IDToken)
		require.NoError(t, err)
		assert.Equal(t, sub, id.Subject)
		assert.Equal(t, "ann@example.com", id.Email)
		assert.Equal(t, []string{"supplier"}, id.Roles)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		f := newFixture(t)
		f.registerConfirmed(t, "ann@example.com", "s3cret-pass")

		_, err := f.provider.Authenticate(ctx, "nobody@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, shared.ErrIncorrectCredentials)
		_, err = f.provider.Authenticate(ctx, "ann@example.com", "wrong-pass")
		assert.ErrorIs(t, err, shared.ErrIncorrectCredentials)
	})

	t.Run("unconfirmed identity is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.provider.Register(ctx, "ann@example.com", "s3cret-pass", "", "")
		require.NoError(t, err)

		_, err = f.provider.Authenticate(ctx, "ann@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, shared.ErrIncorrectCredentials)
	})

	t.Run("locks after repeated failures", func(t *testing.T) {
		f := newFixture(t)
		f.registerConfirmed(t, "ann@example.com", "s3cret-pass")

		for i := 0; i < 3; i++ {
			_, err := f.provider.Authenticate(ctx, "ann@example.com", "wrong-pass")
			assert.ErrorIs(t, err, shared.ErrIncorrectCredentials)
		}
		_, err := f.provider.Authenticate(ctx, "ann@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, shared.ErrLimitExceeded)

		f.clock = f.clock.Add(2 * time.Minute)
		_, err = f.provider.Authenticate(ctx, "ann@example.com", "s3cret-pass")
		require.NoError(t, err)

		var row models.LocalIdentityModel
		require.NoError(t, f.db.First(&row, "email = ?", "ann@example.com").Error)
		assert.Zero(t, row.FailedAttempts)
		assert.Nil(t, row.LockedUntil)
	})
}

func TestProvider_PasswordReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerConfirmed(t, "ann@example.com", "s3cret-pass")

	assert.ErrorIs(t, f.provider.InitiatePasswordReset(ctx, "nobody@example.com"), shared.ErrUserNotFound)

	require.NoError(t, f.provider.InitiatePasswordReset(ctx, "ann@example.com"))
	mail := f.mailer.last(t)
	assert.Equal(t, contact.TemplatePasswordReset, mail.tpl)
	code := mail.data["code"].(string)

	assert.ErrorIs(t, f.provider.ConfirmPasswordReset(ctx, "ann@example.com", "brand-new-pass", "bad"), shared.ErrVerificationCodeNotFound)
	require.NoError(t, f.provider.ConfirmPasswordReset(ctx, "ann@example.com", "brand-new-pass", code))
	assert.ErrorIs(t, f.provider.ConfirmPasswordReset(ctx, "ann@example.com", "again-new-pass", code), shared.ErrVerificationCodeNotFound, "codes are single use")

	_, err := f.provider.Authenticate(ctx, "ann@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, shared.ErrIncorrectCredentials)
	_, err = f.provider.Authenticate(ctx, "ann@example.com", "brand-new-pass")
	assert.NoError(t, err)
}

func TestProvider_DeleteAndSignOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.registerConfirmed(t, "ann@example.com", "s3cret-pass")
	f.registerConfirmed(t, "bob@example.com", "s3cret-pass")

	require.NoError(t, f.provider.SignOut(ctx, "ann@example.com"))
	var row models.LocalIdentityModel
	require.NoError(t, f.db.First(&row, "email = ?", "ann@example.com").Error)
	require.NotNil(t, row.SessionsRevoked)
	assert.True(t, row.SessionsRevoked.Equal(f.clock))

	require.NoError(t, f.provider.DeleteIdentity(ctx, "", sub))
	require.NoError(t, f.provider.DeleteIdentity(ctx, "BOB@example.com", ""))
	assert.ErrorIs(t, f.provider.DeleteIdentity(ctx, "bob@example.com", ""), shared.ErrUserNotFound)

	var count int64
	require.NoError(t, f.db.Model(&models.LocalIdentityModel{}).Count(&count).Error)
	assert.Zero(t, count)
}
