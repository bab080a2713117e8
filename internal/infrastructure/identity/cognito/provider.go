// Package cognito implements the identity provider on an AWS Cognito user pool.
package cognito

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/eightysix/analytics/internal/domain/identity"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ identity.Provider = (*Provider)(nil)

// API is the subset of the Cognito client the provider calls
type API interface {
	SignUp(ctx context.Context, in *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	AdminAddUserToGroup(ctx context.Context, in *cip.AdminAddUserToGroupInput, optFns ...func(*cip.Options)) (*cip.AdminAddUserToGroupOutput, error)
	ConfirmSignUp(ctx context.Context, in *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
	InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	ForgotPassword(ctx context.Context, in *cip.ForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ForgotPasswordOutput, error)
	ConfirmForgotPassword(ctx context.Context, in *cip.ConfirmForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ConfirmForgotPasswordOutput, error)
	AdminDeleteUser(ctx context.Context, in *cip.AdminDeleteUserInput, optFns ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error)
	AdminUserGlobalSignOut(ctx context.Context, in *cip.AdminUserGlobalSignOutInput, optFns ...func(*cip.Options)) (*cip.AdminUserGlobalSignOutOutput, error)
}

// Provider calls the Cognito user pool API
type Provider struct {
	api          API
	userPoolID   string
	clientID     string
	clientSecret string
	timeout      time.Duration
	logger       *zap.Logger
}

// NewProvider loads the default AWS credential chain for the configured region
func NewProvider(ctx context.Context, cfg config.IdentityConfig, logger *zap.Logger) (*Provider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewProviderWithAPI(cip.NewFromConfig(awsCfg), cfg, logger), nil
}

// NewProviderWithAPI creates a provider over an existing client
func NewProviderWithAPI(api API, cfg config.IdentityConfig, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		api:          api,
		userPoolID:   cfg.UserPoolID,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		timeout:      cfg.Timeout,
		logger:       logger,
	}
}

func (p *Provider) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.timeout)
}

// secretHash is required by app clients that have a secret
func (p *Provider) secretHash(username string) *string {
	if p.clientSecret == "" {
		return nil
	}
	mac := hmac.New(sha256.New, []byte(p.clientSecret))
	mac.Write([]byte(username + p.clientID))
	return aws.String(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

// Register signs the user up and adds them to the supplier group
func (p *Provider) Register(ctx context.Context, email, password, phone, name string) (string, error) {
	ctx, cancel := p.bounded(ctx)
	defer cancel()

	email = identity.NormalizeEmail(email)
	attrs := []types.AttributeType{{Name: aws.String("email"), Value: aws.String(email)}}
	if phone != "" {
		attrs = append(attrs, types.AttributeType{Name: aws.String("phone_number"), Value: aws.String(phone)})
	}
	if name != "" {
		attrs = append(attrs, types.AttributeType{Name: aws.String("name"), Value: aws.String(name)})
	}

	out, err := p.api.SignUp(ctx, &cip.SignUpInput{
		ClientId:       aws.String(p.clientID),
		Username:       aws.String(email),
		Password:       aws.String(password),
		SecretHash:     p.secretHash(email),
		UserAttributes: attrs,
	})
	if err != nil {
		return "", translate(err, opRegister)
	}

	if _, err := p.api.AdminAddUserToGroup(ctx, &cip.AdminAddUserToGroupInput{
		GroupName:  aws.String(access.RoleSupplier.String()),
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(email),
	}); err != nil {
		p.logger.Error("Failed to add user to group, removing identity",
			zap.String("email", email), zap.Error(err))
		if _, delErr := p.api.AdminDeleteUser(ctx, &cip.AdminDeleteUserInput{
			UserPoolId: aws.String(p.userPoolID),
			Username:   aws.String(email),
		}); delErr != nil {
			p.logger.Error("Failed to remove identity", zap.String("email", email), zap.Error(delErr))
		}
		return "", translate(err, opRegister)
	}

	return aws.ToString(out.UserSub), nil
}

// VerifyRegistration confirms the sign-up code
func (p *Provider) VerifyRegistration(ctx context.Context, email, code string) error {
	ctx, cancel := p.bounded(ctx)
	defer cancel()

	email = identity.NormalizeEmail(email)
	_, err := p.api.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(p.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
		SecretHash:       p.secretHash(email),
	})
	return translate(err, opVerify)
}

// Authenticate runs the USER_PASSWORD_AUTH flow. A pending challenge is
// reported as incorrect credentials since the API has no way to answer it.
func (p *Provider) Authenticate(ctx context.Context, email, password string) (identity.Tokens, error) {
	ctx, cancel := p.bounded(ctx)
	defer cancel()

	email = identity.NormalizeEmail(email)
	params := map[string]string{"USERNAME": email, "PASSWORD": password}
	if h := p.secretHash(email); h != nil {
		params["SECRET_HASH"] = *h
	}

	out, err := p.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(p.clientID),
		AuthParameters: params,
	})
	if err != nil {
		return identity.Tokens{}, translate(err, opAuthenticate)
	}
	res := out.AuthenticationResult
	if res == nil {
		p.logger.Warn("Sign-in returned a challenge", zap.String("email", email),
			zap.String("challenge", string(out.ChallengeName)))
		return identity.Tokens{}, shared.ErrIncorrectCredentials
	}
	return identity.Tokens{
		AccessToken:  aws.ToString(res.AccessToken),
		IDToken:      aws.ToString(res.IdToken),
		RefreshToken: aws.ToString(res.RefreshToken),
		ExpiresIn:    res.ExpiresIn,
	}, nil
}

// InitiatePasswordReset asks Cognito to deliver a reset code
func (p *Provider) InitiatePasswordReset(ctx context.Context, email string) error {
	ctx, cancel := p.bounded(ctx)
	defer cancel()

	email = identity.NormalizeEmail(email)
	_, err := p.api.ForgotPassword(ctx, &cip.ForgotPasswordInput{
		ClientId:   aws.String(p.clientID),
		Username:   aws.String(email),
		SecretHash: p.secretHash(email),
	})
	return translate(err, opReset)
}

// ConfirmPasswordReset sets the new password
func (p *Provider) ConfirmPasswordReset(ctx context.Context, email, newPassword, code string) error {
	ctx, cancel := p.bounded(ctx)
	defer cancel()

	email = identity.NormalizeEmail(email)
	_, err := p.api.ConfirmForgotPassword(ctx, &cip.ConfirmForgotPasswordInput{
		ClientId:         aws.String(p.clientID),
		Username:         aws.String(email),
		Password:         aws.String(newPassword),
		ConfirmationCode: aws.String(code),
		SecretHash:       p.secretHash(email),
	})
	return translate(err, opReset)
}

// DeleteIdentity removes the pool user. Cognito accepts either the email
// alias or the subject as username.
func (p *Provider) DeleteIdentity(ctx context.Context, email, subject string) error {
	ctx, cancel := p.bounded(ctx)
	defer cancel()

	username := subject
	if username == "" {
		username = identity.NormalizeEmail(email)
	}
	_, err := p.api.AdminDeleteUser(ctx, &cip.AdminDeleteUserInput{
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(username),
	})
	return translate(err, opAdmin)
}

// SignOut invalidates every refresh token of the user
func (p *Provider) SignOut(ctx context.Context, email string) error {
	ctx, cancel := p.bounded(ctx)
	defer cancel()

	_, err := p.api.AdminUserGlobalSignOut(ctx, &cip.AdminUserGlobalSignOutInput{
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(identity.NormalizeEmail(email)),
	})
	return translate(err, opAdmin)
}

// isDeadline reports a timeout of the bounded context
func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
