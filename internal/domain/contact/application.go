// Package contact holds the public contact form and the outbound mail contract.
package contact

import (
	"context"
	"strings"
	"time"

	"github.com/eightysix/analytics/internal/domain/shared"
)

// Application is a message left through the public contact form.
type Application struct {
	ID        int64
	Email     string
	Name      string
	Message   string
	CreatedAt time.Time
}

// NewApplication creates a contact form submission
func NewApplication(email, name, message string) (*Application, error) {
	a := &Application{
		Email:     strings.TrimSpace(email),
		Name:      strings.TrimSpace(name),
		Message:   strings.TrimSpace(message),
		CreatedAt: time.Now(),
	}
	verr := shared.NewValidationError()
	if a.Email == "" {
		verr.Add("email", "Please, fill email")
	}
	if a.Name == "" {
		verr.Add("name", "Please, fill name")
	}
	if a.Message == "" {
		verr.Add("message", "Please, fill message")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return a, nil
}

// ApplicationRepository stores contact form submissions
type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
}

// Template names a mail layout known to the mailer.
type Template string

const (
	TemplateContactEmail     Template = "CONTACT_EMAIL"
	TemplateVerificationCode Template = "VERIFICATION_CODE"
	TemplatePasswordReset    Template = "PASSWORD_RESET"
)

// Mailer renders a template with data and delivers it to one recipient.
type Mailer interface {
	Send(ctx context.Context, to string, template Template, data map[string]any) error
}
