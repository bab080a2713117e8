// Package contact handles the public contact form.
package contact

import (
	"context"
	"time"

	"github.com/eightysix/analytics/internal/domain/contact"
	"go.uber.org/zap"
)

// SubmitRequest is a contact form submission
type SubmitRequest struct {
	Email   string `json:"email" binding:"required,email,max=255"`
	Name    string `json:"name" binding:"required,max=255"`
	Message string `json:"message" binding:"required,max=5000"`
}

// ContactService stores contact applications and notifies the sales inbox
type ContactService struct {
	repo        contact.ApplicationRepository
	mailer      contact.Mailer
	recipient   string
	mailTimeout time.Duration
	logger      *zap.Logger
}

// NewContactService creates a new ContactService. recipient receives the
// notification mail; an empty recipient disables it.
func NewContactService(repo contact.ApplicationRepository, mailer contact.Mailer, recipient string, mailTimeout time.Duration, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{
		repo:        repo,
		mailer:      mailer,
		recipient:   recipient,
		mailTimeout: mailTimeout,
		logger:      logger,
	}
}

// Submit stores the application, then mails it. A mail failure is logged and
// does not fail the submission.
func (s *ContactService) Submit(ctx context.Context, req SubmitRequest) error {
	app, err := contact.NewApplication(req.Email, req.Name, req.Message)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return err
	}

	if s.recipient == "" {
		return nil
	}

	mailCtx := ctx
	if s.mailTimeout > 0 {
		var cancel context.CancelFunc
		mailCtx, cancel = context.WithTimeout(ctx, s.mailTimeout)
		defer cancel()
	}
	err = s.mailer.Send(mailCtx, s.recipient, contact.TemplateContactEmail, map[string]any{
		"email":   app.Email,
		"name":    app.Name,
		"message": app.Message,
	})
	if err != nil {
		s.logger.Error("Failed to send contact email",
			zap.Int64("application_id", app.ID),
			zap.Error(err))
	}
	return nil
}
