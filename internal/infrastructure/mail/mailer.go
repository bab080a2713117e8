package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/eightysix/analytics/internal/domain/contact"
	"github.com/eightysix/analytics/internal/infrastructure/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var (
	_ contact.Mailer = (*SMTPMailer)(nil)
	_ contact.Mailer = (*LogMailer)(nil)
)

// sender is satisfied by *gomail.Dialer
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer delivers templated mail through an SMTP relay
type SMTPMailer struct {
	sender  sender
	from    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewSMTPMailer creates a mailer from configuration
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPMailer{
		sender:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:    cfg.From,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Send renders the template and delivers it. gomail has no context support,
// so the send runs in a goroutine and is abandoned when ctx or the configured
// timeout ends first.
func (m *SMTPMailer) Send(ctx context.Context, to string, tpl contact.Template, data map[string]any) error {
	msg, err := m.message(to, tpl, data)
	if err != nil {
		return err
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() { done <- m.sender.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send %s mail: %w", tpl, err)
		}
		m.logger.Debug("Mail sent", zap.String("template", string(tpl)))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send %s mail: %w", tpl, ctx.Err())
	}
}

func (m *SMTPMailer) message(to string, tpl contact.Template, data map[string]any) (*gomail.Message, error) {
	r, err := render(tpl, data)
	if err != nil {
		return nil, err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", r.subject)
	msg.SetBody("text/plain", r.text)
	msg.AddAlternative("text/html", r.html)
	return msg, nil
}

// LogMailer renders mail and writes it to the log instead of sending it.
// Used when no SMTP host is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a LogMailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// Send implements contact.Mailer
func (m *LogMailer) Send(_ context.Context, to string, tpl contact.Template, data map[string]any) error {
	r, err := render(tpl, data)
	if err != nil {
		return err
	}
	m.logger.Info("Mail not sent, no SMTP host configured",
		zap.String("to", to),
		zap.String("subject", r.subject),
		zap.String("text", r.text))
	return nil
}
