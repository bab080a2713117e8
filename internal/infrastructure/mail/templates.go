// Package mail renders the outbound mail templates and delivers them over SMTP.
package mail

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/eightysix/analytics/internal/domain/contact"
)

type layout struct {
	subject string
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

const htmlShell = `<!DOCTYPE html>
<html><body style="font-family:Helvetica,Arial,sans-serif;color:#222">
<h2 style="color:#0b6e4f">EightySix Analytics</h2>
{{template "content" .}}
<p style="color:#888;font-size:12px">This is an automated message.</p>
</body></html>`

func newLayout(subject, text, html string) layout {
	h := htmltemplate.Must(htmltemplate.New("shell").Parse(htmlShell))
	htmltemplate.Must(h.New("content").Parse(html))
	return layout{
		subject: subject,
		text:    texttemplate.Must(texttemplate.New("text").Parse(text)),
		html:    h,
	}
}

var layouts = map[contact.Template]layout{
	contact.TemplateContactEmail: newLayout(
		"Customer application at EightySix Analytics",
		"{{.name}} ({{.email}}), has sent the message:\n{{.message}}",
		`<p><strong>{{.name}}</strong> ({{.email}}) has sent the message:</p><p style="white-space:pre-wrap">{{.message}}</p>`,
	),
	contact.TemplateVerificationCode: newLayout(
		"Your EightySix Analytics verification code",
		"Hello {{.name}},\nYour verification code is {{.code}}",
		`<p>Hello {{.name}},</p><p>Your verification code is <strong>{{.code}}</strong></p>`,
	),
	contact.TemplatePasswordReset: newLayout(
		"Reset your EightySix Analytics password",
		"Your password reset code is {{.code}}",
		`<p>Your password reset code is <strong>{{.code}}</strong></p>`,
	),
}

type rendered struct {
	subject string
	text    string
	html    string
}

func render(tpl contact.Template, data map[string]any) (rendered, error) {
	l, ok := layouts[tpl]
	if !ok {
		return rendered{}, &UnknownTemplateError{Template: tpl}
	}

	var text, html strings.Builder
	if err := l.text.Execute(&text, data); err != nil {
		return rendered{}, err
	}
	if err := l.html.ExecuteTemplate(&html, "shell", data); err != nil {
		return rendered{}, err
	}
	return rendered{subject: l.subject, text: text.String(), html: html.String()}, nil
}

// UnknownTemplateError reports a template the mailer has no layout for
type UnknownTemplateError struct {
	Template contact.Template
}

func (e *UnknownTemplateError) Error() string {
	return "unknown mail template " + string(e.Template)
}
