package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"sauti-jamii/internal/config"
)

type Service interface {
	SendNotificationEmail(ctx context.Context, toEmail, recipientName, title, body string) error
}

type service struct {
	client *resend.Client
	config *config.Config
	tmpl   *template.Template
}

const notificationTemplate = `
<div style="font-family: sans-serif; max-width: 560px; margin: 0 auto;">
  <h2 style="color: #1a7f37;">{{.Title}}</h2>
  <p>Hello {{.Name}},</p>
  <p>{{.Body}}</p>
  <p>
    <a href="https://{{.Domain}}/notifications" style="color: #1a7f37;">View it on Sauti Jamii</a>
  </p>
  <p style="color: #6b7280; font-size: 12px;">
    You are receiving this because email notifications are enabled in your preferences.
  </p>
</div>`

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
		tmpl:   template.Must(template.New("notification").Parse(notificationTemplate)),
	}
}

func (s *service) SendNotificationEmail(ctx context.Context, toEmail, recipientName, title, body string) error {
	data := struct {
		Title  string
		Name   string
		Body   string
		Domain string
	}{
		Title:  title,
		Name:   recipientName,
		Body:   body,
		Domain: s.config.Domain,
	}

	var html bytes.Buffer
	if err := s.tmpl.Execute(&html, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Sauti Jamii <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    html.String(),
		Subject: title,
	}

	_, err := s.client.Emails.Send(params)
	return err
}
