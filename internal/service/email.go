package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fittrack/fittrack/internal/markdown"
	"github.com/resend/resend-go/v2"
)

// Mailer sends the account emails triggered by registration.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, email, token, name string, expiry time.Duration) error
	SendWelcomeEmail(ctx context.Context, email, name string) error
	SendPasswordAddedEmail(ctx context.Context, email, name string) error
}

type EmailService struct {
	client    *resend.Client
	parser    *markdown.Parser
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		parser:    markdown.NewParser(),
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *EmailService) SendVerificationEmail(ctx context.Context, email, token, name string, expiry time.Duration) error {
	verifyURL := fmt.Sprintf("%s/api/auth/verify?token=%s", s.appURL, token)
	return s.send(ctx, "email_verify", email, emailVerify, emailData{
		Name:   name,
		URL:    verifyURL,
		Expiry: expiry.String(),
	})
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	return s.send(ctx, "welcome", email, emailWelcome, emailData{
		Name: name,
		URL:  s.appURL + "/dashboard",
	})
}

func (s *EmailService) SendPasswordAddedEmail(ctx context.Context, email, name string) error {
	return s.send(ctx, "password_added", email, emailPasswordAdded, emailData{Name: name})
}

func (s *EmailService) send(ctx context.Context, kind, to, template string, data emailData) error {
	data.AppName = s.appName

	msg, err := renderEmail(s.parser, template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s email: %w", kind, err)
	}

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", msg.Subject, "url", data.URL)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	_, err = s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	slog.Info("email sent", "type", kind, "to", to)
	return nil
}
