package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

// NewEmailService logs emails instead of sending them in development.
func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

// SignInURL is the link that redeems a sign-in token.
func (s *EmailService) SignInURL(token string) string {
	return fmt.Sprintf("%s/auth/token/%s", s.appURL, token)
}

func (s *EmailService) SendSignInEmail(ctx context.Context, email, token string, expiry time.Duration) error {
	signInURL := s.SignInURL(token)
	subject, body := signInEmailTemplate(signInURL, s.appName, expiry)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "sign_in", "to", email, "subject", subject, "url", signInURL)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", "sign_in", "to", email)
	}
	return err
}
