package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, email Email) error
}

type SendGridConfig struct {
	APIKey    string
	FromName  string
	FromEmail string
}

type SendGrid struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGrid(cfg SendGridConfig) (*SendGrid, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	if strings.TrimSpace(cfg.FromEmail) == "" {
		return nil, fmt.Errorf("sender email is required")
	}

	return &SendGrid{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
	}, nil
}

func (s *SendGrid) Send(ctx context.Context, email Email) error {
	if strings.TrimSpace(email.To) == "" {
		return fmt.Errorf("recipient is required")
	}

	message := mail.NewV3Mail()
	message.SetFrom(s.from)
	message.Subject = email.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(email.To, email.To))
	message.AddPersonalizations(p)

	if email.Text != "" {
		message.AddContent(mail.NewContent("text/plain", email.Text))
	}
	message.AddContent(mail.NewContent("text/html", email.HTML))

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them. Used when no API key is configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, email Email) error {
	s.log.Info("email_suppressed",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.Int("html_bytes", len(email.HTML)),
	)
	return nil
}
