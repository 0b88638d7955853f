package executor

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"retainly_backend/platform/config"
)

// EmailClient delivers action emails over the configured SMTP server.
type EmailClient struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

func NewEmailClient(cfg config.EmailConfig) *EmailClient {
	if !cfg.IsEmailEnabled() {
		return nil
	}

	return &EmailClient{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (c *EmailClient) Deliver(ctx context.Context, entityID string, action Action) (string, error) {
	toEmail := action.Parameters["email"]
	if toEmail == "" {
		return "", fmt.Errorf("entity %s has no email address", entityID)
	}

	subject := action.Parameters["subject"]
	if subject == "" {
		subject = "A message from our team"
	}
	body := action.Parameters["body"]

	msg := gomail.NewMsg()
	if err := msg.FromFormat(c.fromName, c.fromEmail); err != nil {
		return "", fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return "", fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, body)

	client, err := gomail.NewClient(c.host,
		gomail.WithPort(c.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(c.username),
		gomail.WithPassword(c.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return "email sent to " + toEmail, nil
}
