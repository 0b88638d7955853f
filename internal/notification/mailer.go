package notification

import (
	"context"
	"fmt"
	"html"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"retainly_backend/internal/events"
	"retainly_backend/platform/config"
)

// Mailer sends operator notifications over the configured SMTP server.
type Mailer struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewMailer creates an SMTP mailer, or nil when email is not configured.
func NewMailer(cfg config.EmailConfig) *Mailer {
	if !cfg.IsEmailEnabled() {
		return nil
	}

	return &Mailer{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

// SendInterventionPendingEmail notifies an operator that a gated action is
// waiting for a decision.
func (m *Mailer) SendInterventionPendingEmail(ctx context.Context, toEmail string, ev events.InterventionCreated) error {
	if m == nil {
		return nil
	}

	subject := fmt.Sprintf("Action awaiting approval: %s for %s", ev.ActionType, ev.EntityID)
	body := fmt.Sprintf(
		"<p>A proposed action needs your review.</p>"+
			"<ul>"+
			"<li>Entity: %s</li>"+
			"<li>Action: %s</li>"+
			"<li>Channel: %s</li>"+
			"<li>Entity value: %.2f</li>"+
			"</ul>"+
			"<p>Intervention id: %s</p>",
		html.EscapeString(ev.EntityID),
		html.EscapeString(ev.ActionType),
		html.EscapeString(ev.Channel),
		ev.EntityValue,
		ev.InterventionID,
	)

	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, body)

	client, err := gomail.NewClient(m.host,
		gomail.WithPort(m.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.username),
		gomail.WithPassword(m.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
