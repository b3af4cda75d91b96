// Package mailer delivers outbound notifications. Delivery faults never
// escape its boundary: every send reports success with a boolean and logs
// the failure itself, so the sweep loop can isolate per-record failures.
//
// In simulate mode (the default outside production) messages are logged
// instead of delivered, which keeps local development mail-server free.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ghuser/paycontrol/pkg/config"
	"github.com/ghuser/paycontrol/pkg/logger"
	"github.com/ghuser/paycontrol/services/invoice/domain/models"
)

// Mailer sends invoice notifications over SMTP or logs them in simulate mode.
type Mailer struct {
	mode     string
	host     string
	port     int
	user     string
	password string
	from     string
	log      logger.Logger

	// send is swappable in tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New returns a Mailer configured from cfg.
func New(cfg *config.Config, log logger.Logger) *Mailer {
	return &Mailer{
		mode:     cfg.MailMode,
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
		log:      log,
		send:     smtp.SendMail,
	}
}

// SendInvoiceDueToday delivers a reminder that the invoice is due today.
// Returns false when delivery fails; the failure is logged, never returned.
func (m *Mailer) SendInvoiceDueToday(ctx context.Context, address string, invoice *models.Invoice) bool {
	subject := fmt.Sprintf("Due today: invoice %s", invoice.Label)
	body := fmt.Sprintf(
		"Hello,\n\nThis is a reminder that invoice %s for $%s is due today.\n\n"+
			"Please update its payment status before midnight to avoid it being marked overdue.\n\n"+
			"PayControl",
		invoice.Label, invoice.Amount.StringFixed(2),
	)

	if m.mode == config.MailModeSimulate {
		m.log.InfoContext(ctx, "simulated notification sent",
			"to", address,
			"subject", subject,
			"invoice_id", invoice.ID,
		)
		return true
	}

	if err := m.deliver(address, subject, body); err != nil {
		m.log.ErrorContext(ctx, "notification delivery failed",
			"to", address,
			"invoice_id", invoice.ID,
			"error", err,
		)
		return false
	}

	m.log.InfoContext(ctx, "notification sent",
		"to", address,
		"invoice_id", invoice.ID,
	)
	return true
}

func (m *Mailer) deliver(address, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + address,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := m.send(addr, auth, m.from, []string{address}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
