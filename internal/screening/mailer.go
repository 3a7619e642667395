package screening

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const shortlistSubject = "Congratulations! You have been shortlisted"

const shortlistBody = `Dear %s,

Congratulations! Your resume has been shortlisted for the next round of our hiring process.

Our HR team will contact you shortly with the interview details.

Best regards,
HR Team`

// MailerConfig holds the SMTP settings for candidate notifications.
type MailerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends shortlist notifications over SMTP with implicit TLS.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewMailer builds a mailer. Port defaults to 465, the sender defaults to the
// SMTP username.
func NewMailer(cfg MailerConfig, logger *zap.Logger) (*Mailer, error) {
	if cfg.Host == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("smtp host, username and password are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.Port == 465

	return &Mailer{dialer: dialer, from: cfg.From, logger: logger}, nil
}

// NotifyShortlisted emails one candidate that they made the shortlist.
func (m *Mailer) NotifyShortlisted(ctx context.Context, email, candidateName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if candidateName == "" {
		candidateName = "Candidate"
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", shortlistSubject)
	msg.SetBody("text/plain", fmt.Sprintf(shortlistBody, candidateName))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending notification to %q: %w", email, err)
	}

	m.logger.Info("shortlist notification sent", zap.String("email", email))
	return nil
}
