package provider

import (
	"fmt"
	"log/slog"

	"github.com/pure-golang/mailto/mail"
	"github.com/pure-golang/mailto/mail/noop"
	"github.com/pure-golang/mailto/mail/resend"
	"github.com/pure-golang/mailto/mail/smtp"
)

// Config groups the settings of every transport. Each part is loaded separately.
type Config struct {
	Mail   mail.Config
	SMTP   smtp.Config
	Resend resend.Config
}

// From returns the sender identity: MAIL_FROM, else SMTP_USER. Empty means unset.
func (c Config) From() string {
	if c.Mail.From != "" {
		return c.Mail.From
	}
	return c.SMTP.Username
}

// New builds the transport selected by MAIL_PROVIDER.
// Missing settings produce errors matching mail.ErrNotConfigured.
func New(cfg Config, log *slog.Logger) (mail.Sender, error) {
	if log == nil {
		log = slog.Default()
	}

	switch cfg.Mail.Provider {
	case mail.ProviderSMTP, "":
		s, err := smtp.NewSender(cfg.SMTP, &smtp.SenderOptions{Logger: log})
		if err != nil {
			return nil, err
		}
		return s, nil
	case mail.ProviderResend:
		s, err := resend.NewSender(cfg.Resend, &resend.SenderOptions{Logger: log})
		if err != nil {
			return nil, err
		}
		return s, nil
	case mail.ProviderNoop:
		return noop.NewSender(&noop.SenderOptions{Logger: log}), nil
	default:
		return nil, mail.NotConfigured(fmt.Sprintf("unknown mail provider %q", cfg.Mail.Provider))
	}
}
