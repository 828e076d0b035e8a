package smtp

import (
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/pure-golang/mailto/mail"
)

var tracer = otel.Tracer("github.com/pure-golang/mailto/mail/smtp")

// Config contains SMTP connection parameters.
// Values are kept as strings so that blank entries load cleanly;
// they are checked when the sender is built, not when the config is loaded.
type Config struct {
	Host     string `envconfig:"SMTP_HOST"`     // smtp.gmail.com
	Port     string `envconfig:"SMTP_PORT"`     // 587 for STARTTLS, 465 for implicit TLS
	Secure   string `envconfig:"SMTP_SECURE"`   // "true" for implicit TLS; unset means port == 465
	Username string `envconfig:"SMTP_USER"`     // username or email
	Password string `envconfig:"SMTP_PASS"`     // password or app password
	Insecure string `envconfig:"SMTP_INSECURE"` // "true" skips certificate verification
}

// PortNumber returns the parsed port, or 0 when it is blank or not a valid port.
func (c Config) PortNumber() int {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p <= 0 || p > 65535 {
		return 0
	}
	return p
}

// ImplicitTLS reports whether the connection is wrapped in TLS from the first byte.
func (c Config) ImplicitTLS() bool {
	if c.Secure != "" {
		return c.Secure == "true"
	}
	return c.PortNumber() == 465
}

// HasAuth reports whether credentials are complete. Half-set credentials disable auth.
func (c Config) HasAuth() bool {
	return c.Username != "" && c.Password != ""
}

// SkipVerify reports whether certificate verification is disabled. Blank or unparsable means false.
func (c Config) SkipVerify() bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.Insecure))
	return err == nil && v
}

// Validate checks the settings every send needs.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" || strings.TrimSpace(c.Port) == "" {
		return mail.NotConfigured("SMTP_HOST and SMTP_PORT must be set in the environment.")
	}
	if c.PortNumber() == 0 {
		return mail.NotConfigured("SMTP_PORT must be a valid port number.")
	}
	return nil
}
