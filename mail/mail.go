package mail

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

// ErrNotConfigured is returned by transport constructors when required settings are missing.
var ErrNotConfigured = errors.New("mail transport is not configured")

// Provider selects the transport implementation.
type Provider string

const (
	ProviderSMTP   Provider = "smtp"
	ProviderResend Provider = "resend"
	ProviderNoop   Provider = "noop" // for dev and tests
)

// Config contains transport-independent settings.
type Config struct {
	Provider Provider `envconfig:"MAIL_PROVIDER" default:"smtp"`
	From     string   `envconfig:"MAIL_FROM"`
}

// Sender hands composed emails off to a transport.
type Sender interface {
	Send(ctx context.Context, emails ...Email) error
	io.Closer
}

// Email represents an email message.
type Email struct {
	// Envelope
	From    Address
	To      []Address
	Cc      []Address
	Bcc     []Address
	Subject string

	// Headers
	Headers map[string]string

	// Body
	Body string // Plain text body
	HTML string // HTML body (optional)
}

// Address represents an email address.
type Address struct {
	Name    string // "John Doe"
	Address string // "john@example.com"
}

// Addresses returns bare addresses.
func Addresses(addrs []Address) []string {
	result := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		result = append(result, addr.Address)
	}
	return result
}

// ConfigError describes a missing transport setting. It matches ErrNotConfigured.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

func (e *ConfigError) Is(target error) bool { return target == ErrNotConfigured }

// NotConfigured returns a ConfigError with msg.
func NotConfigured(msg string) error {
	return &ConfigError{Msg: msg}
}
