package smtp

import (
	"context"
	"crypto/tls"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/gomail.v2"

	"github.com/pure-golang/mailto/mail"
)

var _ mail.Sender = (*Sender)(nil)

// Sender implements mail.Sender on top of a gomail dialer.
// A connection is opened per Send and closed afterwards.
type Sender struct {
	mx     sync.Mutex
	cfg    Config
	dialer *gomail.Dialer
	logger *slog.Logger
	closed bool
}

// SenderOptions contains options for creating a Sender.
type SenderOptions struct {
	Logger *slog.Logger
}

// NewSender validates cfg and creates a new SMTP Sender.
func NewSender(cfg Config, options *SenderOptions) (*Sender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dialer := &gomail.Dialer{
		Host: cfg.Host,
		Port: cfg.PortNumber(),
		SSL:  cfg.ImplicitTLS(),
	}
	if cfg.HasAuth() {
		dialer.Username = cfg.Username
		dialer.Password = cfg.Password
	}
	if cfg.SkipVerify() {
		dialer.TLSConfig = &tls.Config{
			ServerName:         cfg.Host,
			InsecureSkipVerify: true, // #nosec G402 -- controlled by config, user's responsibility
		}
	}

	s := &Sender{
		cfg:    cfg,
		dialer: dialer,
		logger: slog.Default(),
	}
	if options != nil && options.Logger != nil {
		s.logger = options.Logger
	}
	s.logger = s.logger.WithGroup("smtp").With("host", cfg.Host, "port", dialer.Port)
	s.logger.Info("smtp sender created", "implicit_tls", dialer.SSL, "auth", cfg.HasAuth())

	return s, nil
}

// Send sends one or more emails over a single connection.
func (s *Sender) Send(ctx context.Context, emails ...mail.Email) error {
	ctx, span := tracer.Start(ctx, "SMTP.Send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("smtp.host", s.cfg.Host),
		attribute.Int("smtp.port", s.dialer.Port),
		attribute.Bool("smtp.implicit_tls", s.dialer.SSL),
		attribute.Int("smtp.email_count", len(emails)),
	)

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, "context canceled")
		return err
	}

	messages := make([]*gomail.Message, 0, len(emails))
	for _, email := range emails {
		msg, err := buildMessage(email)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		messages = append(messages, msg)
	}

	// gomail.Dialer picks an auth mechanism on first dial and stores it.
	s.mx.Lock()
	defer s.mx.Unlock()

	if s.closed {
		span.SetStatus(codes.Error, "sender is closed")
		return errors.New("sender is closed")
	}

	if err := s.dialer.DialAndSend(messages...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "smtp send failed", "error", err)
		return errors.Wrap(err, "failed to send email")
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func buildMessage(email mail.Email) (*gomail.Message, error) {
	if email.From.Address == "" {
		return nil, errors.New("no from address specified")
	}
	if len(email.To)+len(email.Cc)+len(email.Bcc) == 0 {
		return nil, errors.New("no recipients specified")
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", email.From.Address, email.From.Name)
	setAddressList(msg, "To", email.To)
	setAddressList(msg, "Cc", email.Cc)
	setAddressList(msg, "Bcc", email.Bcc)
	msg.SetHeader("Subject", email.Subject)
	for k, v := range email.Headers {
		msg.SetHeader(k, v)
	}

	switch {
	case email.HTML != "" && email.Body != "":
		msg.SetBody("text/plain", email.Body)
		msg.AddAlternative("text/html", email.HTML)
	case email.HTML != "":
		msg.SetBody("text/html", email.HTML)
	default:
		msg.SetBody("text/plain", email.Body)
	}

	return msg, nil
}

func setAddressList(msg *gomail.Message, field string, addrs []mail.Address) {
	if len(addrs) == 0 {
		return
	}
	formatted := make([]string, len(addrs))
	for i, addr := range addrs {
		formatted[i] = msg.FormatAddress(addr.Address, addr.Name)
	}
	msg.SetHeader(field, formatted...)
}

// Close closes the sender.
func (s *Sender) Close() error {
	s.mx.Lock()
	defer s.mx.Unlock()

	s.closed = true
	return nil
}
