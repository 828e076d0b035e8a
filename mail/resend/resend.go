package resend

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pure-golang/mailto/mail"
)

var tracer = otel.Tracer("github.com/pure-golang/mailto/mail/resend")

var _ mail.Sender = (*Sender)(nil)

// Config holds Resend API settings.
type Config struct {
	APIKey  string `envconfig:"RESEND_API_KEY"`
	BaseURL string `envconfig:"RESEND_BASE_URL"` // override for self-hosted proxies and tests
}

// Sender implements mail.Sender using the Resend HTTP API.
type Sender struct {
	mx     sync.Mutex
	client *resend.Client
	logger *slog.Logger
	closed bool
}

type SenderOptions struct {
	Logger *slog.Logger
}

// NewSender creates a new Resend sender. An empty API key is a configuration error.
func NewSender(cfg Config, options *SenderOptions) (*Sender, error) {
	if cfg.APIKey == "" {
		return nil, mail.NotConfigured("RESEND_API_KEY must be set in the environment.")
	}

	client := resend.NewClient(cfg.APIKey)
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "invalid RESEND_BASE_URL")
		}
		client.BaseURL = u
	}

	s := &Sender{
		client: client,
		logger: slog.Default(),
	}
	if options != nil && options.Logger != nil {
		s.logger = options.Logger
	}
	s.logger = s.logger.WithGroup("resend")

	return s, nil
}

// Send submits every email as a separate API call and stops at the first failure.
func (s *Sender) Send(ctx context.Context, emails ...mail.Email) error {
	s.mx.Lock()
	closed := s.closed
	s.mx.Unlock()
	if closed {
		return errors.New("sender is closed")
	}

	for _, email := range emails {
		if err := s.send(ctx, email); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sender) send(ctx context.Context, email mail.Email) error {
	ctx, span := tracer.Start(ctx, "Resend.Send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("resend.subject", email.Subject),
		attribute.Int("resend.to_count", len(email.To)),
	)

	from := email.From.Address
	if email.From.Name != "" {
		from = email.From.Name + " <" + email.From.Address + ">"
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      mail.Addresses(email.To),
		Cc:      mail.Addresses(email.Cc),
		Bcc:     mail.Addresses(email.Bcc),
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Body,
		Headers: email.Headers,
	}

	resp, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return errors.Wrap(err, "resend: failed to send email")
	}

	span.SetAttributes(attribute.String("resend.id", resp.Id))
	span.SetStatus(codes.Ok, "")
	s.logger.DebugContext(ctx, "email accepted", "id", resp.Id)
	return nil
}

// Close marks the sender closed; the HTTP client holds no dedicated resources.
func (s *Sender) Close() error {
	s.mx.Lock()
	defer s.mx.Unlock()

	s.closed = true
	return nil
}
