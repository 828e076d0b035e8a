// Package dispatch composes one outbound message per call and hands it to the
// mail transport. There is no queue and no retry: a failed send is reported
// to the caller as is.
package dispatch

import (
	"context"
	"html"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/pure-golang/mailto/apperr"
	"github.com/pure-golang/mailto/logger"
	"github.com/pure-golang/mailto/mail"
	"github.com/pure-golang/mailto/template"
	"github.com/pure-golang/mailto/validation"
)

// DefaultSubject is used when the request carries no subject.
const DefaultSubject = "MailTo HTML Email"

const (
	MsgRecipientRequired   = "Recipient email (to) is required."
	MsgTemplateUnavailable = "Failed to load template for sending."
	MsgSenderMissing       = "MAIL_FROM or SMTP_USER must be set to send email."
	MsgDeliveryFailed      = "Failed to send email"
)

var (
	meter = otel.GetMeterProvider().Meter("github.com/pure-golang/mailto/dispatch")
	// nolint:errcheck // Sync OpenTelemetry instruments never return errors
	sendCount, _ = meter.Int64Counter("mailto.send_count")
	tracer       = otel.Tracer("github.com/pure-golang/mailto/dispatch")
)

// Request is one send call. Subject and HTML are optional.
type Request struct {
	To      string `validate:"notblank"`
	Subject string
	HTML    string
}

// Receipt confirms that the transport accepted the message.
type Receipt struct {
	To        string
	MessageID string
	Source    Source
}

// Message is the confirmation shown to the caller.
func (r *Receipt) Message() string {
	return "Email sent to " + r.To
}

// TransportFactory builds the mail transport. It is called until it succeeds.
type TransportFactory func() (mail.Sender, error)

// Service sends emails through a lazily built transport.
type Service struct {
	reader  template.Reader
	from    string
	factory TransportFactory
	logger  *slog.Logger
	text    *bluemonday.Policy

	mx        sync.Mutex
	transport mail.Sender
}

type ServiceOptions struct {
	Logger *slog.Logger
}

// NewService creates a Service. from is the sender identity; empty means unset
// and fails every send with a configuration error.
func NewService(reader template.Reader, from string, factory TransportFactory, opts *ServiceOptions) *Service {
	if opts == nil {
		opts = &ServiceOptions{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Service{
		reader:  reader,
		from:    from,
		factory: factory,
		logger:  opts.Logger.WithGroup("dispatch"),
		text:    bluemonday.StrictPolicy(),
	}
}

// Send validates req, resolves subject and body and submits the message once.
func (s *Service) Send(ctx context.Context, req Request) (*Receipt, error) {
	ctx, span := tracer.Start(ctx, "Dispatch.Send")
	defer span.End()

	receipt, err := s.send(ctx, req)
	outcome := "sent"
	if err != nil {
		outcome = "error"
		if kind := apperr.KindOf(err); kind != "" {
			outcome = strings.ToLower(string(kind))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.String("mail.body_source", receipt.Source.String()))
		span.SetStatus(codes.Ok, "")
	}
	sendCount.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))

	return receipt, err
}

func (s *Service) send(ctx context.Context, req Request) (*Receipt, error) {
	if err := validation.Struct(req); err != nil {
		return nil, apperr.Validation(MsgRecipientRequired)
	}
	to := strings.TrimSpace(req.To)

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = DefaultSubject
	}

	res := ResolveBody(ctx, req.HTML, s.reader)
	if res.Source == SourceUnavailable {
		return nil, apperr.TemplateUnavailable(MsgTemplateUnavailable, res.Err)
	}

	if s.from == "" {
		return nil, apperr.Configuration(MsgSenderMissing, nil)
	}

	transport, err := s.getTransport()
	if err != nil {
		if errors.Is(err, mail.ErrNotConfigured) {
			return nil, apperr.Configuration(MsgDeliveryFailed, err)
		}
		return nil, apperr.Delivery(MsgDeliveryFailed, err)
	}

	messageID := uuid.NewString()
	email := mail.Email{
		From:    mail.Address{Address: s.from},
		To:      []mail.Address{{Address: to}},
		Subject: subject,
		Headers: map[string]string{"X-Message-Id": messageID},
		Body:    s.plainText(res.Body),
		HTML:    res.Body,
	}

	log := logger.FromContext(ctx).With("to", to, "message_id", messageID, "body_source", res.Source.String())
	if err := transport.Send(ctx, email); err != nil {
		log.With("error", err.Error()).Warn("email delivery failed")
		return nil, apperr.Delivery(MsgDeliveryFailed, errors.Cause(err))
	}

	log.Info("email sent")
	return &Receipt{To: to, MessageID: messageID, Source: res.Source}, nil
}

// getTransport returns the transport, building it on first use.
// A failed build is not remembered.
func (s *Service) getTransport() (mail.Sender, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	if s.transport != nil {
		return s.transport, nil
	}

	transport, err := s.factory()
	if err != nil {
		return nil, err
	}
	s.transport = transport
	s.logger.Info("mail transport initialized")
	return transport, nil
}

// plainText derives the text/plain alternative from the html body.
func (s *Service) plainText(body string) string {
	text := html.UnescapeString(s.text.Sanitize(body))
	return strings.Join(strings.Fields(text), " ")
}

// Close releases the transport, if one was built.
func (s *Service) Close() error {
	s.mx.Lock()
	defer s.mx.Unlock()

	if s.transport == nil {
		return nil
	}
	err := s.transport.Close()
	s.transport = nil
	return errors.Wrap(err, "failed to close mail transport")
}
