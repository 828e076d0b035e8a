package noop

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/pure-golang/mailto/mail"
)

var _ mail.Sender = (*Sender)(nil)

// Sender discards emails and remembers them for inspection.
type Sender struct {
	mx     sync.Mutex
	logger *slog.Logger
	sent   []mail.Email
	closed bool
}

type SenderOptions struct {
	Logger *slog.Logger
}

// NewSender creates a new no-op Sender.
func NewSender(options *SenderOptions) *Sender {
	s := &Sender{
		logger: slog.Default(),
	}
	if options != nil && options.Logger != nil {
		s.logger = options.Logger
	}
	s.logger = s.logger.WithGroup("mail").With("provider", mail.ProviderNoop)
	return s
}

// Send records emails instead of delivering them.
func (n *Sender) Send(ctx context.Context, emails ...mail.Email) error {
	n.mx.Lock()
	defer n.mx.Unlock()

	if n.closed {
		return errors.New("sender is closed")
	}
	for _, email := range emails {
		n.logger.DebugContext(ctx, "email discarded",
			"to", mail.Addresses(email.To),
			"subject", email.Subject,
		)
		n.sent = append(n.sent, email)
	}
	return nil
}

// Sent returns a copy of every email accepted so far.
func (n *Sender) Sent() []mail.Email {
	n.mx.Lock()
	defer n.mx.Unlock()

	out := make([]mail.Email, len(n.sent))
	copy(out, n.sent)
	return out
}

// Close is idempotent.
func (n *Sender) Close() error {
	n.mx.Lock()
	defer n.mx.Unlock()

	n.closed = true
	return nil
}
