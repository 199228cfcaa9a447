package mail

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/sethvargo/go-retry"
)

var (
	// ErrNotConfigured is returned by a Mailer that has no transport.
	ErrNotConfigured = errors.New("mail transport not configured")
	// ErrPermanent marks a failure that resending the same message cannot fix,
	// such as a malformed address or a 4xx from the mail API.
	ErrPermanent = errors.New("permanent delivery failure")
)

// Message is a single outgoing email
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers one message over some transport
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer composes the application's emails and hands them to a Sender
type Mailer struct {
	sender   Sender
	attempts uint64
	base     time.Duration
}

type Option func(*Mailer)

// WithBackoff sets the number of delivery attempts and the first retry delay.
func WithBackoff(attempts uint64, base time.Duration) Option {
	return func(m *Mailer) {
		m.attempts = attempts
		if base > 0 {
			m.base = base
		}
	}
}

// NewMailer builds a Mailer; a nil sender yields a Mailer that fails every send.
func NewMailer(sender Sender, opts ...Option) *Mailer {
	m := &Mailer{
		sender:   sender,
		attempts: 3,
		base:     500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Configured reports whether a transport is set.
func (m *Mailer) Configured() bool {
	return m != nil && m.sender != nil
}

// SendPasswordReset emails the reset link to the given address
func (m *Mailer) SendPasswordReset(ctx context.Context, to, link string) error {
	escaped := html.EscapeString(link)
	return m.send(ctx, Message{
		To:      to,
		Subject: "Reset Your Password",
		HTML:    fmt.Sprintf(`<p>Click below to reset your password:</p><a href="%s">%s</a>`, escaped, escaped),
		Text:    fmt.Sprintf("Click below to reset your password:\n\n%s\n", link),
	})
}

func (m *Mailer) send(ctx context.Context, msg Message) error {
	if !m.Configured() {
		return ErrNotConfigured
	}

	retries := uint64(0)
	if m.attempts > 1 {
		retries = m.attempts - 1
	}
	backoff := retry.WithMaxRetries(retries, retry.NewExponential(m.base))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := m.sender.Send(ctx, msg); err != nil {
			if errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrPermanent) {
				return err
			}
			return retry.RetryableError(err)
		}
		return nil
	})
}
