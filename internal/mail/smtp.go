package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig holds the account used to relay mail
type SMTPConfig struct {
	Host     string
	Port     int
	Username string // also the From address
	Password string
	FromName string
}

// SMTPSender delivers mail through an authenticated SMTP relay such as Gmail
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Configured returns true if an account is set.
func (s *SMTPSender) Configured() bool {
	return s.cfg.Host != "" && s.cfg.Username != ""
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	m, err := s.buildMessage(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPermanent, err)
	}

	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("%w: create smtp client: %v", ErrPermanent, err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return classifySendError(err)
	}
	return nil
}

func (s *SMTPSender) buildMessage(msg Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.FromFormat(s.cfg.FromName, s.cfg.Username); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("set to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	if msg.Text != "" {
		m.AddAlternativeString(gomail.TypeTextPlain, msg.Text)
	}
	return m, nil
}

// classifySendError marks sender and recipient rejections as permanent.
// Connection failures and temporary (4xx) replies stay retryable.
func classifySendError(err error) error {
	var sendErr *gomail.SendError
	if !errors.As(err, &sendErr) || sendErr.IsTemp() {
		return fmt.Errorf("send email: %w", err)
	}
	switch sendErr.Reason {
	case gomail.ErrGetSender, gomail.ErrGetRcpts, gomail.ErrSMTPMailFrom, gomail.ErrSMTPRcptTo:
		return fmt.Errorf("%w: send email: %w", ErrPermanent, err)
	}
	return fmt.Errorf("send email: %w", err)
}
