package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	netmail "net/mail"
)

const postmarkURL = "https://api.postmarkapp.com/email"

// PostmarkSender delivers mail through the Postmark HTTP API
type PostmarkSender struct {
	serverToken string
	from        string
	httpClient  *http.Client
}

type PostmarkOption func(*PostmarkSender)

func WithHTTPClient(c *http.Client) PostmarkOption {
	return func(p *PostmarkSender) {
		p.httpClient = c
	}
}

func NewPostmarkSender(serverToken, fromName, fromEmail string, opts ...PostmarkOption) *PostmarkSender {
	from := (&netmail.Address{Name: fromName, Address: fromEmail}).String()
	p := &PostmarkSender{
		serverToken: serverToken,
		from:        from,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Configured returns true if the server token is set.
func (p *PostmarkSender) Configured() bool {
	return p.serverToken != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

func (p *PostmarkSender) Send(ctx context.Context, msg Message) error {
	if !p.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(postmarkEmail{
		From:     p.from,
		To:       msg.To,
		Subject:  msg.Subject,
		HtmlBody: msg.HTML,
		TextBody: msg.Text,
	})
	if err != nil {
		return fmt.Errorf("%w: marshal email: %v", ErrPermanent, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, postmarkURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", p.serverToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		if resp.StatusCode < http.StatusInternalServerError {
			return fmt.Errorf("%w: postmark API error: status %d", ErrPermanent, resp.StatusCode)
		}
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}
	return nil
}
