package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rewriteTransport sends every request to target instead of the real API.
type rewriteTransport struct {
	base   http.RoundTripper
	target string
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	u, err := url.Parse(t.target)
	if err != nil {
		return nil, err
	}
	req.URL.Scheme = u.Scheme
	req.URL.Host = u.Host
	return t.base.RoundTrip(req)
}

func TestPostmarkSend(t *testing.T) {
	var received postmarkEmail
	var gotToken string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"MessageID": "test-id"}`))
	}))
	defer server.Close()

	p := NewPostmarkSender("test-token", "TrackIt", "noreply@example.com",
		WithHTTPClient(&http.Client{Transport: &rewriteTransport{base: http.DefaultTransport, target: server.URL}}))

	err := p.Send(context.Background(), Message{
		To:      "alice@example.com",
		Subject: "Reset Your Password",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	})
	require.NoError(t, err)

	assert.Equal(t, "test-token", gotToken)
	assert.Equal(t, "alice@example.com", received.To)
	assert.Equal(t, `"TrackIt" <noreply@example.com>`, received.From)
	assert.Equal(t, "Reset Your Password", received.Subject)
	assert.Equal(t, "<p>hi</p>", received.HtmlBody)
}

func TestPostmarkAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	p := NewPostmarkSender("test-token", "TrackIt", "noreply@example.com",
		WithHTTPClient(&http.Client{Transport: &rewriteTransport{base: http.DefaultTransport, target: server.URL}}))

	err := p.Send(context.Background(), Message{To: "alice@example.com", Subject: "x"})
	assert.ErrorContains(t, err, "status 422")
	assert.ErrorIs(t, err, ErrPermanent)
}

func TestMailerRetriesOnlyServerErrors(t *testing.T) {
	for _, tc := range []struct {
		status int
		hits   int
	}{
		{http.StatusUnprocessableEntity, 1},
		{http.StatusServiceUnavailable, 3},
	} {
		hits := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.WriteHeader(tc.status)
		}))

		p := NewPostmarkSender("test-token", "TrackIt", "noreply@example.com",
			WithHTTPClient(&http.Client{Transport: &rewriteTransport{base: http.DefaultTransport, target: server.URL}}))
		m := NewMailer(p, WithBackoff(3, time.Millisecond))

		err := m.SendPasswordReset(context.Background(), "alice@example.com", "http://x")
		server.Close()

		assert.Error(t, err)
		assert.Equal(t, tc.hits, hits, "status %d", tc.status)
	}
}

func TestPostmarkNotConfigured(t *testing.T) {
	p := NewPostmarkSender("", "TrackIt", "noreply@example.com")

	err := p.Send(context.Background(), Message{To: "alice@example.com"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
