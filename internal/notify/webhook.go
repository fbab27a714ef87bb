package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultWebhookTimeout = 5 * time.Second

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// WebhookNotifier POSTs each summary as JSON.
type WebhookNotifier struct {
	url     string
	client  httpDoer
	timeout time.Duration
}

type webhookPayload struct {
	Event   string  `json:"event"`
	Subject string  `json:"subject"`
	Message string  `json:"message"`
	Summary Summary `json:"summary"`
}

// NewWebhookNotifier builds a notifier posting to url. A nil client uses a default one.
func NewWebhookNotifier(url string, client httpDoer, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &WebhookNotifier{url: url, client: client, timeout: timeout}
}

// Notify sends one request. Non-2xx responses are errors.
func (n *WebhookNotifier) Notify(ctx context.Context, s Summary) error {
	body, err := json.Marshal(webhookPayload{
		Event:   "settlement",
		Subject: Subject(s),
		Message: FormatMessage(s),
		Summary: s,
	})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
