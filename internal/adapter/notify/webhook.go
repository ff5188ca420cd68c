package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"docpipe/internal/domain"
)

// WebhookNotifier posts pipeline notifications as JSON to an HTTP endpoint.
// Separate success and failure endpoints may be configured; when one is
// unset, the main URL receives everything.
type WebhookNotifier struct {
	url        string
	successURL string
	failureURL string
	client     *http.Client
}

func NewWebhookNotifier(url, successURL, failureURL string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		url:        url,
		successURL: successURL,
		failureURL: failureURL,
		client:     &http.Client{Timeout: timeout},
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, msg domain.Notification) error {
	targets := []string{n.url}
	switch msg.Status {
	case domain.StatusSuccess:
		if n.successURL != "" {
			targets = append(targets, n.successURL)
		}
	case domain.StatusFailed:
		if n.failureURL != "" {
			targets = append(targets, n.failureURL)
		}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	for _, target := range targets {
		if target == "" {
			continue
		}
		if err := n.post(ctx, target, data); err != nil {
			return err
		}
	}
	return nil
}

func (n *WebhookNotifier) post(ctx context.Context, url string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notification request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
