package alert

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	requestTimeout = 5 * time.Second
	maxRetries     = 3
)

// WebhookNotifier posts alerts to a webhook endpoint, retrying on 5xx and
// connection errors.
type WebhookNotifier struct {
	cfg    WebhookConfig
	client *retryablehttp.Client
}

func NewWebhookNotifier(cfg WebhookConfig) *WebhookNotifier {
	client := retryablehttp.NewClient()
	client.RetryMax = maxRetries
	client.HTTPClient.Timeout = requestTimeout
	client.Logger = nil

	return &WebhookNotifier{cfg: cfg, client: client}
}

func (w *WebhookNotifier) Send(ctx context.Context, msg domain.AlertMessage) error {
	body, err := FormatPayload(w.cfg.Format, msg)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
