package pdfleaf

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rodrigonormandia/go-pdfleaf/webhook"
	"go.uber.org/zap"
)

// WebhookConfig describes a webhook to register.
type WebhookConfig struct {
	URL    string          `json:"url"` // must be https
	Events []webhook.Event `json:"events"`
}

// Validate checks the URL scheme and event names before any request is made.
func (w WebhookConfig) Validate() error {
	u, err := url.Parse(w.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhookURL, err)
	}
	if u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%w: %q (must be an https URL)", ErrInvalidWebhookURL, w.URL)
	}

	if len(w.Events) == 0 {
		return fmt.Errorf("%w: at least one event is required", ErrInvalidWebhookEvent)
	}
	for _, e := range w.Events {
		if !e.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidWebhookEvent, e)
		}
	}
	return nil
}

// Webhook is a registered callback. Secret is the key for webhook.Verify;
// the service only guarantees to return it from CreateWebhook.
type Webhook struct {
	ID        string          `json:"id"`
	URL       string          `json:"url"`
	Secret    string          `json:"secret"`
	Events    []webhook.Event `json:"events"`
	IsActive  bool            `json:"is_active"`
	CreatedAt string          `json:"created_at"`
}

// CreateWebhook registers a webhook and returns it with its secret.
func (c *Client) CreateWebhook(ctx context.Context, cfg WebhookConfig) (*Webhook, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var wh Webhook
	if err := c.doJSON(ctx, http.MethodPost, pathWebhooks, cfg, &wh); err != nil {
		return nil, err
	}

	c.logger.Debug("webhook created", zap.String("webhook_id", wh.ID))
	return &wh, nil
}

// ListWebhooks returns the account's webhooks.
func (c *Client) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	var hooks []Webhook
	if err := c.doJSON(ctx, http.MethodGet, pathWebhooks, nil, &hooks); err != nil {
		return nil, err
	}
	if hooks == nil {
		hooks = []Webhook{}
	}
	return hooks, nil
}

// DeleteWebhook removes a webhook by id.
func (c *Client) DeleteWebhook(ctx context.Context, id string) error {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, pathWebhooks+"/"+url.PathEscape(id), nil, &resp); err != nil {
		return err
	}

	c.logger.Debug("webhook deleted", zap.String("webhook_id", id), zap.String("message", resp.Message))
	return nil
}
