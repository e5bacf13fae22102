// Package notify delivers organizer events as push notifications.
//
// The default implementation publishes to ntfy using the server and topic
// from the notifications config section and degrades to a no-op when
// notifications are disabled, so callers never need to guard their sends.
// Watch mode is the main consumer: it announces each automatic batch.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/0xmhha/folder-organizer/pkg/config"
	"github.com/0xmhha/folder-organizer/pkg/logger"
)

const userAgent = "folder-organizer/0.1.0"

// Notifier publishes user-facing notifications.
type Notifier interface {
	// Send publishes one notification. A nil error means the server
	// accepted it; callers treat failures as log-and-continue.
	Send(ctx context.Context, title, message string) error
}

// New builds a Notifier from the notification settings.
//
// Disabled or topic-less configurations get the no-op implementation.
func New(cfg config.NotificationConfig, log logger.Logger) Notifier {
	if log == nil {
		log = logger.Noop()
	}

	topic := strings.TrimSpace(cfg.Topic)
	if !cfg.Enabled || topic == "" {
		return noopNotifier{}
	}

	server := strings.TrimRight(strings.TrimSpace(cfg.Server), "/")
	if server == "" {
		server = "https://ntfy.sh"
	}

	return &ntfyNotifier{
		endpoint: server + "/" + topic,
		priority: cfg.Priority,
		tags:     cfg.Tags,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   log,
	}
}

// Noop returns a Notifier that discards everything.
func Noop() Notifier {
	return noopNotifier{}
}

// ntfyNotifier publishes to an ntfy topic over HTTP.
type ntfyNotifier struct {
	endpoint string
	priority string
	tags     string
	client   *http.Client
	logger   logger.Logger
}

// Send implements Notifier.Send.
func (n *ntfyNotifier) Send(ctx context.Context, title, message string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if title != "" {
		req.Header.Set("Title", title)
	}
	if n.tags != "" {
		req.Header.Set("Tags", n.tags)
	}
	// ntfy treats a missing header as default priority.
	if n.priority != "" && n.priority != "default" {
		req.Header.Set("Priority", n.priority)
	}

	n.logger.Debug("sending notification", "title", title)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Send(context.Context, string, string) error { return nil }
