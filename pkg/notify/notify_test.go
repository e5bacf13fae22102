package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/0xmhha/folder-organizer/pkg/config"
	"github.com/0xmhha/folder-organizer/pkg/logger"
)

type captured struct {
	method   string
	path     string
	title    string
	tags     string
	priority string
	body     string
}

func notifyServer(t *testing.T, status int, got *captured) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*got = captured{
			method:   r.Method,
			path:     r.URL.Path,
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		}
		w.WriteHeader(status)
	}))
}

func TestSend(t *testing.T) {
	var got captured
	srv := notifyServer(t, http.StatusOK, &got)
	defer srv.Close()

	n := New(config.NotificationConfig{
		Enabled:  true,
		Server:   srv.URL + "/", // trailing slash must not double up
		Topic:    "organizer",
		Priority: "default",
		Tags:     "file_folder",
	}, logger.Noop())

	if err := n.Send(context.Background(), "Organized", "7 files organized"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if got.method != http.MethodPost {
		t.Errorf("method = %s, want POST", got.method)
	}
	if got.path != "/organizer" {
		t.Errorf("path = %s, want /organizer", got.path)
	}
	if got.title != "Organized" {
		t.Errorf("Title header = %q, want Organized", got.title)
	}
	if got.tags != "file_folder" {
		t.Errorf("Tags header = %q, want file_folder", got.tags)
	}
	// Default priority stays implicit.
	if got.priority != "" {
		t.Errorf("Priority header = %q, want unset", got.priority)
	}
	if got.body != "7 files organized" {
		t.Errorf("body = %q, want message text", got.body)
	}
}

func TestSendPriorityHeader(t *testing.T) {
	var got captured
	srv := notifyServer(t, http.StatusOK, &got)
	defer srv.Close()

	n := New(config.NotificationConfig{
		Enabled:  true,
		Server:   srv.URL,
		Topic:    "organizer",
		Priority: "high",
	}, logger.Noop())

	if err := n.Send(context.Background(), "t", "m"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got.priority != "high" {
		t.Errorf("Priority header = %q, want high", got.priority)
	}
}

func TestSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("topic quota exceeded"))
	}))
	defer srv.Close()

	n := New(config.NotificationConfig{
		Enabled: true,
		Server:  srv.URL,
		Topic:   "organizer",
	}, logger.Noop())

	err := n.Send(context.Background(), "t", "m")
	if err == nil {
		t.Fatal("Send() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "topic quota exceeded") {
		t.Errorf("Send() error = %v, want status and body snippet", err)
	}
}

func TestDisabledIsNoop(t *testing.T) {
	// No server running; a real send would fail loudly.
	n := New(config.NotificationConfig{
		Enabled: false,
		Server:  "http://127.0.0.1:1",
		Topic:   "organizer",
	}, logger.Noop())

	if err := n.Send(context.Background(), "t", "m"); err != nil {
		t.Errorf("Send() on disabled notifier error = %v, want nil", err)
	}
}

func TestEmptyTopicIsNoop(t *testing.T) {
	n := New(config.NotificationConfig{
		Enabled: true,
		Server:  "http://127.0.0.1:1",
		Topic:   "  ",
	}, logger.Noop())

	if err := n.Send(context.Background(), "t", "m"); err != nil {
		t.Errorf("Send() without topic error = %v, want nil", err)
	}
}

func TestNoop(t *testing.T) {
	if err := Noop().Send(context.Background(), "t", "m"); err != nil {
		t.Errorf("Noop().Send() error = %v, want nil", err)
	}
}
