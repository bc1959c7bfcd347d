package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"assetnamer/internal/config"
	"assetnamer/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyBatchStarted(context.Background(), "batch", 3); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCaptureServer(t *testing.T, sink *[]captured) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		*sink = append(*sink, captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(http.StatusOK)
	}))
}

func TestNtfyServiceFormatsBatchEvents(t *testing.T) {
	var requests []captured
	server := newCaptureServer(t, &requests)
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.BatchEvents = true
	cfg.Notifications.UndoEvents = true
	svc := notifications.NewService(&cfg)

	ctx := context.Background()
	if err := svc.NotifyBatchStarted(ctx, "0a1b2c3d4e5f", 12); err != nil {
		t.Fatalf("notify batch started: %v", err)
	}
	if err := svc.NotifyBatchCompleted(ctx, "0a1b2c3d4e5f", 10, 2, 95*time.Second); err != nil {
		t.Fatalf("notify batch completed: %v", err)
	}
	if err := svc.NotifyUndoCompleted(ctx, "0a1b2c3d4e5f", 10); err != nil {
		t.Fatalf("notify undo completed: %v", err)
	}

	if len(requests) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(requests))
	}
	if requests[0].title != "AssetNamer - Batch Started" || !strings.Contains(requests[0].body, "12 files") {
		t.Fatalf("unexpected start notification: %+v", requests[0])
	}
	if !strings.Contains(requests[0].body, "0a1b2c3d") || strings.Contains(requests[0].body, "0a1b2c3d4e5f") {
		t.Fatalf("batch id should be shortened: %+v", requests[0])
	}
	if requests[1].title != "AssetNamer - Batch Complete (with errors)" {
		t.Fatalf("unexpected completion title: %+v", requests[1])
	}
	if !strings.Contains(requests[1].body, "10 renamed, 2 failed in 1m35s") {
		t.Fatalf("unexpected completion body: %+v", requests[1])
	}
	if requests[2].tags != "assetnamer,undo,completed" {
		t.Fatalf("unexpected undo tags: %+v", requests[2])
	}
}

func TestNtfyServiceRespectsEventToggles(t *testing.T) {
	var requests []captured
	server := newCaptureServer(t, &requests)
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.BatchEvents = false
	cfg.Notifications.UndoEvents = false
	cfg.Notifications.Errors = true
	svc := notifications.NewService(&cfg)

	ctx := context.Background()
	if err := svc.NotifyBatchStarted(ctx, "batch", 3); err != nil {
		t.Fatalf("notify batch started: %v", err)
	}
	if err := svc.NotifyUndoCompleted(ctx, "batch", 3); err != nil {
		t.Fatalf("notify undo completed: %v", err)
	}
	if err := svc.NotifyError(ctx, context.DeadlineExceeded, "describe stage"); err != nil {
		t.Fatalf("notify error: %v", err)
	}

	if len(requests) != 1 {
		t.Fatalf("expected only the error notification, got %d requests", len(requests))
	}
	if requests[0].priority != "high" || !strings.Contains(requests[0].body, "describe stage") {
		t.Fatalf("unexpected error notification: %+v", requests[0])
	}
}

func TestNtfyServiceSurfacesHTTPFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic over quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for http 429")
	}
}
