package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func describePayload(content string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{
				"message": map[string]any{
					"content": content,
				},
			},
		},
	}
}

func TestClientHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		if err := json.NewEncoder(w).Encode(describePayload(`{"ok":true}`)); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check to fail")
	}
}

func TestClientDescribeImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content []struct {
					Type     string `json:"type"`
					ImageURL *struct {
						URL    string `json:"url"`
						Detail string `json:"detail"`
					} `json:"image_url"`
				} `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		found := false
		for _, msg := range req.Messages {
			for _, part := range msg.Content {
				if part.Type == "image_url" && part.ImageURL != nil {
					if !strings.HasPrefix(part.ImageURL.URL, "data:image/png;base64,") {
						t.Fatalf("unexpected data url prefix %q", part.ImageURL.URL[:32])
					}
					found = true
				}
			}
		}
		if !found {
			t.Fatal("request carried no image content part")
		}
		content := `{"summary":"sunset over mountain lake","scene_type":"landscape","subjects":["mountain","lake"],"location":"alps","action":"","mood":"calm"}`
		if err := json.NewEncoder(w).Encode(describePayload(content)); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	desc, err := client.DescribeImage(context.Background(), []byte{0x89, 0x50}, "image/png")
	if err != nil {
		t.Fatalf("DescribeImage returned error: %v", err)
	}
	if desc.Summary != "sunset over mountain lake" {
		t.Fatalf("unexpected summary %q", desc.Summary)
	}
	if desc.SceneType != "landscape" || len(desc.Subjects) != 2 {
		t.Fatalf("unexpected description: %+v", desc)
	}
}

func TestDescribeImageFileDetectsMIMEFromExtension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content []struct {
					Type     string `json:"type"`
					ImageURL *struct {
						URL string `json:"url"`
					} `json:"image_url"`
				} `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		for _, msg := range req.Messages {
			for _, part := range msg.Content {
				if part.Type == "image_url" && part.ImageURL != nil {
					if !strings.HasPrefix(part.ImageURL.URL, "data:image/png;base64,") {
						t.Fatalf("unexpected data url prefix %q", part.ImageURL.URL[:32])
					}
				}
			}
		}
		content := `{"summary":"red square","scene_type":"other","subjects":[],"location":"","action":"","mood":""}`
		if err := json.NewEncoder(w).Encode(describePayload(content)); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	// The dotted parent directory must not confuse extension detection.
	dir := filepath.Join(t.TempDir(), "shoot.2024")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, "frame.png")
	if err := os.WriteFile(path, []byte{0x89, 0x50, 0x4e, 0x47}, 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if _, err := client.DescribeImageFile(context.Background(), path); err != nil {
		t.Fatalf("DescribeImageFile returned error: %v", err)
	}
}

func TestClientDescribeImageCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := "```json\n{\"summary\":\"dog running on beach\",\"scene_type\":\"other\",\"subjects\":[\"dog\"]}\n```"
		if err := json.NewEncoder(w).Encode(describePayload(content)); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	desc, err := client.DescribeImage(context.Background(), []byte{1}, "image/jpeg")
	if err != nil {
		t.Fatalf("DescribeImage returned error: %v", err)
	}
	if desc.Summary != "dog running on beach" {
		t.Fatalf("unexpected summary %q", desc.Summary)
	}
	if !strings.Contains(desc.Raw, "```") {
		t.Fatalf("expected raw payload to retain code fence, got %q", desc.Raw)
	}
}

func TestClientRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		content := `{"summary":"city street at night"}`
		if err := json.NewEncoder(w).Encode(describePayload(content)); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithRetryMaxAttempts(3),
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)
	desc, err := client.DescribeImage(context.Background(), []byte{1}, "image/jpeg")
	if err != nil {
		t.Fatalf("DescribeImage returned error: %v", err)
	}
	if desc.Summary != "city street at night" {
		t.Fatalf("unexpected summary %q", desc.Summary)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 requests, got %d", calls.Load())
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected one sleep honoring Retry-After, got %v", slept)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithRetryMaxAttempts(5),
		WithSleeper(func(time.Duration) {}),
	)
	_, err := client.DescribeImage(context.Background(), []byte{1}, "image/jpeg")
	if err == nil {
		t.Fatal("expected error for http 400")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected single request, got %d", calls.Load())
	}
	if RateLimited(err) {
		t.Fatal("http 400 must not classify as rate limited")
	}
}

func TestClientRateLimitedClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithRetryMaxAttempts(2),
		WithSleeper(func(time.Duration) {}),
	)
	_, err := client.DescribeImage(context.Background(), []byte{1}, "image/jpeg")
	if err == nil {
		t.Fatal("expected error for repeated http 429")
	}
	if !RateLimited(err) {
		t.Fatalf("expected rate limited classification, got %v", err)
	}
}

func TestDescriberFallbackWithoutAPIKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "IMG_1234 beach trip.jpg")
	if err := os.WriteFile(path, []byte{1}, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	describer := NewDescriber(NewClient(Config{}), "")
	desc, err := describer.DescribeFile(context.Background(), path, false)
	if err != nil {
		t.Fatalf("DescribeFile returned error: %v", err)
	}
	if desc.Summary == "" {
		t.Fatal("fallback produced empty summary")
	}
	if !strings.Contains(desc.Summary, "beach") {
		t.Fatalf("fallback summary should derive from the stem, got %q", desc.Summary)
	}
}

func TestDecodeVisionJSONLeadingProse(t *testing.T) {
	var parsed Description
	content := "Here is the result: {\"summary\":\"red barn in field\"} hope that helps"
	if err := DecodeVisionJSON(content, &parsed); err != nil {
		t.Fatalf("DecodeVisionJSON returned error: %v", err)
	}
	if parsed.Summary != "red barn in field" {
		t.Fatalf("unexpected summary %q", parsed.Summary)
	}
}
