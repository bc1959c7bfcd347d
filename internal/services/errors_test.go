package services_test

import (
	"errors"
	"strings"
	"testing"

	"assetnamer/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "describing", "vision call", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"describing", "vision call", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransientMarker(t *testing.T) {
	err := services.Wrap(nil, "applying", "rename", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected fallback transient marker, got %v", err)
	}
}

func TestRetryableClassification(t *testing.T) {
	cases := []struct {
		marker error
		want   bool
	}{
		{services.ErrRateLimited, true},
		{services.ErrTransient, true},
		{services.ErrTimeout, true},
		{services.ErrPermanent, false},
		{services.ErrValidation, false},
		{services.ErrFilesystem, false},
	}
	for _, tc := range cases {
		err := services.Wrap(tc.marker, "describing", "vision call", "", nil)
		if got := services.Retryable(err); got != tc.want {
			t.Fatalf("Retryable(%v) = %v, want %v", tc.marker, got, tc.want)
		}
	}
	if services.Retryable(nil) {
		t.Fatal("nil error must not be retryable")
	}
}
