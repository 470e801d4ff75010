package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestErrorClasses tests that typed errors match their sentinel class.
func TestErrorClasses(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{name: "input", err: NewInputError("no pages found"), sentinel: ErrInput},
		{name: "fetch", err: &FetchError{URL: "https://example.com", Err: cause}, sentinel: ErrFetch},
		{name: "parse", err: &ParseError{Message: "no pages found"}, sentinel: ErrParse},
		{name: "provider auth", err: &ProviderAuthError{Provider: "OpenAI"}, sentinel: ErrProviderAuth},
		{name: "provider api", err: &ProviderAPIError{Provider: "OpenAI", StatusCode: 429}, sentinel: ErrProviderAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wrapped := fmt.Errorf("analysis failed: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("expected errors.Is(%v, %v)", wrapped, tt.sentinel)
			}
		})
	}
}

// TestFetchError tests FetchError messages and unwrapping.
func TestFetchError(t *testing.T) {
	t.Parallel()

	t.Run("reports status code", func(t *testing.T) {
		t.Parallel()

		err := &FetchError{URL: "https://example.com/sitemap.xml", StatusCode: 404}
		if !strings.Contains(err.Error(), "404") {
			t.Errorf("expected status in message, got %q", err.Error())
		}
	})

	t.Run("unwraps cause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("dial tcp: refused")
		err := fmt.Errorf("crawl: %w", &FetchError{URL: "https://example.com", Err: cause})

		if !errors.Is(err, cause) {
			t.Error("expected cause to be reachable")
		}

		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatal("expected errors.As to find FetchError")
		}
		if fe.URL != "https://example.com" {
			t.Errorf("unexpected URL %q", fe.URL)
		}
	})
}

// TestProviderAPIError tests that the upstream status is exposed.
func TestProviderAPIError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("embed: %w", &ProviderAPIError{Provider: "Google Gemini", StatusCode: 403, Message: "forbidden"})

	var apiErr *ProviderAPIError
	if !errors.As(err, &apiErr) {
		t.Fatal("expected ProviderAPIError")
	}
	if apiErr.StatusCode != 403 {
		t.Errorf("expected status 403, got %d", apiErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "forbidden") {
		t.Errorf("expected message in error, got %q", err.Error())
	}
}
