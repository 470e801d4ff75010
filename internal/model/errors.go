package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for each failure class of an analysis run.
// The typed errors below wrap one of these so callers can use either
// errors.Is for the class or errors.As for the details.
var (
	// ErrInput is the class of errors caused by bad caller input,
	// including a crawl that found no pages.
	ErrInput = errors.New("invalid input")

	// ErrFetch is the class of network or transport failures.
	ErrFetch = errors.New("fetch failed")

	// ErrParse is the class of sitemap parsing failures.
	ErrParse = errors.New("parse failed")

	// ErrProviderAuth is returned when an embedding provider has no credential.
	ErrProviderAuth = errors.New("embedding provider not configured")

	// ErrProviderAPI is returned when an embedding provider rejects a request.
	ErrProviderAPI = errors.New("embedding provider error")
)

// InputError reports a missing or malformed input, or an empty crawl.
type InputError struct {
	Message string
}

// NewInputError creates an InputError with the given message.
func NewInputError(msg string) *InputError {
	return &InputError{Message: msg}
}

func (e *InputError) Error() string { return e.Message }

// Unwrap returns ErrInput.
func (e *InputError) Unwrap() error { return ErrInput }

// FetchError reports a failure to retrieve a URL.
// StatusCode is zero when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
	}
	return "failed to fetch " + e.URL
}

// Unwrap returns both ErrFetch and the underlying cause.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetch}
	}
	return []error{ErrFetch, e.Err}
}

// ParseError reports a sitemap that yielded no usable entries.
type ParseError struct {
	URL     string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.URL == "" {
		return msg
	}
	return fmt.Sprintf("%s (%s)", msg, e.URL)
}

// Unwrap returns both ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// ProviderAuthError reports a provider with no API key configured.
type ProviderAuthError struct {
	Provider string
}

func (e *ProviderAuthError) Error() string {
	return fmt.Sprintf("%s API key not configured", e.Provider)
}

// Unwrap returns ErrProviderAuth.
func (e *ProviderAuthError) Unwrap() error { return ErrProviderAuth }

// ProviderAPIError carries the upstream status and message of a failed
// embedding request.
type ProviderAPIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderAPIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error: %d %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

// Unwrap returns ErrProviderAPI.
func (e *ProviderAPIError) Unwrap() error { return ErrProviderAPI }
