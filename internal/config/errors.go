package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoTarget is returned when no sitemap URL is specified.
	ErrNoTarget = errors.New("no sitemap specified: provide at least one sitemap URL")

	// ErrInvalidMaxPages is returned when the page budget is negative.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when more than one of
	// --json, --markdown and --csv is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: use only one of --json, --markdown and --csv")

	// ErrInvalidDelay is returned when a crawl or embed delay is negative.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidThreshold is returned when the similarity threshold is outside [0,1].
	ErrInvalidThreshold = errors.New("invalid similarity threshold: must be between 0 and 1")

	// ErrInvalidOrphanThreshold is returned when the orphan threshold is negative.
	ErrInvalidOrphanThreshold = errors.New("invalid orphan threshold: must be non-negative")

	// ErrUnknownProvider is returned for an unsupported embedding provider name.
	ErrUnknownProvider = errors.New("unknown embedding provider: must be \"openai\" or \"gemini\"")
)
