package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "linkweave"

	// MaxPagesCeiling is the hard upper bound on pages crawled per run.
	// Similarity is computed over every pair of pages, so this ceiling
	// bounds the quadratic cost no matter what the caller asks for.
	MaxPagesCeiling = 100

	// DefaultMaxPages is used when the caller does not supply a page budget.
	DefaultMaxPages = 50

	// DefaultCrawlDelay is the politeness delay between page fetches.
	DefaultCrawlDelay = 200 * time.Millisecond

	// DefaultEmbedDelay is the delay between embedding requests.
	DefaultEmbedDelay = 100 * time.Millisecond

	// DefaultTimeout bounds a whole analysis run. A run with 100 pages
	// spends at least 30 seconds in delays alone.
	DefaultTimeout = 10 * time.Minute

	// DefaultRequestTimeout bounds a single HTTP request.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultUserAgent identifies LinkWeave in HTTP requests.
	DefaultUserAgent = "LinkWeave/1.0 (SEO Analysis Bot)"

	// DefaultMaxBodySize limits how much of a page body is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// MaxContentLength caps the extracted text of a page, in characters.
	MaxContentLength = 10000

	// MaxAnchorTextLength caps the recorded anchor text of a link.
	MaxAnchorTextLength = 100

	// MaxEmbeddingInput caps the text submitted to an embedding provider.
	MaxEmbeddingInput = 8000

	// DefaultSimilarityThreshold is the cosine similarity floor for suggestions.
	DefaultSimilarityThreshold = 0.6

	// DefaultOrphanThreshold flags pages with fewer inbound links than this.
	DefaultOrphanThreshold = 2

	// DefaultSuggestionLimit caps the number of suggestions returned.
	DefaultSuggestionLimit = 100

	// DefaultAnchorWords is the number of title words used for anchor text.
	DefaultAnchorWords = 5

	// DefaultBatchSize is the number of sitemaps analyzed concurrently.
	// Each run is still sequential inside.
	DefaultBatchSize = 2

	// DefaultProvider is the embedding provider used when none is configured.
	DefaultProvider = "gemini"
)

// Config holds all configuration options for LinkWeave.
// It is populated from defaults, the config file, environment variables and
// CLI flags, in increasing order of precedence.
type Config struct {
	// SitemapURLs are the sitemaps to analyze.
	SitemapURLs []string

	// MaxPages is the page budget per sitemap. It is clamped to
	// MaxPagesCeiling before use.
	MaxPages int

	// Timeout bounds a whole run, including every sitemap in a batch.
	Timeout time.Duration

	// RequestTimeout bounds a single HTTP request.
	RequestTimeout time.Duration

	// CrawlDelay is the delay between page fetches.
	CrawlDelay time.Duration

	// EmbedDelay is the delay between embedding requests.
	EmbedDelay time.Duration

	// UserAgent is sent with every crawl request.
	UserAgent string

	// MaxBodySize is the maximum page body size in bytes.
	MaxBodySize int64

	// Proxy routes crawl requests through socks5://host:port or
	// http://host:port. Empty means a direct connection.
	Proxy string

	// RespectRobots skips URLs disallowed by the site's robots.txt.
	RespectRobots bool

	// Readability selects page content with go-readability before
	// falling back to the container selectors.
	Readability bool

	// Provider is the embedding provider name ("openai" or "gemini").
	Provider string

	// Model overrides the provider's default embedding model.
	Model string

	// ProviderBaseURL overrides the provider API endpoint. Used for
	// proxies and tests.
	ProviderBaseURL string

	// OpenAIAPIKey is read from OPENAI_API_KEY.
	OpenAIAPIKey string

	// GeminiAPIKey is read from GEMINI_API_KEY.
	GeminiAPIKey string

	// SimilarityThreshold is the minimum cosine similarity for a suggestion.
	SimilarityThreshold float64

	// OrphanThreshold flags pages with fewer inbound links than this value.
	OrphanThreshold int

	// SuggestionLimit caps the returned suggestion list.
	SuggestionLimit int

	// AnchorWords is the number of target title words in a suggested anchor.
	AnchorWords int

	// BatchSize is the number of sitemaps analyzed concurrently.
	BatchSize int

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches log output to JSON.
	LogJSON bool

	// ConfigFilePath is the explicit config file path, if any.
	ConfigFilePath string

	// File holds the settings loaded from the config file.
	File *File

	// JSONReport, MarkdownReport and CSVReport select the output format.
	// At most one may be set; the default is a plain text report.
	JSONReport     bool
	MarkdownReport bool
	CSVReport      bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// SaveToDB archives finished reports in DBDir.
	SaveToDB bool

	// DBDir is the directory of the report archive.
	// Defaults to the XDG data directory (~/.local/share/linkweave on Linux).
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		MaxPages:            DefaultMaxPages,
		Timeout:             DefaultTimeout,
		RequestTimeout:      DefaultRequestTimeout,
		CrawlDelay:          DefaultCrawlDelay,
		EmbedDelay:          DefaultEmbedDelay,
		UserAgent:           DefaultUserAgent,
		MaxBodySize:         DefaultMaxBodySize,
		Provider:            DefaultProvider,
		SimilarityThreshold: DefaultSimilarityThreshold,
		OrphanThreshold:     DefaultOrphanThreshold,
		SuggestionLimit:     DefaultSuggestionLimit,
		AnchorWords:         DefaultAnchorWords,
		BatchSize:           DefaultBatchSize,
		DBDir:               XDGDataDir(),
		File:                NewFile(),
	}
}

// XDGDataDir returns the XDG data directory for LinkWeave.
// On Linux: ~/.local/share/linkweave
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for LinkWeave.
// On Linux: ~/.config/linkweave
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ClampMaxPages applies the default and the safety ceiling to a page budget.
// Non-positive values select DefaultMaxPages.
func ClampMaxPages(n int) int {
	if n <= 0 {
		return DefaultMaxPages
	}
	if n > MaxPagesCeiling {
		return MaxPagesCeiling
	}
	return n
}

// APIKey returns the configured credential for the active provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case "openai":
		return c.OpenAIAPIKey
	case "gemini":
		return c.GeminiAPIKey
	default:
		return ""
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if len(c.SitemapURLs) == 0 {
		return ErrNoTarget
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.Timeout <= 0 || c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if countTrue(c.JSONReport, c.MarkdownReport, c.CSVReport) > 1 {
		return ErrConflictingReportFormats
	}

	if c.CrawlDelay < 0 || c.EmbedDelay < 0 {
		return ErrInvalidDelay
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return ErrInvalidThreshold
	}

	if c.OrphanThreshold < 0 {
		return ErrInvalidOrphanThreshold
	}

	if c.Provider != "openai" && c.Provider != "gemini" {
		return ErrUnknownProvider
	}

	return nil
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
