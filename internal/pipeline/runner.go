package pipeline

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/nao1215/linkweave/internal/config"
	"github.com/nao1215/linkweave/internal/model"
)

// Runner analyzes one sitemap at a time: crawl, embed, analyze.
type Runner struct {
	crawler   SiteCrawler
	generator EmbeddingGenerator
	analyzer  LinkAnalyzer
	logger    *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets the logger passed to the pipeline and its steps.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner from its three components.
func NewRunner(crawler SiteCrawler, generator EmbeddingGenerator, analyzer LinkAnalyzer, opts ...RunnerOption) *Runner {
	r := &Runner{
		crawler:   crawler,
		generator: generator,
		analyzer:  analyzer,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewPipeline builds a fresh crawl/embed/analyze pipeline.
func (r *Runner) NewPipeline() *Pipeline {
	p := New(WithLogger(r.logger))
	p.AddSteps(
		NewCrawlStep(r.crawler, WithCrawlLogger(r.logger)),
		NewEmbedStep(r.generator, WithEmbedLogger(r.logger)),
		NewAnalyzeStep(r.analyzer),
	)
	return p
}

// Analyze runs a full analysis of sitemapURL. maxPages of zero or less
// selects config.DefaultMaxPages; larger values are capped at
// config.MaxPagesCeiling.
//
// The report is always returned. On failure it carries the error, which
// is also returned.
func (r *Runner) Analyze(ctx context.Context, sitemapURL string, maxPages int) (*model.AnalysisReport, error) {
	sitemapURL = strings.TrimSpace(sitemapURL)
	report := model.NewAnalysisReport(sitemapURL, config.ClampMaxPages(maxPages))

	if err := ValidateSitemapURL(sitemapURL); err != nil {
		report.SetError(err)
		return report, err
	}

	err := r.NewPipeline().Execute(ctx, report)
	report.Duration = time.Since(report.StartedAt)

	if err == nil {
		r.logger.Info("analysis complete",
			"sitemap", sitemapURL,
			"pages", report.Result.Stats.TotalPages,
			"suggestions", report.Result.Stats.TotalSuggestions,
			"orphans", report.Result.Stats.TotalOrphans,
			"duration", report.Duration,
		)
	}
	return report, err
}

// ValidateSitemapURL checks that raw is an absolute http(s) URL.
func ValidateSitemapURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return model.NewInputError("sitemapUrl is required")
	}

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return model.NewInputError("Invalid URL format")
	}
	return nil
}
