package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/linkweave/internal/model"
)

// SiteCrawler crawls the pages listed in a sitemap.
// *crawler.Spider implements it.
type SiteCrawler interface {
	CrawlSite(ctx context.Context, sitemapURL string, maxPages int) ([]*model.PageRecord, error)
}

// EmbeddingGenerator embeds crawled pages.
// *embedding.Generator implements it.
type EmbeddingGenerator interface {
	GenerateEmbeddings(ctx context.Context, pages []*model.PageRecord) ([]*model.PageEmbedding, error)
	Info() model.ProviderInfo
}

// LinkAnalyzer derives suggestions and orphans from pages and embeddings.
// *analyzer.Analyzer implements it.
type LinkAnalyzer interface {
	AnalyzeLinks(pages []*model.PageRecord, embeddings []*model.PageEmbedding) *model.AnalysisResult
}

// CrawlStep fetches the sitemap and its pages.
type CrawlStep struct {
	crawler SiteCrawler
	logger  *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a new crawl step.
func NewCrawlStep(crawler SiteCrawler, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		crawler: crawler,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do crawls report.SitemapURL and stores the pages on the report.
// A crawl that yields no page is an input error.
func (s *CrawlStep) Do(ctx context.Context, report *model.AnalysisReport) error {
	pages, err := s.crawler.CrawlSite(ctx, report.SitemapURL, report.MaxPages)
	report.Pages = pages
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return model.NewInputError("no pages found")
	}

	s.logger.Info("crawl complete",
		"sitemap", report.SitemapURL,
		"pages", len(pages),
	)
	return nil
}

// EmbedStep generates one embedding per crawled page.
type EmbedStep struct {
	generator EmbeddingGenerator
	logger    *slog.Logger
}

// EmbedStepOption configures an EmbedStep.
type EmbedStepOption func(*EmbedStep)

// WithEmbedLogger sets a custom logger for the embed step.
func WithEmbedLogger(logger *slog.Logger) EmbedStepOption {
	return func(s *EmbedStep) {
		s.logger = logger
	}
}

// NewEmbedStep creates a new embed step.
func NewEmbedStep(generator EmbeddingGenerator, opts ...EmbedStepOption) *EmbedStep {
	s := &EmbedStep{
		generator: generator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *EmbedStep) Name() string {
	return "embed"
}

// Do embeds report.Pages and records the provider on the report.
func (s *EmbedStep) Do(ctx context.Context, report *model.AnalysisReport) error {
	info := s.generator.Info()
	report.Provider = &info

	embeddings, err := s.generator.GenerateEmbeddings(ctx, report.Pages)
	if err != nil {
		return err
	}
	if len(embeddings) == 0 && len(report.Pages) > 0 {
		return &model.ProviderAPIError{Provider: info.Name, Message: "all embedding requests failed"}
	}
	report.Embeddings = embeddings

	s.logger.Info("embedding complete",
		"sitemap", report.SitemapURL,
		"embeddings", len(embeddings),
	)
	return nil
}

// AnalyzeStep computes link suggestions and orphans.
type AnalyzeStep struct {
	analyzer LinkAnalyzer
}

// NewAnalyzeStep creates a new analyze step.
func NewAnalyzeStep(analyzer LinkAnalyzer) *AnalyzeStep {
	return &AnalyzeStep{analyzer: analyzer}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return "analyze"
}

// Do analyzes the crawled pages and their embeddings.
func (s *AnalyzeStep) Do(_ context.Context, report *model.AnalysisReport) error {
	report.Result = s.analyzer.AnalyzeLinks(report.Pages, report.Embeddings)
	return nil
}
