package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkweave/internal/analyzer"
	"github.com/nao1215/linkweave/internal/config"
	"github.com/nao1215/linkweave/internal/crawler"
	"github.com/nao1215/linkweave/internal/database"
	"github.com/nao1215/linkweave/internal/embedding"
	linklog "github.com/nao1215/linkweave/internal/log"
	"github.com/nao1215/linkweave/internal/model"
	"github.com/nao1215/linkweave/internal/pipeline"
	"github.com/nao1215/linkweave/internal/report"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [sitemap-url]...",
		Short: "Analyze the internal links of a site",
		Long: `Analyze crawls the pages listed in a sitemap, embeds them and reports:
- Link suggestions between semantically similar pages that do not link yet
- Orphan pages with fewer internal inbound links than the orphan threshold

At most 100 pages are analyzed per sitemap, because every pair of pages
is compared.

Examples:
  # Analyze a site with the default provider (Gemini)
  linkweave analyze https://example.com/sitemap.xml

  # Use OpenAI and analyze up to 80 pages
  linkweave analyze -P openai -p 80 https://example.com/sitemap.xml

  # Analyze two sites concurrently and print JSON
  linkweave analyze -b 2 --json https://a.example/sitemap.xml https://b.example/sitemap.xml

  # Export suggestions and orphans as CSV and archive the run
  linkweave analyze --csv -o report.csv --save https://example.com/sitemap.xml

Configuration file (.linkweave) example:
  embedding:
    provider: openai
  sites:
    blog.example.com:
      respectRobots: true
      ignorePatterns:
        - "/tag/*"`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	// Crawl flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to analyze per sitemap (capped at 100)")
	cmd.Flags().Duration("crawl-delay", config.DefaultCrawlDelay,
		"Delay between page fetches")
	cmd.Flags().Bool("robots", false,
		"Skip pages disallowed by robots.txt")
	cmd.Flags().Bool("readability", false,
		"Select page content with readability before the container selectors")
	cmd.Flags().String("proxy", "",
		"Crawl through a proxy (socks5://host:port or http://host:port)")

	// Embedding flags
	cmd.Flags().StringP("provider", "P", config.DefaultProvider,
		"Embedding provider (openai or gemini)")
	cmd.Flags().String("model", "",
		"Embedding model (default: the provider's model)")
	cmd.Flags().String("provider-url", "",
		"Override the embedding API base URL")
	cmd.Flags().Duration("embed-delay", config.DefaultEmbedDelay,
		"Delay between embedding requests")

	// Analysis flags
	cmd.Flags().Float64("threshold", config.DefaultSimilarityThreshold,
		"Minimum similarity score (0-1) for a link suggestion")
	cmd.Flags().Int("orphan-threshold", config.DefaultOrphanThreshold,
		"Pages with fewer inbound links than this are orphans")
	cmd.Flags().Int("limit", config.DefaultSuggestionLimit,
		"Maximum number of suggestions to report")
	cmd.Flags().Int("anchor-words", config.DefaultAnchorWords,
		"Number of target title words in a suggested anchor")

	// Run flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for the whole run")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of sitemaps analyzed concurrently")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkweave in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report")
	cmd.Flags().Bool("csv", false,
		"Output CSV report")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("save", false,
		"Archive finished reports for the history command")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the report archive")

	cmd.MarkFlagsMutuallyExclusive("json", "markdown", "csv")

	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := linklog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogJSON)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	return runAnalyze(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// buildConfig layers defaults, the config file, the environment and
// explicitly set flags, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// A missing file is only an error when the path was given explicitly.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.File, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.File.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.ApplyEnv()

	if flags.Changed("provider") {
		if cfg.Provider, err = flags.GetString("provider"); err != nil {
			return nil, err
		}
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider == "" {
		cfg.Provider = config.DefaultProvider
	}
	if flags.Changed("model") {
		if cfg.Model, err = flags.GetString("model"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("provider-url") {
		if cfg.ProviderBaseURL, err = flags.GetString("provider-url"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("threshold") {
		if cfg.SimilarityThreshold, err = flags.GetFloat64("threshold"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("orphan-threshold") {
		if cfg.OrphanThreshold, err = flags.GetInt("orphan-threshold"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("limit") {
		if cfg.SuggestionLimit, err = flags.GetInt("limit"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("anchor-words") {
		if cfg.AnchorWords, err = flags.GetInt("anchor-words"); err != nil {
			return nil, err
		}
	}

	// Zero lets a per-site maxPages from the config file apply.
	cfg.MaxPages = 0
	if flags.Changed("max-pages") {
		if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return nil, err
		}
	}
	if cfg.CrawlDelay, err = flags.GetDuration("crawl-delay"); err != nil {
		return nil, err
	}
	if cfg.EmbedDelay, err = flags.GetDuration("embed-delay"); err != nil {
		return nil, err
	}
	if cfg.RespectRobots, err = flags.GetBool("robots"); err != nil {
		return nil, err
	}
	if cfg.Readability, err = flags.GetBool("readability"); err != nil {
		return nil, err
	}
	if cfg.Proxy, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.CSVReport, err = flags.GetBool("csv"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.SaveToDB, err = flags.GetBool("save"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.LogJSON = getBoolFlag(cmd, "log-json")
	cfg.SitemapURLs = args

	return cfg, nil
}

// getBoolFlag reads a persistent flag from the command or the root.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// siteAnalyzer runs one sitemap with the crawl settings of its host.
// The provider and analyzer are shared between sitemaps.
type siteAnalyzer struct {
	cfg       *config.Config
	client    *http.Client
	generator *embedding.Generator
	analyzer  *analyzer.Analyzer
	logger    *slog.Logger
}

// Analyze implements pipeline.Analyzer.
func (a *siteAnalyzer) Analyze(ctx context.Context, sitemapURL string, maxPages int) (*model.AnalysisReport, error) {
	site := a.cfg.File.GetSiteConfig(model.HostOf(sitemapURL))
	if maxPages <= 0 && site.MaxPages > 0 {
		maxPages = site.MaxPages
	}

	spider := crawler.NewSpider(a.client,
		crawler.WithMaxPages(config.ClampMaxPages(maxPages)),
		crawler.WithDelay(a.cfg.CrawlDelay),
		crawler.WithSpiderUserAgent(a.cfg.UserAgent),
		crawler.WithSpiderMaxBodySize(a.cfg.MaxBodySize),
		crawler.WithHeaders(site.Headers),
		crawler.WithIgnorePatterns(site.IgnorePatterns),
		crawler.WithRobots(a.cfg.RespectRobots || site.RespectRobots),
		crawler.WithReadability(a.cfg.Readability || site.Readability),
		crawler.WithLogger(a.logger),
	)

	runner := pipeline.NewRunner(spider, a.generator, a.analyzer, pipeline.WithRunnerLogger(a.logger))
	return runner.Analyze(ctx, sitemapURL, maxPages)
}

// newSiteAnalyzer builds the shared embedding provider and analyzer.
func newSiteAnalyzer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*siteAnalyzer, error) {
	provider, err := embedding.New(ctx, embedding.Config{
		Provider:   cfg.Provider,
		Model:      cfg.Model,
		APIKey:     cfg.APIKey(),
		BaseURL:    cfg.ProviderBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
	})
	if err != nil {
		return nil, err
	}
	info := embedding.GetProviderInfo(provider)
	logger.Info("embedding provider ready",
		"provider", info.Name,
		"model", info.Model,
		"dimensions", info.Dimensions,
	)

	client, err := crawler.NewProxyClient(cfg.RequestTimeout, cfg.Proxy)
	if err != nil {
		return nil, err
	}

	return &siteAnalyzer{
		cfg:    cfg,
		client: client,
		generator: embedding.NewGenerator(provider,
			embedding.WithEmbedDelay(cfg.EmbedDelay),
			embedding.WithGeneratorLogger(logger),
		),
		analyzer: analyzer.New(
			analyzer.WithSimilarityThreshold(cfg.SimilarityThreshold),
			analyzer.WithOrphanThreshold(cfg.OrphanThreshold),
			analyzer.WithSuggestionLimit(cfg.SuggestionLimit),
			analyzer.WithAnchorWords(cfg.AnchorWords),
		),
		logger: logger,
	}, nil
}

// runAnalyze analyzes every configured sitemap and writes the reports.
// It returns an error when any analysis failed.
func runAnalyze(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) error {
	logger.Info("starting analysis",
		"sitemaps", cfg.SitemapURLs,
		"provider", cfg.Provider,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	sa, err := newSiteAnalyzer(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var db *database.ReportDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
	}

	output, closeOutput, err := openOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer closeOutput()
	writer := newReportWriter(cfg, output, stdout)

	var (
		mu       sync.Mutex
		failed   int
		firstErr error
	)
	handle := func(r *model.AnalysisReport) {
		mu.Lock()
		defer mu.Unlock()

		if !r.Success() {
			failed++
			if firstErr == nil {
				firstErr = r.Error
			}
			fmt.Fprintf(stderr, "Analysis failed for %s: %s\n", r.SitemapURL, r.ErrorMessage)
			// CSV has no failure shape.
			if cfg.CSVReport {
				return
			}
		} else {
			fmt.Fprintf(stderr, "Analyzed %s in %s\n", r.SitemapURL, r.Duration.Round(time.Millisecond))
		}

		if _, err := writer.Write(r); err != nil {
			logger.Error("report failed", "sitemap", r.SitemapURL, "error", err)
		}
		if err := saveReport(ctx, db, r, stderr, logger); err != nil {
			logger.Error("failed to save report", "sitemap", r.SitemapURL, "error", err)
		}
	}

	if len(cfg.SitemapURLs) > 1 && cfg.BatchSize > 1 {
		fmt.Fprintf(stderr, "Starting batch analysis of %d sitemaps (concurrency: %d)...\n",
			len(cfg.SitemapURLs), cfg.BatchSize)

		bp := pipeline.NewBatchProcessor(sa,
			pipeline.WithConcurrency(cfg.BatchSize),
			pipeline.WithBatchLogger(logger),
		)
		err = bp.ProcessBatchWithCallback(ctx, cfg.SitemapURLs, cfg.MaxPages, func(r *model.AnalysisReport, _ int) {
			handle(r)
		})
		if err != nil {
			return err
		}
	} else {
		for _, sitemap := range cfg.SitemapURLs {
			if err := ctx.Err(); err != nil {
				return err
			}
			fmt.Fprintf(stderr, "Analyzing %s...\n", sitemap)
			r, _ := sa.Analyze(ctx, sitemap, cfg.MaxPages) //nolint:errcheck // recorded in the report
			handle(r)
		}
	}

	switch {
	case failed == 0:
		return nil
	case len(cfg.SitemapURLs) == 1 && firstErr != nil:
		return firstErr
	default:
		return fmt.Errorf("%d of %d analyses failed", failed, len(cfg.SitemapURLs))
	}
}

// reportFormat maps the report flags to a report.Format.
func reportFormat(cfg *config.Config) report.Format {
	switch {
	case cfg.JSONReport:
		return report.FormatJSON
	case cfg.MarkdownReport:
		return report.FormatMarkdown
	case cfg.CSVReport:
		return report.FormatCSV
	default:
		return report.FormatText
	}
}

// newReportWriter writes the selected format to output. When a structured
// format goes to a file, a text summary is also written to stdout.
func newReportWriter(cfg *config.Config, output, stdout io.Writer) report.Writer {
	format := reportFormat(cfg)
	writer := report.New(format, output)
	if cfg.ReportFile == "" || format == report.FormatText {
		return writer
	}
	return report.NewMultiWriter(writer, report.NewSimpleWriter(stdout, report.WithMaxRows(10)))
}

// openOutput returns the report destination and a function that closes it.
func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // user-selected output path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// saveReport archives a successful report. A nil db is a no-op.
func saveReport(ctx context.Context, db *database.ReportDB, r *model.AnalysisReport, stderr io.Writer, logger *slog.Logger) error {
	if db == nil || !r.Success() {
		return nil
	}

	id, err := db.SaveReport(ctx, r)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	logger.Info("report saved to database", "sitemap", r.SitemapURL, "id", id)
	fmt.Fprintf(stderr, "Saved report #%d for %s\n", id, r.Site())
	return nil
}
