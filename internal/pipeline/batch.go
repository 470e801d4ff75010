package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/linkweave/internal/config"
	"github.com/nao1215/linkweave/internal/model"
)

// Analyzer runs a single sitemap analysis. *Runner implements it.
type Analyzer interface {
	Analyze(ctx context.Context, sitemapURL string, maxPages int) (*model.AnalysisReport, error)
}

// BatchProcessor analyzes multiple sitemaps concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
type BatchProcessor struct {
	// analyzer runs each individual sitemap.
	analyzer Analyzer

	// concurrency is the maximum number of concurrent runs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent runs.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(analyzer Analyzer, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		analyzer:    analyzer,
		concurrency: config.DefaultBatchSize,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatchWithCallback analyzes multiple sitemaps concurrently and
// calls callback for each finished run, with the sitemap's index in the
// input slice. The callback is called from worker goroutines and must be
// safe for concurrent use.
//
// A failed run does not stop the others; its error is recorded in the
// report passed to callback. The returned error is only set when the
// batch itself was cancelled.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	sitemaps []string,
	maxPages int,
	callback func(report *model.AnalysisReport, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total_sitemaps", len(sitemaps),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, sitemap := range sitemaps {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("analyzing sitemap",
				"sitemap", sitemap,
				"index", i+1,
				"total", len(sitemaps),
			)

			report, err := bp.analyzer.Analyze(ctx, sitemap, maxPages)
			callback(report, i)

			if err != nil {
				// The error is recorded in the report; other runs continue.
				bp.logger.Warn("analysis failed",
					"sitemap", sitemap,
					"error", err,
				)
				return nil
			}

			bp.logger.Info("analysis completed", "sitemap", sitemap)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch processing complete",
		"total_sitemaps", len(sitemaps),
		"elapsed", time.Since(startTime),
	)
	return err
}
