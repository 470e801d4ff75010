package embedding

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nao1215/linkweave/internal/config"
	"github.com/nao1215/linkweave/internal/model"
)

// Generator embeds crawled pages one at a time.
type Generator struct {
	provider Provider
	delay    time.Duration
	logger   *slog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithEmbedDelay sets the delay between embedding requests.
func WithEmbedDelay(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.delay = d
	}
}

// WithGeneratorLogger sets the logger used for dropped pages.
func WithGeneratorLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a Generator backed by provider.
func NewGenerator(provider Provider, opts ...GeneratorOption) *Generator {
	g := &Generator{
		provider: provider,
		delay:    config.DefaultEmbedDelay,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateEmbeddings embeds each page's title and content in page order.
//
// A failing page is logged and left out of the result, as is a vector
// whose length differs from the first one returned. A
// *model.ProviderAuthError or the end of ctx aborts immediately. When
// pages is non-empty and nothing could be embedded, the last failure is
// reported as a *model.ProviderAPIError.
func (g *Generator) GenerateEmbeddings(ctx context.Context, pages []*model.PageRecord) ([]*model.PageEmbedding, error) {
	info := g.provider.Info()
	g.logger.Info("generating embeddings",
		"provider", info.Name,
		"model", info.Model,
		"pages", len(pages),
	)

	embeddings := make([]*model.PageEmbedding, 0, len(pages))
	var lastErr error
	dims := 0

	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return embeddings, err
		}

		vector, err := g.provider.Embed(ctx, page.EmbeddingInput())
		switch {
		case err != nil:
			var authErr *model.ProviderAuthError
			if errors.As(err, &authErr) {
				return nil, err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return embeddings, ctxErr
			}
			lastErr = err
			g.logger.Warn("failed to embed page", "url", page.URL, "error", err)
		default:
			embedding := &model.PageEmbedding{
				URL:       page.URL,
				Title:     page.Title,
				Embedding: vector,
			}
			if dims != 0 && embedding.Dimensions() != dims {
				lastErr = &model.ProviderAPIError{Provider: info.Name, Message: "inconsistent embedding dimensions"}
				g.logger.Warn("dropping embedding with unexpected dimensions",
					"url", page.URL,
					"got", embedding.Dimensions(),
					"want", dims,
				)
			} else {
				dims = embedding.Dimensions()
				embeddings = append(embeddings, embedding)
			}
		}

		if g.delay > 0 && i < len(pages)-1 {
			select {
			case <-ctx.Done():
				return embeddings, ctx.Err()
			case <-time.After(g.delay):
			}
		}
	}

	if len(pages) > 0 && len(embeddings) == 0 {
		msg := "all embedding requests failed"
		status := 0
		var apiErr *model.ProviderAPIError
		if errors.As(lastErr, &apiErr) {
			status = apiErr.StatusCode
			msg += ": " + apiErr.Message
		} else if lastErr != nil {
			msg += ": " + lastErr.Error()
		}
		return nil, &model.ProviderAPIError{Provider: info.Name, StatusCode: status, Message: msg}
	}

	g.logger.Info("embeddings generated", "embedded", len(embeddings), "dropped", len(pages)-len(embeddings))
	return embeddings, nil
}

// Info describes the underlying provider.
func (g *Generator) Info() model.ProviderInfo {
	return g.provider.Info()
}
