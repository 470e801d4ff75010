package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/linkweave/internal/config"
	"github.com/nao1215/linkweave/internal/model"
)

// New creates the provider named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Provider, error) {
	switch normalizeName(cfg.Provider) {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg)
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.Provider)
	}
}

// InfoFor describes a provider by name without creating a client.
func InfoFor(name string) model.ProviderInfo {
	switch normalizeName(name) {
	case ProviderOpenAI:
		return model.ProviderInfo{
			Name:       openAIName,
			Model:      openAIDefaultModel,
			Dimensions: knownDimensions[openAIDefaultModel],
			CostPer1K:  openAICost,
		}
	case ProviderGemini:
		return model.ProviderInfo{
			Name:       geminiName,
			Model:      geminiDefaultModel,
			Dimensions: knownDimensions[geminiDefaultModel],
			CostPer1K:  geminiCost,
		}
	default:
		return model.ProviderInfo{
			Name:       "Unknown",
			Model:      "unknown",
			Dimensions: 0,
			CostPer1K:  "unknown",
		}
	}
}

// GetProviderInfo returns p.Info().
func GetProviderInfo(p Provider) model.ProviderInfo {
	return p.Info()
}

// Names lists the supported provider names.
func Names() []string {
	return []string{ProviderGemini, ProviderOpenAI}
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return config.DefaultProvider
	}
	return name
}
