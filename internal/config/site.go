package config

// SiteConfig holds crawl settings for a single site.
type SiteConfig struct {
	// Headers are extra HTTP headers sent with every crawl request.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxPages overrides the page budget for this site. Zero keeps the
	// global value.
	MaxPages int `yaml:"maxPages,omitempty"`

	// IgnorePatterns are URL path globs. Matching sitemap entries are
	// dropped before the page budget is applied.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// RespectRobots enables robots.txt compliance for this site.
	RespectRobots bool `yaml:"respectRobots,omitempty"`

	// Readability enables readability-based content selection for this site.
	Readability bool `yaml:"readability,omitempty"`
}

// EmbeddingSettings configures the embedding provider from the config file.
// API keys are deliberately absent; they come from the environment.
type EmbeddingSettings struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	BaseURL  string `yaml:"baseURL,omitempty"`
}

// AnalysisSettings overrides the analyzer defaults from the config file.
type AnalysisSettings struct {
	SimilarityThreshold float64 `yaml:"similarityThreshold,omitempty"`
	OrphanThreshold     int     `yaml:"orphanThreshold,omitempty"`
	SuggestionLimit     int     `yaml:"suggestionLimit,omitempty"`
	AnchorWords         int     `yaml:"anchorWords,omitempty"`
}

// File represents the structure of the .linkweave configuration file.
type File struct {
	// Sites maps hostnames (e.g. "blog.example.com") to their settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults applies to every site unless overridden.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Embedding selects the provider and model.
	Embedding EmbeddingSettings `yaml:"embedding,omitempty"`

	// Analysis overrides analyzer thresholds.
	Analysis AnalysisSettings `yaml:"analysis,omitempty"`
}

// NewFile returns an empty configuration file.
func NewFile() *File {
	return &File{Sites: make(map[string]SiteConfig)}
}

// GetSiteConfig returns the configuration for a host, merged over the defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	if cf.Defaults.Headers != nil {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	siteConfig, ok := cf.Sites[host]
	if !ok {
		return result
	}

	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range siteConfig.Headers {
			result.Headers[k] = v
		}
	}
	if siteConfig.MaxPages > 0 {
		result.MaxPages = siteConfig.MaxPages
	}
	if len(siteConfig.IgnorePatterns) > 0 {
		result.IgnorePatterns = siteConfig.IgnorePatterns
	}
	if siteConfig.RespectRobots {
		result.RespectRobots = true
	}
	if siteConfig.Readability {
		result.Readability = true
	}

	return result
}

// Apply copies file-level embedding and analysis settings onto cfg.
// Zero values in the file leave cfg untouched.
func (cf *File) Apply(cfg *Config) {
	if cf.Embedding.Provider != "" {
		cfg.Provider = cf.Embedding.Provider
	}
	if cf.Embedding.Model != "" {
		cfg.Model = cf.Embedding.Model
	}
	if cf.Embedding.BaseURL != "" {
		cfg.ProviderBaseURL = cf.Embedding.BaseURL
	}
	if cf.Analysis.SimilarityThreshold > 0 {
		cfg.SimilarityThreshold = cf.Analysis.SimilarityThreshold
	}
	if cf.Analysis.OrphanThreshold > 0 {
		cfg.OrphanThreshold = cf.Analysis.OrphanThreshold
	}
	if cf.Analysis.SuggestionLimit > 0 {
		cfg.SuggestionLimit = cf.Analysis.SuggestionLimit
	}
	if cf.Analysis.AnchorWords > 0 {
		cfg.AnchorWords = cf.Analysis.AnchorWords
	}
}
