package model

import "time"

// AnalysisReport holds the state of one pipeline run.
// Pipeline steps read the fields filled by earlier steps and add their own.
type AnalysisReport struct {
	// SitemapURL is the sitemap the run was started with.
	SitemapURL string `json:"sitemap_url"`

	// MaxPages is the page budget after clamping.
	MaxPages int `json:"max_pages"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall time of the run, set when it finishes.
	Duration time.Duration `json:"duration"`

	// Provider describes the embedding provider used, if any.
	Provider *ProviderInfo `json:"provider,omitempty"`

	// Pages are the crawled pages. Not archived.
	Pages []*PageRecord `json:"-"`

	// Embeddings are the page vectors. Not archived.
	Embeddings []*PageEmbedding `json:"-"`

	// Result is set by the analyze step.
	Result *AnalysisResult `json:"result,omitempty"`

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Cancelled is true when the context ended before all steps ran.
	Cancelled bool `json:"cancelled,omitempty"`

	// Error is the fatal error of the run, if any.
	Error error `json:"-"`

	// ErrorMessage is Error rendered as text for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewAnalysisReport creates an empty report for the given sitemap.
func NewAnalysisReport(sitemapURL string, maxPages int) *AnalysisReport {
	return &AnalysisReport{
		SitemapURL:     sitemapURL,
		MaxPages:       maxPages,
		StartedAt:      time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// SetError records a fatal error on the report.
func (r *AnalysisReport) SetError(err error) {
	r.Error = err
	if err == nil {
		r.ErrorMessage = ""
		return
	}
	r.ErrorMessage = err.Error()
}

// Success reports whether the run produced a result without error.
func (r *AnalysisReport) Success() bool {
	return r.Result != nil && r.ErrorMessage == "" && !r.Cancelled
}

// Site returns the host of the sitemap URL, used to group archived reports.
func (r *AnalysisReport) Site() string {
	return HostOf(r.SitemapURL)
}
