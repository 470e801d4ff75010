package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/linkweave/internal/model"
)

// JSONWriter outputs reports as the analysis response object.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report as a Response, or an ErrorResponse when the
// analysis failed.
func (w *JSONWriter) Write(report *model.AnalysisReport) (int, error) {
	if !report.Success() {
		return w.writeJSON(NewErrorResponse(report))
	}
	return w.writeJSON(NewResponse(report))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// Response is a successful analysis as returned to API callers.
type Response struct {
	Success     bool                   `json:"success"`
	Provider    *ProviderResponse      `json:"provider,omitempty"`
	Suggestions []model.LinkSuggestion `json:"suggestions"`
	Orphans     []string               `json:"orphans"`
	Stats       StatsResponse          `json:"stats"`
}

// ErrorResponse is a failed analysis as returned to API callers.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ProviderResponse describes the embedding provider in a Response.
type ProviderResponse struct {
	Name            string `json:"provider"`
	Model           string `json:"model"`
	Dimensions      int    `json:"dimensions"`
	CostPer1kTokens string `json:"costPer1kTokens"`
}

// StatsResponse summarizes the analysis in a Response.
type StatsResponse struct {
	TotalPages       int `json:"totalPages"`
	TotalSuggestions int `json:"totalSuggestions"`
	TotalOrphans     int `json:"totalOrphans"`
}

// NewResponse converts a successful report into a Response.
// report.Result must be set.
func NewResponse(report *model.AnalysisReport) *Response {
	resp := &Response{
		Success:     true,
		Suggestions: report.Result.Suggestions,
		Orphans:     report.Result.OrphanURLs(),
		Stats: StatsResponse{
			TotalPages:       report.Result.Stats.TotalPages,
			TotalSuggestions: report.Result.Stats.TotalSuggestions,
			TotalOrphans:     report.Result.Stats.TotalOrphans,
		},
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []model.LinkSuggestion{}
	}
	if report.Provider != nil {
		resp.Provider = &ProviderResponse{
			Name:            report.Provider.Name,
			Model:           report.Provider.Model,
			Dimensions:      report.Provider.Dimensions,
			CostPer1kTokens: report.Provider.CostPer1K,
		}
	}
	return resp
}

// NewErrorResponse converts a failed report into an ErrorResponse.
func NewErrorResponse(report *model.AnalysisReport) *ErrorResponse {
	msg := report.ErrorMessage
	if msg == "" {
		msg = "analysis did not complete"
	}
	return &ErrorResponse{Success: false, Error: msg}
}
