package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nao1215/linkweave/internal/model"
)

const (
	openAIName         = "OpenAI"
	openAIDefaultModel = "text-embedding-3-small"
	openAIDefaultBase  = "https://api.openai.com"
	openAICost         = "$0.00002"
)

// openAIRequest is the request body for /v1/embeddings.
type openAIRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// openAIResponse is the response from /v1/embeddings.
type openAIResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// openAIErrorResponse is the error body returned on non-2xx responses.
type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// OpenAIProvider calls the OpenAI embeddings REST API.
type OpenAIProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIProvider creates an OpenAI provider. It fails with a
// *model.ProviderAuthError when cfg.APIKey is empty.
func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, &model.ProviderAuthError{Provider: openAIName}
	}

	p := &OpenAIProvider{
		apiKey:     cfg.APIKey,
		model:      openAIDefaultModel,
		baseURL:    openAIDefaultBase,
		httpClient: cfg.httpClient(),
	}
	if cfg.Model != "" {
		p.model = cfg.Model
	}
	if cfg.BaseURL != "" {
		p.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return p, nil
}

// Embed returns the embedding vector for the given text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if p.apiKey == "" {
		return nil, &model.ProviderAuthError{Provider: openAIName}
	}

	body, err := json.Marshal(openAIRequest{Model: p.model, Input: truncateInput(text)})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.ProviderAPIError{
			Provider:   openAIName,
			StatusCode: resp.StatusCode,
			Message:    openAIErrorMessage(resp),
		}
	}

	var result openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}

	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		return nil, &model.ProviderAPIError{Provider: openAIName, Message: "empty embedding in response"}
	}

	return result.Data[0].Embedding, nil
}

// Info describes the provider.
func (p *OpenAIProvider) Info() model.ProviderInfo {
	return model.ProviderInfo{
		Name:       openAIName,
		Model:      p.model,
		Dimensions: knownDimensions[p.model],
		CostPer1K:  openAICost,
	}
}

// openAIErrorMessage extracts error.message from the body, falling back
// to the status text.
func openAIErrorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil {
		var body openAIErrorResponse
		if json.Unmarshal(data, &body) == nil && body.Error.Message != "" {
			return body.Error.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}
