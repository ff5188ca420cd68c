package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"docpipe/internal/domain"
)

func providerErr(provider, msg string, err error) error {
	return &domain.ProviderError{Provider: provider, Msg: msg, Err: err}
}

// HTTPEmbedder calls an embedding service that accepts exactly one text per
// request. Batch embedding is not part of the provider contract; callers
// issue one call per item and rate-limit between calls. The adapter never
// retries: retry policy belongs to the pipeline so that execution logging
// can observe each attempt.
type HTTPEmbedder struct {
	apiKey    string
	model     string
	baseURL   string
	dimension int
	client    *http.Client
}

type embedRequest struct {
	InputText string `json:"inputText"`
	Model     string `json:"model,omitempty"`
}

type embedResponse struct {
	Embedding  []float64 `json:"embedding"`
	TokenCount int       `json:"inputTextTokenCount,omitempty"`
	Error      *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewHTTPEmbedder creates an embedder for the given service endpoint.
// The API key is read from the named environment variable; an empty
// apiKeyEnv means the service is unauthenticated.
func NewHTTPEmbedder(apiKeyEnv, model, baseURL string, dimension int, timeout time.Duration) (*HTTPEmbedder, error) {
	var apiKey string
	if apiKeyEnv != "" {
		apiKey = os.Getenv(apiKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
		}
	}
	if dimension <= 0 {
		dimension = 1024
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &HTTPEmbedder{
		apiKey:    apiKey,
		model:     model,
		baseURL:   baseURL,
		dimension: dimension,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

// Embed generates the embedding for a single text.
func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	jsonData, err := json.Marshal(embedRequest{InputText: text, Model: e.model})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, providerErr(e.model, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, providerErr(e.model, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, providerErr(e.model, fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var embResp embedResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200]
		}
		return nil, providerErr(e.model, fmt.Sprintf("failed to parse response (body: %s)", bodyPreview), err)
	}

	if embResp.Error != nil {
		return nil, providerErr(e.model, embResp.Error.Message, nil)
	}
	if len(embResp.Embedding) == 0 {
		return nil, providerErr(e.model, "response contained no embedding", nil)
	}

	return embResp.Embedding, nil
}

// Dimension returns the embedding vector dimension.
func (e *HTTPEmbedder) Dimension() int {
	return e.dimension
}

// ModelName returns the name of the embedding model.
func (e *HTTPEmbedder) ModelName() string {
	return e.model
}
