package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"docpipe/internal/domain"
)

// HTTPExtractor calls a remote text-extraction (OCR) service. The contract
// is narrow: a document location in, a status and ordered text blocks with
// confidence scores out.
type HTTPExtractor struct {
	baseURL string
	client  *http.Client
}

type extractRequest struct {
	Document string `json:"document"`
}

type extractResponse struct {
	Status string  `json:"status"`
	Blocks []block `json:"blocks"`
}

type block struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

func NewHTTPExtractor(baseURL string, timeout time.Duration) *HTTPExtractor {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HTTPExtractor{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (x *HTTPExtractor) Extract(ctx context.Context, ref domain.DocumentRef) (domain.Extraction, error) {
	jsonData, err := json.Marshal(extractRequest{Document: ref.Source})
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.baseURL+"/extract", bytes.NewBuffer(jsonData))
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.client.Do(req)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Extraction{}, fmt.Errorf("extraction service returned status %d: %s", resp.StatusCode, string(body))
	}

	var extResp extractResponse
	if err := json.Unmarshal(body, &extResp); err != nil {
		return domain.Extraction{}, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	fragments := make([]domain.Fragment, 0, len(extResp.Blocks))
	for _, b := range extResp.Blocks {
		fragments = append(fragments, domain.Fragment{
			Text:       b.Text,
			Confidence: b.Confidence,
		})
	}

	return domain.Extraction{
		Status:    extResp.Status,
		Fragments: fragments,
	}, nil
}
