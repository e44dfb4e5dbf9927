package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Reranker scores (query, document) pairs jointly. Higher is more
// relevant. The cross-encoder model itself lives behind this contract.
type Reranker interface {
	Score(ctx context.Context, query string, documents []string) ([]float64, error)
}

// HTTPCrossEncoder calls an external cross-encoder scoring service.
type HTTPCrossEncoder struct {
	baseURL string
	client  *http.Client
}

// NewHTTPCrossEncoder creates a client for the scoring service.
func NewHTTPCrossEncoder(baseURL string) *HTTPCrossEncoder {
	return &HTTPCrossEncoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type scoreRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
}

type scoreResponse struct {
	Scores []float64 `json:"scores"`
}

// Score posts the pairs to the service and returns one score per document.
func (c *HTTPCrossEncoder) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	body, err := json.Marshal(scoreRequest{Query: query, Documents: documents})
	if err != nil {
		return nil, fmt.Errorf("failed to encode score request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cross-encoder request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cross-encoder returned status %d", resp.StatusCode)
	}

	var decoded scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("cross-encoder response malformed: %w", err)
	}
	return decoded.Scores, nil
}
