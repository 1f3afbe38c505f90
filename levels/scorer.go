package levels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Score is the result of one readability evaluation. The scoring service is
// deterministic: identical text always yields an identical score.
type Score struct {
	Tier  Tier    `json:"tier"`
	Level float64 `json:"level"`
}

// Scorer evaluates reading difficulty of a text.
type Scorer interface {
	Score(ctx context.Context, text string) (Score, error)
}

// HTTPScorer calls the external readability scoring service.
type HTTPScorer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPScorer(baseURL string) *HTTPScorer {
	return &HTTPScorer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPScorer) Score(ctx context.Context, text string) (Score, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Score{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return Score{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Score{}, fmt.Errorf("scorer request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Score{}, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	var sc Score
	if err := json.NewDecoder(resp.Body).Decode(&sc); err != nil {
		return Score{}, fmt.Errorf("scorer response decode failed: %w", err)
	}
	return sc, nil
}
