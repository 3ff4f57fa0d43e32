// Package openai provides an embedding service adapter using OpenAI API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
	"github.com/custodia-labs/travelrag/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = domain.DefaultOpenAIBaseURL
	DefaultModel      = domain.DefaultEmbeddingModel
	DefaultTimeout    = 60 * time.Second
	DefaultMaxRetries = 3
)

// Model dimensions for OpenAI embedding models.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config holds configuration for the OpenAI embedding service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-ada-002).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// MaxRetries is the number of retries after a 429, a 5xx or a
	// transport error (default: 3). Negative disables retries.
	MaxRetries int

	// RequestsPerSecond and Burst configure the client-side rate limiter.
	RequestsPerSecond float64
	Burst             int
}

// EmbeddingService generates embeddings using OpenAI API.
type EmbeddingService struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	maxRetries int
	limiter    *RateLimiter
	sleep      func(ctx context.Context, d time.Duration) error
}

// embeddingRequest is the OpenAI API request format.
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingResponse is the OpenAI API response format.
type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewEmbeddingService creates a new OpenAI embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	dimensions, ok := modelDimensions[cfg.Model]
	if !ok {
		dimensions = 1536 // Default fallback
	}

	return &EmbeddingService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: dimensions,
		maxRetries: cfg.MaxRetries,
		limiter:    NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		sleep:      sleepContext,
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 || embeddings[0] == nil {
		return nil, fmt.Errorf("openai: no embedding returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one request.
// Rate-limited and failed requests are retried with exponential backoff.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	jsonBody, err := json.Marshal(embeddingRequest{Model: s.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Debug("openai: retrying embeddings (attempt %d): %v", attempt+1, lastErr)
			if err := s.sleep(ctx, retryDelay(attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		embeddings, retryable, err := s.post(ctx, jsonBody, len(texts))
		if err == nil {
			return embeddings, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// post sends one embeddings request. The boolean reports whether the
// failure is worth retrying.
func (s *EmbeddingService) post(ctx context.Context, body []byte, n int) ([][]float32, bool, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/embeddings",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		s.limiter.RecordRateLimit(parseRetryAfter(resp.Header.Get("Retry-After")))
		return nil, true, fmt.Errorf("openai: %w (status %d)", domain.ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, true, fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var embedResp embeddingResponse
	if err := json.Unmarshal(respBody, &embedResp); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}

	if embedResp.Error != nil {
		return nil, false, fmt.Errorf("openai error: %s", embedResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(respBody))
	}

	// Convert float64 to float32 and order by index
	embeddings := make([][]float32, n)
	for _, data := range embedResp.Data {
		if data.Index < 0 || data.Index >= n {
			return nil, false, fmt.Errorf("openai: embedding index %d out of range", data.Index)
		}
		embedding := make([]float32, len(data.Embedding))
		for i, v := range data.Embedding {
			embedding[i] = float32(v)
		}
		embeddings[data.Index] = embedding
	}
	for i, e := range embeddings {
		if e == nil {
			return nil, false, fmt.Errorf("openai: missing embedding for input %d", i)
		}
	}

	return embeddings, false, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("openai: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("openai: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// retryDelay is an exponential backoff starting at 200ms, capped at 5s.
func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 5 {
		return 5 * time.Second
	}
	d := 200 * time.Millisecond << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(header)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
