package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
	"github.com/custodia-labs/travelrag/internal/core/ports/driving"
	"github.com/custodia-labs/travelrag/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService finds relevant chunks with maximal marginal relevance search.
type RetrievalService struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
	cfg      domain.RetrievalSettings
}

// NewRetrievalService creates a new retrieval service.
// Unset fields of cfg fall back to the package defaults.
func NewRetrievalService(
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	cfg domain.RetrievalSettings,
) *RetrievalService {
	if cfg.K <= 0 {
		cfg.K = domain.DefaultK
	}
	if cfg.FetchK <= 0 {
		cfg.FetchK = domain.DefaultFetchK
	}
	if cfg.Lambda < 0 || cfg.Lambda > 1 {
		cfg.Lambda = domain.DefaultMMRLambda
	}
	return &RetrievalService{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
	}
}

// Retrieve returns up to k chunks chosen from the fetchK nearest candidates.
// Non-positive k or fetchK use the configured values; fetchK is raised to k.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k, fetchK int) ([]domain.Chunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}

	if k <= 0 {
		k = s.cfg.K
	}
	if fetchK <= 0 {
		fetchK = s.cfg.FetchK
	}
	if fetchK < k {
		fetchK = k
	}
	logger.Debug("Retrieve: k=%d fetch_k=%d lambda=%.2f", k, fetchK, s.cfg.Lambda)

	exists, err := s.store.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check index: %w", err)
	}
	if !exists {
		return nil, domain.ErrIndexNotFound
	}

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.store.Search(ctx, vector, fetchK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("Fetched %d candidates", len(hits))

	return maxMarginalRelevance(vector, hits, k, s.cfg.Lambda), nil
}
