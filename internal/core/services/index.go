package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
	"github.com/custodia-labs/travelrag/internal/core/ports/driving"
	"github.com/custodia-labs/travelrag/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// embedBatchSize is the number of chunks sent per embedding request.
const embedBatchSize = 100

// IndexService rebuilds the vector index from every persisted text artifact.
type IndexService struct {
	mu       sync.Mutex
	texts    driven.TextStore
	pipeline driven.ChunkPipeline
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewIndexService creates a new index service.
// The embedder is optional; without it BuildIndex fails with
// domain.ErrEmbeddingUnavailable once there is something to index.
func NewIndexService(
	texts driven.TextStore,
	pipeline driven.ChunkPipeline,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
) *IndexService {
	return &IndexService{
		texts:    texts,
		pipeline: pipeline,
		embedder: embedder,
		store:    store,
	}
}

// BuildIndex chunks, embeds and indexes every text artifact, replacing the
// previous index wholesale. Concurrent calls are serialised.
func (s *IndexService) BuildIndex(ctx context.Context) (*domain.IndexBuild, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Section("Index Rebuild")

	docs, err := s.texts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list text artifacts: %w", err)
	}
	if len(docs) == 0 {
		logger.Info("No text artifacts to index")
		return &domain.IndexBuild{Status: domain.IndexStatusNoTexts}, nil
	}

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	var chunks []domain.Chunk
	for i := range docs {
		docChunks, err := s.pipeline.Process(ctx, &docs[i])
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", docs[i].Name, err)
		}
		logger.Debug("%s: %d chunks", docs[i].Name, len(docChunks))
		chunks = append(chunks, docChunks...)
	}

	if err := s.embed(ctx, chunks); err != nil {
		return nil, err
	}

	if err := s.store.Rebuild(ctx, chunks); err != nil {
		return nil, fmt.Errorf("rebuild index: %w", err)
	}

	logger.Info("Indexed %d chunks from %d documents", len(chunks), len(docs))
	return &domain.IndexBuild{
		Status:    domain.IndexStatusOK,
		Documents: len(docs),
		Chunks:    len(chunks),
	}, nil
}

// embed fills in the embedding of every chunk, embedBatchSize at a time.
func (s *IndexService) embed(ctx context.Context, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Content)
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks %d-%d: %w", start, end, err)
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("embed chunks %d-%d: got %d embeddings for %d texts",
				start, end, len(vectors), len(texts))
		}

		for i, v := range vectors {
			chunks[start+i].Embedding = v
		}
	}
	return nil
}
