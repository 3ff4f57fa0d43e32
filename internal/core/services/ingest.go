package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
	"github.com/custodia-labs/travelrag/internal/core/ports/driving"
	"github.com/custodia-labs/travelrag/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService saves, extracts and indexes batches of uploads.
type IngestService struct {
	uploads   driven.UploadStore
	extractor driving.ExtractionService
	indexer   driving.IndexService
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	uploads driven.UploadStore,
	extractor driving.ExtractionService,
	indexer driving.IndexService,
) *IngestService {
	return &IngestService{
		uploads:   uploads,
		extractor: extractor,
		indexer:   indexer,
	}
}

// IngestBatch processes every upload in order, then rebuilds the index once.
// A file that fails to save or extract is reported on its ExtractedFile and
// the rest of the batch continues. A failed rebuild fails the batch.
func (s *IngestService) IngestBatch(ctx context.Context, uploads []domain.Upload) (*domain.IngestResult, error) {
	logger.Section("Ingest")

	result := &domain.IngestResult{
		SavedFiles: make([]string, 0, len(uploads)),
		Extracted:  make([]domain.ExtractedFile, 0, len(uploads)),
	}

	for _, upload := range uploads {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := filepath.Base(upload.Filename)
		entry := domain.ExtractedFile{SourceFile: name}

		savedPath, err := s.uploads.Save(ctx, name, upload.Content)
		if err != nil {
			logger.Warn("Could not save upload %s: %v", name, err)
			entry.Err = fmt.Errorf("save %s: %w", name, err)
			result.Extracted = append(result.Extracted, entry)
			continue
		}
		result.SavedFiles = append(result.SavedFiles, savedPath)

		extraction, err := s.extractor.ExtractText(ctx, savedPath)
		if err != nil {
			logger.Warn("Could not extract %s: %v", name, err)
			entry.Err = err
			result.Extracted = append(result.Extracted, entry)
			continue
		}

		entry.ExtractedTextFile = extraction.SavedPath
		entry.TextPreview = domain.Preview(extraction.Text)
		result.Extracted = append(result.Extracted, entry)
		logger.Info("Ingested %s", name)
	}

	build, err := s.indexer.BuildIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("reindex: %w", err)
	}
	result.Index = *build

	return result, nil
}
