package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
	"github.com/custodia-labs/travelrag/internal/core/ports/driving"
	"github.com/custodia-labs/travelrag/internal/logger"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// ExtractionService extracts plain text from source documents and persists it.
type ExtractionService struct {
	registry driven.ExtractorRegistry
	texts    driven.TextStore
	repairer driven.FormattingRepairer
}

// NewExtractionService creates a new extraction service.
// The repairer is optional; without it PDF extraction fails with
// domain.ErrLLMUnavailable.
func NewExtractionService(
	registry driven.ExtractorRegistry,
	texts driven.TextStore,
	repairer driven.FormattingRepairer,
) *ExtractionService {
	return &ExtractionService{
		registry: registry,
		texts:    texts,
		repairer: repairer,
	}
}

// ExtractText extracts the text of the file at path and writes it to the
// text store as <stem>.txt. The artifact is written even when the text is
// empty. A failed write is logged and reported as an empty SavedPath.
func (s *ExtractionService) ExtractText(ctx context.Context, path string) (*domain.Extraction, error) {
	name := filepath.Base(path)
	format := domain.DetectFormat(name)
	logger.Debug("Extracting %s (format %s)", name, format)

	text, err := s.registry.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}

	if format == domain.FormatPDF && strings.TrimSpace(text) != "" {
		text, err = s.repair(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("repair %s: %w", name, err)
		}
	}

	artifact := domain.TextArtifactName(name)
	savedPath, err := s.texts.Save(ctx, artifact, text)
	if err != nil {
		logger.Warn("Could not save text artifact %s: %v", artifact, err)
		savedPath = ""
	}

	logger.Debug("Extracted %d characters from %s", len([]rune(text)), name)
	return &domain.Extraction{Text: text, SavedPath: savedPath}, nil
}

func (s *ExtractionService) repair(ctx context.Context, text string) (string, error) {
	if s.repairer == nil {
		return "", domain.ErrLLMUnavailable
	}
	return s.repairer.RepairFormatting(ctx, text)
}
