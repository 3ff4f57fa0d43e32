// Package plaintext reads .txt and .md files as raw text.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text and markdown documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatTXT, domain.FormatMD}
}

// Extract returns the file contents. Invalid UTF-8 sequences are dropped.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.ToValidUTF8(string(content), ""), nil
}
