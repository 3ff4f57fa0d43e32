package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// Ensure TextStore implements the interface.
var _ driven.TextStore = (*TextStore)(nil)

// TextStore keeps one <stem>.txt file per source document in a flat directory.
type TextStore struct {
	dir string
}

// NewTextStore creates a text store rooted at dir.
// The directory is created on first write.
func NewTextStore(dir string) *TextStore {
	return &TextStore{dir: dir}
}

// Dir returns the store directory.
func (s *TextStore) Dir() string {
	return s.dir
}

// Save writes text to <dir>/<base name>, replacing any previous artifact.
func (s *TextStore) Save(_ context.Context, name, text string) (string, error) {
	path, err := safeJoin(s.dir, name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create text dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write text artifact: %w", err)
	}
	return path, nil
}

// List reads every .txt file in the directory, sorted by name.
// A missing directory holds no artifacts.
func (s *TextStore) List(ctx context.Context) ([]domain.TextDocument, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list text dir: %w", err)
	}

	var docs []domain.TextDocument
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		docs = append(docs, domain.TextDocument{Name: entry.Name(), Content: content})
	}
	return docs, nil
}

// safeJoin joins the base name of name onto dir, rejecting names that
// would resolve to the directory itself.
func safeJoin(dir, name string) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) || base == "" {
		return "", fmt.Errorf("%w: invalid filename %q", domain.ErrInvalidInput, name)
	}
	return filepath.Join(dir, base), nil
}
