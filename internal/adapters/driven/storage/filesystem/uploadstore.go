package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// Ensure UploadStore implements the interface.
var _ driven.UploadStore = (*UploadStore)(nil)

// UploadStore keeps raw uploads in a flat directory keyed by filename.
type UploadStore struct {
	dir string
}

// NewUploadStore creates an upload store rooted at dir.
func NewUploadStore(dir string) *UploadStore {
	return &UploadStore{dir: dir}
}

// Dir returns the store directory.
func (s *UploadStore) Dir() string {
	return s.dir
}

// Save streams content to <dir>/<base filename>, overwriting any existing file.
// Directory components in filename are discarded.
func (s *UploadStore) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	path, err := safeJoin(s.dir, filename)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	return path, nil
}
