package watcher

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/travelrag/internal/core/domain"
)

// recordingIngest captures the filename and content of every upload.
type recordingIngest struct {
	mu      sync.Mutex
	batches []map[string]string
	err     error
}

func (r *recordingIngest) IngestBatch(_ context.Context, uploads []domain.Upload) (*domain.IngestResult, error) {
	batch := make(map[string]string, len(uploads))
	result := &domain.IngestResult{Index: domain.IndexBuild{Status: domain.IndexStatusOK}}
	for _, u := range uploads {
		data, err := io.ReadAll(u.Content)
		if err != nil {
			return nil, err
		}
		batch[u.Filename] = string(data)
		result.SavedFiles = append(result.SavedFiles, u.Filename)
	}

	r.mu.Lock()
	r.batches = append(r.batches, batch)
	r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	return result, nil
}

func (r *recordingIngest) snapshot() []map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]map[string]string(nil), r.batches...)
}

func TestNew(t *testing.T) {
	t.Run("default debounce", func(t *testing.T) {
		w := New("/tmp/docs", &recordingIngest{})
		assert.Equal(t, DefaultDebounce, w.debounce)
		assert.Equal(t, "/tmp/docs", w.Dir())
	})

	t.Run("custom debounce", func(t *testing.T) {
		w := New("/tmp/docs", &recordingIngest{}, WithDebounce(50*time.Millisecond))
		assert.Equal(t, 50*time.Millisecond, w.debounce)
	})

	t.Run("non-positive debounce ignored", func(t *testing.T) {
		w := New("/tmp/docs", &recordingIngest{}, WithDebounce(0))
		assert.Equal(t, DefaultDebounce, w.debounce)
	})
}

func TestWatcher_Start_Errors(t *testing.T) {
	t.Run("missing ingest service", func(t *testing.T) {
		w := New(t.TempDir(), nil)
		assert.Error(t, w.Start(context.Background()))
	})

	t.Run("missing directory", func(t *testing.T) {
		w := New(filepath.Join(t.TempDir(), "absent"), &recordingIngest{})
		assert.Error(t, w.Start(context.Background()))
	})

	t.Run("file instead of directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trip.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

		err := New(path, &recordingIngest{}).Start(context.Background())
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestWatcher_IngestsSettledBatch(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngest{}
	batches := make(chan []string, 4)

	w := New(dir, ingest,
		WithDebounce(200*time.Millisecond),
		WithBatchFunc(func(files []string, _ *domain.IngestResult, _ error) {
			batches <- files
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ticket.txt"), []byte("Passenger: Jane Doe"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# Itinerary"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.png"), []byte("png"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("secret"), 0o600))

	select {
	case files := <-batches:
		assert.Len(t, files, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for batch")
	}

	got := ingest.snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, "Passenger: Jane Doe", got[0]["ticket.txt"])
	assert.Equal(t, "# Itinerary", got[0]["notes.md"])
	assert.NotContains(t, got[0], "photo.png")
	assert.NotContains(t, got[0], ".hidden.txt")

	cancel()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_ReportsIngestError(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngest{err: errors.New("reindex: embedding failed")}
	errs := make(chan error, 1)

	w := New(dir, ingest,
		WithDebounce(100*time.Millisecond),
		WithBatchFunc(func(_ []string, _ *domain.IngestResult, err error) {
			errs <- err
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "hotel.txt"), []byte("Check-in 15:00"), 0o600))

	select {
	case err := <-errs:
		assert.ErrorContains(t, err, "embedding failed")
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for batch")
	}
}

func TestWatcher_Close(t *testing.T) {
	w := New(t.TempDir(), &recordingIngest{})
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close(), "second close should be a no-op")

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after close")
	}
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/docs/ticket.pdf", false},
		{"/docs/.ticket.pdf", true},
		{"/docs/~$ticket.docx", true},
		{"ticket.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}

func TestHandleFsEvent(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "ticket.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o600))
	sub := filepath.Join(dir, "folder.txt")
	require.NoError(t, os.Mkdir(sub, 0o755))

	tests := []struct {
		name     string
		path     string
		op       fsnotify.Op
		expected bool
	}{
		{"create supported file", txt, fsnotify.Create, true},
		{"write supported file", txt, fsnotify.Write, true},
		{"write with chmod", txt, fsnotify.Write | fsnotify.Chmod, true},
		{"chmod only", txt, fsnotify.Chmod, false},
		{"remove", txt, fsnotify.Remove, false},
		{"rename", txt, fsnotify.Rename, false},
		{"directory", sub, fsnotify.Create, false},
		{"unsupported extension", filepath.Join(dir, "photo.png"), fsnotify.Create, false},
		{"vanished file", filepath.Join(dir, "gone.txt"), fsnotify.Create, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := handleFsEvent(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.expected, ok)
			if tt.expected {
				assert.Equal(t, tt.path, path)
			}
		})
	}
}
