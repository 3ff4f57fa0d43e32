// Package watcher ingests documents dropped into a directory.
//
// Create and write events for supported formats are collected until the
// directory has been quiet for the debounce interval, then the settled set
// is ingested as one batch so the index is rebuilt once per burst.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driving"
	"github.com/custodia-labs/travelrag/internal/logger"
)

// DefaultDebounce is how long the directory must be quiet before a batch is ingested.
const DefaultDebounce = 2 * time.Second

// BatchFunc observes the outcome of each ingested batch.
type BatchFunc func(files []string, result *domain.IngestResult, err error)

// Watcher feeds files appearing in a directory to an IngestService.
type Watcher struct {
	dir      string
	ingest   driving.IngestService
	debounce time.Duration
	onBatch  BatchFunc

	fsw  *fsnotify.Watcher
	done chan struct{}
	once sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithBatchFunc registers a callback invoked after every batch.
func WithBatchFunc(fn BatchFunc) Option {
	return func(w *Watcher) {
		w.onBatch = fn
	}
}

// New creates a watcher for dir. It does not touch the filesystem until Start.
func New(dir string, ingest driving.IngestService, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		ingest:   ingest,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Start begins watching. Events are processed on a background goroutine
// until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	if w.ingest == nil {
		return errors.New("watcher: ingest service is required")
	}
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: %w: not a directory", w.dir, domain.ErrInvalidInput)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.fsw = fsw

	logger.Info("watcher: watching %s (debounce %s)", w.dir, w.debounce)
	go w.loop(ctx)
	return nil
}

// Done is closed once the watcher has stopped.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Close stops the watcher and releases the underlying fsnotify handle.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		if w.fsw != nil {
			err = w.fsw.Close()
		}
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	defer w.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			path, ok := handleFsEvent(event)
			if !ok {
				continue
			}
			logger.Debug("watcher: %s %s", event.Op, path)
			pending[path] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher: %v", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			files := make([]string, 0, len(pending))
			for path := range pending {
				files = append(files, path)
			}
			sort.Strings(files)
			clear(pending)
			w.flush(ctx, files)
		}
	}
}

// flush ingests files as one batch. Files that vanished since their event
// are skipped.
func (w *Watcher) flush(ctx context.Context, files []string) {
	uploads := make([]domain.Upload, 0, len(files))
	opened := make([]*os.File, 0, len(files))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	ingested := make([]string, 0, len(files))
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			logger.Warn("watcher: skip %s: %v", path, err)
			continue
		}
		opened = append(opened, f)
		uploads = append(uploads, domain.Upload{Filename: filepath.Base(path), Content: f})
		ingested = append(ingested, path)
	}
	if len(uploads) == 0 {
		return
	}

	result, err := w.ingest.IngestBatch(ctx, uploads)
	if err != nil {
		logger.Error("watcher: ingest %d file(s): %v", len(uploads), err)
	} else {
		logger.Info("watcher: ingested %d file(s), index %s (%d chunks)",
			len(result.SavedFiles), result.Index.Status, result.Index.Chunks)
		for _, entry := range result.Extracted {
			if entry.Err != nil {
				logger.Warn("watcher: %s: %v", entry.SourceFile, entry.Err)
			}
		}
	}

	if w.onBatch != nil {
		w.onBatch(ingested, result, err)
	}
}

// handleFsEvent returns the path to ingest for a create or write event on
// a visible regular file of a supported format.
func handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(event.Name) {
		return "", false
	}
	if !domain.DetectFormat(event.Name).IsSupported() {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

// isHidden reports dotfiles and editor lock files such as "~$trip.docx".
func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~")
}
