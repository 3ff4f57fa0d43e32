package memory

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// Ensure TextStore implements the interface.
var _ driven.TextStore = (*TextStore)(nil)

// TextStore is an in-memory implementation of driven.TextStore.
type TextStore struct {
	mu    sync.RWMutex
	texts map[string]string
}

// NewTextStore creates a new empty in-memory text store.
func NewTextStore() *TextStore {
	return &TextStore{texts: make(map[string]string)}
}

// Save stores text under name. The returned path is "memory://<name>".
func (s *TextStore) Save(_ context.Context, name, text string) (string, error) {
	name = filepath.Base(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[name] = text
	return "memory://" + name, nil
}

// List returns every .txt artifact sorted by name.
func (s *TextStore) List(_ context.Context) ([]domain.TextDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.TextDocument, 0, len(s.texts))
	for name, text := range s.texts {
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		docs = append(docs, domain.TextDocument{Name: name, Content: []byte(text)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// Get returns the text stored under name.
func (s *TextStore) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.texts[name]
	return text, ok
}
