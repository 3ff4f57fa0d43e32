package services

import (
	"context"
	"errors"
	"hash/fnv"
	"io"
	"strings"
	"sync"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Embeddings are a deterministic bag-of-words hash, so texts sharing words
// are similar and identical texts have similarity 1.
type mockEmbeddingService struct {
	mu         sync.Mutex
	embedErr   error
	batchSizes []int
	queries    []string
}

const mockDims = 64

func mockEmbed(text string) []float32 {
	v := make([]float32, mockDims)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		v[h.Sum32()%mockDims]++
	}
	return v
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.queries = append(m.queries, text)
	return mockEmbed(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.batchSizes = append(m.batchSizes, len(texts))
	result := make([][]float32, len(texts))
	for i, t := range texts {
		result[i] = mockEmbed(t)
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return mockDims
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService and records every call.
type mockLLMService struct {
	mu          sync.Mutex
	response    string
	generateErr error
	prompts     []string
	opts        []driven.GenerateOptions
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

func (m *mockLLMService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// mockRepairer implements driven.FormattingRepairer for testing.
type mockRepairer struct {
	repairErr error
	inputs    []string
}

func (m *mockRepairer) RepairFormatting(_ context.Context, text string) (string, error) {
	m.inputs = append(m.inputs, text)
	if m.repairErr != nil {
		return "", m.repairErr
	}
	return "REPAIRED: " + text, nil
}

// mockRegistry implements driven.ExtractorRegistry with canned text per file.
type mockRegistry struct {
	texts      map[string]string
	extractErr error
}

func (m *mockRegistry) Extract(_ context.Context, path string) (string, error) {
	if m.extractErr != nil {
		return "", m.extractErr
	}
	for name, text := range m.texts {
		if strings.HasSuffix(path, name) {
			return text, nil
		}
	}
	return "", nil
}

func (m *mockRegistry) Register(_ driven.Extractor) {}

func (m *mockRegistry) SupportedFormats() []domain.Format {
	return []domain.Format{domain.FormatPDF, domain.FormatDOCX, domain.FormatTXT, domain.FormatMD}
}

// failingTextStore implements driven.TextStore with configurable errors.
type failingTextStore struct {
	saveErr error
	listErr error
}

func (m *failingTextStore) Save(_ context.Context, _, _ string) (string, error) {
	return "", m.saveErr
}

func (m *failingTextStore) List(_ context.Context) ([]domain.TextDocument, error) {
	return nil, m.listErr
}

// mockUploadStore implements driven.UploadStore, keeping uploads in memory.
type mockUploadStore struct {
	files   map[string]string
	failFor string
}

func newMockUploadStore() *mockUploadStore {
	return &mockUploadStore{files: make(map[string]string)}
}

func (m *mockUploadStore) Save(_ context.Context, filename string, content io.Reader) (string, error) {
	if filename == m.failFor {
		return "", errors.New("disk full")
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	m.files[filename] = string(data)
	return "/uploads/" + filename, nil
}

// mockVectorStore implements driven.VectorStore with canned hits.
type mockVectorStore struct {
	exists    bool
	existsErr error
	hits      []driven.VectorHit
	searchErr error
	rebuilds  int
	searchK   int
}

func (m *mockVectorStore) Exists(_ context.Context) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockVectorStore) Rebuild(_ context.Context, _ []domain.Chunk) error {
	m.rebuilds++
	return nil
}

func (m *mockVectorStore) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	m.searchK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorStore) Close() error {
	return nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", errors.New("prompt not found")
}

func (m *mockPromptStore) Reload() {}

// mockAIConfigValidator implements driven.AIConfigValidator for testing.
type mockAIConfigValidator struct {
	err    error
	called *domain.OpenAISettings
}

func (m *mockAIConfigValidator) ValidateOpenAI(cfg *domain.OpenAISettings) error {
	m.called = cfg
	return m.err
}

// mockIndexService implements driving.IndexService for testing.
type mockIndexService struct {
	build *domain.IndexBuild
	err   error
	calls int
}

func (m *mockIndexService) BuildIndex(_ context.Context) (*domain.IndexBuild, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.build, nil
}

func strPtr(s string) *string {
	return &s
}
