package api

import (
	"context"
	"hash/fnv"
	"io"
	"strings"
	"sync"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// mockIngestService records the uploads of every batch.
type mockIngestService struct {
	result    *domain.IngestResult
	err       error
	filenames []string
	contents  []string
}

func (m *mockIngestService) IngestBatch(_ context.Context, uploads []domain.Upload) (*domain.IngestResult, error) {
	for _, u := range uploads {
		data, _ := io.ReadAll(u.Content)
		m.filenames = append(m.filenames, u.Filename)
		m.contents = append(m.contents, string(data))
	}
	return m.result, m.err
}

type mockIndexService struct {
	build *domain.IndexBuild
	err   error
}

func (m *mockIndexService) BuildIndex(_ context.Context) (*domain.IndexBuild, error) {
	return m.build, m.err
}

type mockAnswerService struct {
	answer    *domain.Answer
	err       error
	questions []string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (*domain.Answer, error) {
	m.questions = append(m.questions, question)
	return m.answer, m.err
}

// hashEmbedder is a deterministic bag-of-words embedder.
type hashEmbedder struct{}

var _ driven.EmbeddingService = hashEmbedder{}

func (hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, 64)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		v[h.Sum32()%64]++
	}
	return v, nil
}

func (e hashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = e.Embed(ctx, t)
	}
	return out, nil
}

func (hashEmbedder) Dimensions() int {
	return 64
}

func (hashEmbedder) ModelName() string {
	return "hash"
}

func (hashEmbedder) Ping(_ context.Context) error {
	return nil
}

func (hashEmbedder) Close() error {
	return nil
}

// recordingLLM returns a fixed completion and keeps every prompt.
type recordingLLM struct {
	mu       sync.Mutex
	response string
	prompts  []string
}

var _ driven.LLMService = (*recordingLLM)(nil)

func (l *recordingLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prompts = append(l.prompts, prompt)
	return l.response, nil
}

func (l *recordingLLM) ModelName() string {
	return "recording"
}

func (l *recordingLLM) Ping(_ context.Context) error {
	return nil
}

func (l *recordingLLM) Close() error {
	return nil
}

func strPtr(s string) *string {
	return &s
}
