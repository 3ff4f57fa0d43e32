package mcp

import (
	"context"

	"github.com/custodia-labs/travelrag/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer    *domain.Answer
	err       error
	questions []string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (*domain.Answer, error) {
	m.questions = append(m.questions, question)
	return m.answer, m.err
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	chunks []domain.Chunk
	err    error
	lastK  int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, k, _ int) ([]domain.Chunk, error) {
	m.lastK = k
	return m.chunks, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	build *domain.IndexBuild
	err   error
}

func (m *mockIndexService) BuildIndex(_ context.Context) (*domain.IndexBuild, error) {
	return m.build, m.err
}

func validPorts() *Ports {
	return &Ports{
		Answer:    &mockAnswerService{},
		Retrieval: &mockRetrievalService{},
	}
}

func strPtr(s string) *string {
	return &s
}
