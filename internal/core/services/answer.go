package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
	"github.com/custodia-labs/travelrag/internal/core/ports/driving"
	"github.com/custodia-labs/travelrag/internal/logger"
)

// Ensure AnswerService implements the required interfaces.
var (
	_ driving.AnswerService   = (*AnswerService)(nil)
	_ driven.PromptStoreAware = (*AnswerService)(nil)
)

// NoAnswerPhrase is what the model is told to reply when the context is unrelated.
const NoAnswerPhrase = "I dont have enough information to answer"

// defaultAnswerPrompt is the fallback prompt when no PromptStore is configured.
const defaultAnswerPrompt = `You are a helpful travel assistant.

Use the information below as your primary source to answer the user's question.
You may interpret the information even if it is incomplete or messy.
If the context is unclear or contains multiple possibilities, list all relevant information found.
If the information really has nothing to do with the query, then say '` + NoAnswerPhrase + `'

Context:
{context}

Question:
{question}

Answer:`

// AnswerService answers questions grounded in retrieved chunks.
type AnswerService struct {
	retriever   driving.RetrievalService
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewAnswerService creates a new answer service.
// The llm is optional; without it Answer fails with domain.ErrLLMUnavailable.
func NewAnswerService(retriever driving.RetrievalService, llm driven.LLMService) *AnswerService {
	return &AnswerService{
		retriever: retriever,
		llm:       llm,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses the built-in travel assistant prompt.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Answer retrieves context for the question using the configured k and
// fetch_k and asks the model once at temperature 0. Sources follow
// retrieval order.
func (s *AnswerService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	logger.Section("Answer")
	logger.Debug("Question: %q", question)

	chunks, err := s.retriever.Retrieve(ctx, question, 0, 0)
	if err != nil {
		if errors.Is(err, domain.ErrIndexNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	contents := make([]string, len(chunks))
	sources := make([]*string, len(chunks))
	for i, c := range chunks {
		contents[i] = c.Content
		sources[i] = c.Source()
	}

	prompt := strings.NewReplacer(
		driven.PlaceholderContext, strings.Join(contents, "\n\n"),
		driven.PlaceholderQuestion, question,
	).Replace(s.loadPrompt())
	logger.Debug("Prompt: %d characters from %d chunks", len(prompt), len(chunks))

	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{Temperature: 0})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{Text: text, Sources: sources}, nil
}

func (s *AnswerService) loadPrompt() string {
	if s.promptStore == nil {
		return defaultAnswerPrompt
	}
	prompt, err := s.promptStore.Load(driven.PromptAnswer)
	if err != nil ||
		!strings.Contains(prompt, driven.PlaceholderContext) ||
		!strings.Contains(prompt, driven.PlaceholderQuestion) {
		return defaultAnswerPrompt
	}
	return prompt
}
