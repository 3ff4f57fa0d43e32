package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

func testSettings(baseURL string) *domain.OpenAISettings {
	s := domain.DefaultSettings(".").OpenAI
	s.APIKey = "sk-test"
	s.BaseURL = baseURL
	return &s
}

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		result.Close()
	})
}

func TestInit_WithoutAPIKey(t *testing.T) {
	settings := domain.DefaultSettings(".").OpenAI

	result, err := Init(&settings, nil)

	require.NoError(t, err)
	assert.Nil(t, result.EmbeddingService)
	assert.Nil(t, result.LLMService)
	assert.Nil(t, result.Repairer)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], domain.APIKeyEnv)
}

func TestInit_WithAPIKey(t *testing.T) {
	result, err := Init(testSettings("http://localhost:1"), nil)

	require.NoError(t, err)
	defer result.Close()
	require.NotNil(t, result.EmbeddingService)
	require.NotNil(t, result.LLMService)
	require.NotNil(t, result.Repairer)
	assert.Equal(t, "text-embedding-ada-002", result.EmbeddingService.ModelName())
	assert.Equal(t, "gpt-4o-mini", result.LLMService.ModelName())
	assert.Empty(t, result.Warnings)
}

func TestCreateServices_NilWithoutKey(t *testing.T) {
	embedder, err := CreateEmbeddingService(nil)
	assert.NoError(t, err)
	assert.Nil(t, embedder)

	llm, err := CreateLLMService(&domain.OpenAISettings{})
	assert.NoError(t, err)
	assert.Nil(t, llm)
}

func TestValidateOpenAIConfig(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		err := ValidateOpenAIConfig(&domain.OpenAISettings{})
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})

	t.Run("reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		assert.NoError(t, NewConfigValidator().ValidateOpenAI(testSettings(server.URL)))
	})

	t.Run("rejected key", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		err := ValidateOpenAIConfig(testSettings(server.URL))
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
		assert.Contains(t, err.Error(), "401")
	})
}

// recordingLLM implements driven.LLMService for testing.
type recordingLLM struct {
	prompt string
	opts   driven.GenerateOptions
	err    error
}

func (m *recordingLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompt, m.opts = prompt, opts
	if m.err != nil {
		return "", m.err
	}
	return "Departure: Zurich", nil
}

func (m *recordingLLM) ModelName() string { return "mock" }

func (m *recordingLLM) Ping(_ context.Context) error { return nil }

func (m *recordingLLM) Close() error { return nil }

type stubPromptStore map[string]string

func (s stubPromptStore) Load(name string) (string, error) {
	if p, ok := s[name]; ok {
		return p, nil
	}
	return "", errors.New("not found")
}

func (s stubPromptStore) Reload() {}

func TestRepairer_RepairFormatting(t *testing.T) {
	llm := &recordingLLM{}
	repairer := NewRepairer(llm)

	out, err := repairer.RepairFormatting(context.Background(), "Partida / Departure:Zurich")

	require.NoError(t, err)
	assert.Equal(t, "Departure: Zurich", out)
	assert.Contains(t, llm.prompt, "Do not summarize or remove any content")
	assert.Contains(t, llm.prompt, "Partida / Departure:Zurich")
	assert.Zero(t, llm.opts.Temperature)
}

func TestRepairer_PromptStore(t *testing.T) {
	llm := &recordingLLM{}
	repairer := NewRepairer(llm)
	repairer.SetPromptStore(stubPromptStore{driven.PromptRepair: "FIX 100% of: {text}"})

	_, err := repairer.RepairFormatting(context.Background(), "abc 50%")

	require.NoError(t, err)
	assert.Equal(t, "FIX 100% of: abc 50%", llm.prompt)

	repairer.SetPromptStore(stubPromptStore{driven.PromptRepair: "no placeholder"})
	_, err = repairer.RepairFormatting(context.Background(), "abc")
	require.NoError(t, err)
	assert.Contains(t, llm.prompt, "Text to fix:")
}

func TestRepairer_Error(t *testing.T) {
	repairer := NewRepairer(&recordingLLM{err: domain.ErrRateLimited})

	_, err := repairer.RepairFormatting(context.Background(), "abc")

	assert.ErrorIs(t, err, domain.ErrRateLimited)
}
