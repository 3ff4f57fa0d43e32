package domain

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Defaults for the pipeline tunables.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 50
	DefaultK            = 10
	DefaultFetchK       = 10
	DefaultMMRLambda    = 0.5
	DefaultAddr         = ":8000"
)

// Defaults for the OpenAI provider.
const (
	DefaultOpenAIBaseURL     = "https://api.openai.com/v1"
	DefaultEmbeddingModel    = "text-embedding-ada-002"
	DefaultChatModel         = "gpt-4o-mini"
	DefaultRequestsPerSecond = 5.0
	DefaultBurst             = 10

	// APIKeyEnv is the environment variable holding the model-provider credential.
	APIKeyEnv = "OPENAI_API_KEY"
)

// PathSettings locates the persisted filesystem layout.
type PathSettings struct {
	// TextDir holds one <stem>.txt artifact per source document.
	TextDir string

	// UploadsDir holds raw uploads keyed by filename.
	UploadsDir string

	// IndexDir holds the persistent vector index.
	IndexDir string
}

// ChunkingSettings configures the recursive text splitter.
type ChunkingSettings struct {
	// Size is the maximum chunk length in characters.
	Size int

	// Overlap is the number of characters shared by consecutive chunks.
	Overlap int
}

// RetrievalSettings configures maximal marginal relevance search.
type RetrievalSettings struct {
	// K is the number of chunks returned.
	K int

	// FetchK is the candidate pool size fetched before diversity ranking.
	FetchK int

	// Lambda weighs relevance (1.0) against diversity (0.0).
	Lambda float64
}

// OpenAISettings configures the embedding and chat completion provider.
type OpenAISettings struct {
	// BaseURL is the API base URL. Can point at any compatible API.
	BaseURL string

	// EmbeddingModel is the embedding model name.
	EmbeddingModel string

	// ChatModel is the chat completion model name.
	ChatModel string

	// RequestsPerSecond is the sustained embedding request rate.
	RequestsPerSecond float64

	// Burst is the maximum embedding request burst.
	Burst int

	// APIKey is resolved from the environment, never from the config file.
	APIKey string
}

// HasAPIKey returns true if a provider credential is available.
func (o OpenAISettings) HasAPIKey() bool {
	return o.APIKey != ""
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string
}

// Settings is the explicit configuration object passed to every component.
type Settings struct {
	Paths     PathSettings
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	OpenAI    OpenAISettings
	Server    ServerSettings
}

// DefaultSettings returns settings with the data layout rooted at dataDir:
// docs/ for uploads, docs_texts/ for text artifacts and vectorstore/ for the index.
func DefaultSettings(dataDir string) Settings {
	return Settings{
		Paths: PathSettings{
			TextDir:    filepath.Join(dataDir, "docs_texts"),
			UploadsDir: filepath.Join(dataDir, "docs"),
			IndexDir:   filepath.Join(dataDir, "vectorstore"),
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			K:      DefaultK,
			FetchK: DefaultFetchK,
			Lambda: DefaultMMRLambda,
		},
		OpenAI: OpenAISettings{
			BaseURL:           DefaultOpenAIBaseURL,
			EmbeddingModel:    DefaultEmbeddingModel,
			ChatModel:         DefaultChatModel,
			RequestsPerSecond: DefaultRequestsPerSecond,
			Burst:             DefaultBurst,
		},
		Server: ServerSettings{
			Addr: DefaultAddr,
		},
	}
}

// Validate checks that the settings describe a usable pipeline.
func (s Settings) Validate() error {
	var errs []error
	if s.Paths.TextDir == "" || s.Paths.UploadsDir == "" || s.Paths.IndexDir == "" {
		errs = append(errs, errors.New("all data directories must be set"))
	}
	if s.Chunking.Size <= 0 {
		errs = append(errs, fmt.Errorf("chunk size must be positive, got %d", s.Chunking.Size))
	}
	if s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.Size {
		errs = append(errs, fmt.Errorf("chunk overlap must be in [0, %d), got %d",
			s.Chunking.Size, s.Chunking.Overlap))
	}
	if s.Retrieval.K <= 0 || s.Retrieval.FetchK <= 0 {
		errs = append(errs, fmt.Errorf("k and fetch_k must be positive, got %d and %d",
			s.Retrieval.K, s.Retrieval.FetchK))
	}
	if s.Retrieval.Lambda < 0 || s.Retrieval.Lambda > 1 {
		errs = append(errs, fmt.Errorf("mmr lambda must be in [0, 1], got %g", s.Retrieval.Lambda))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
