package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
	"github.com/custodia-labs/travelrag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyTextDir           = "paths.text_dir"
	keyUploadsDir        = "paths.uploads_dir"
	keyIndexDir          = "paths.index_dir"
	keyChunkSize         = "chunking.size"
	keyChunkOverlap      = "chunking.overlap"
	keyRetrievalK        = "retrieval.k"
	keyRetrievalFetchK   = "retrieval.fetch_k"
	keyRetrievalLambda   = "retrieval.lambda"
	keyServerAddr        = "server.addr"
	keyOpenAIBaseURL     = "openai.base_url"
	keyEmbeddingModel    = "openai.embedding_model"
	keyChatModel         = "openai.chat_model"
	keyRequestsPerSecond = "openai.requests_per_second"
	keyBurst             = "openai.burst"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
)

// settingKeys lists every supported key in display order.
var settingKeys = []struct {
	key  string
	kind valueKind
}{
	{keyTextDir, kindString},
	{keyUploadsDir, kindString},
	{keyIndexDir, kindString},
	{keyChunkSize, kindInt},
	{keyChunkOverlap, kindInt},
	{keyRetrievalK, kindInt},
	{keyRetrievalFetchK, kindInt},
	{keyRetrievalLambda, kindFloat},
	{keyServerAddr, kindString},
	{keyOpenAIBaseURL, kindString},
	{keyEmbeddingModel, kindString},
	{keyChatModel, kindString},
	{keyRequestsPerSecond, kindFloat},
	{keyBurst, kindInt},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	dataDir     string
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
// dataDir roots the default filesystem layout; aiValidator may be nil.
func NewSettingsService(
	configStore driven.ConfigStore,
	aiValidator driven.AIConfigValidator,
	dataDir string,
) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		dataDir:     dataDir,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings.
// Stored values override the defaults; the API key comes from the environment.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := s.GetDefaults()

	settings := &domain.Settings{
		Paths: domain.PathSettings{
			TextDir:    s.getString(keyTextDir, d.Paths.TextDir),
			UploadsDir: s.getString(keyUploadsDir, d.Paths.UploadsDir),
			IndexDir:   s.getString(keyIndexDir, d.Paths.IndexDir),
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, d.Chunking.Size),
			Overlap: s.getInt(keyChunkOverlap, d.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			K:      s.getInt(keyRetrievalK, d.Retrieval.K),
			FetchK: s.getInt(keyRetrievalFetchK, d.Retrieval.FetchK),
			Lambda: s.getFloat(keyRetrievalLambda, d.Retrieval.Lambda),
		},
		OpenAI: domain.OpenAISettings{
			BaseURL:           s.getString(keyOpenAIBaseURL, d.OpenAI.BaseURL),
			EmbeddingModel:    s.getString(keyEmbeddingModel, d.OpenAI.EmbeddingModel),
			ChatModel:         s.getString(keyChatModel, d.OpenAI.ChatModel),
			RequestsPerSecond: s.getFloat(keyRequestsPerSecond, d.OpenAI.RequestsPerSecond),
			Burst:             s.getInt(keyBurst, d.OpenAI.Burst),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, d.Server.Addr),
		},
	}

	if key, ok := s.lookupEnv(domain.APIKeyEnv); ok {
		settings.OpenAI.APIKey = strings.TrimSpace(key)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("load settings from %s: %w", s.configStore.Path(), err)
	}

	return settings, nil
}

// Set parses value according to the type of key, checks the resulting
// settings are valid and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := kindOf(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = f
	default:
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, key)
		}
		parsed = value
	}

	previous, existed := s.configStore.Get(key)
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	if _, err := s.Get(); err != nil {
		s.restore(key, previous, existed)
		return err
	}
	return nil
}

// Keys returns every supported configuration key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings(s.dataDir)
}

// ValidateOpenAIConfig validates the current provider configuration by pinging it.
func (s *SettingsService) ValidateOpenAIConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateOpenAI(&settings.OpenAI)
}

// restore puts back the value a rejected Set replaced. A key that did not
// exist before is reset to its default so Get keeps working.
func (s *SettingsService) restore(key string, previous any, existed bool) {
	if !existed {
		previous = s.defaultValue(key)
	}
	_ = s.configStore.Set(key, previous)
}

func (s *SettingsService) defaultValue(key string) any {
	d := s.GetDefaults()
	switch key {
	case keyTextDir:
		return d.Paths.TextDir
	case keyUploadsDir:
		return d.Paths.UploadsDir
	case keyIndexDir:
		return d.Paths.IndexDir
	case keyChunkSize:
		return d.Chunking.Size
	case keyChunkOverlap:
		return d.Chunking.Overlap
	case keyRetrievalK:
		return d.Retrieval.K
	case keyRetrievalFetchK:
		return d.Retrieval.FetchK
	case keyRetrievalLambda:
		return d.Retrieval.Lambda
	case keyServerAddr:
		return d.Server.Addr
	case keyOpenAIBaseURL:
		return d.OpenAI.BaseURL
	case keyEmbeddingModel:
		return d.OpenAI.EmbeddingModel
	case keyChatModel:
		return d.OpenAI.ChatModel
	case keyRequestsPerSecond:
		return d.OpenAI.RequestsPerSecond
	case keyBurst:
		return d.OpenAI.Burst
	}
	return nil
}

func kindOf(key string) (valueKind, bool) {
	for _, k := range settingKeys {
		if k.key == key {
			return k.kind, true
		}
	}
	return 0, false
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}
