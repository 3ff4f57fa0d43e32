// Package app wires the adapters and core services into a runnable application.
package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/travelrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/travelrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/travelrag/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/travelrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/services"
	"github.com/custodia-labs/travelrag/internal/extractors"
	"github.com/custodia-labs/travelrag/internal/logger"
	"github.com/custodia-labs/travelrag/internal/postprocessors"
)

// Options locate the configuration and data directories.
// Empty values fall back to ~/.travelrag and <config-dir>/data.
type Options struct {
	ConfigDir string
	DataDir   string
}

// App holds the wired services for one process.
type App struct {
	Settings        *domain.Settings
	SettingsService *services.SettingsService
	Extraction      *services.ExtractionService
	Index           *services.IndexService
	Retrieval       *services.RetrievalService
	Answer          *services.AnswerService
	Ingest          *services.IngestService

	configDir string
	warnings  []string
	vectors   *sqlite.VectorStore
	ai        *ai.InitResult
}

// New loads settings and constructs every service.
// A missing API key is reported through Warnings, not as an error.
func New(opts Options) (*App, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		configDir = dir
	}
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(configDir, "data")
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator(), dataDir)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	vectors, err := sqlite.NewVectorStore(settings.Paths.IndexDir)
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}

	models, err := ai.Init(&settings.OpenAI, prompts)
	if err != nil {
		vectors.Close()
		return nil, err
	}
	for _, w := range models.Warnings {
		logger.Warn("%s", w)
	}

	texts := filesystem.NewTextStore(settings.Paths.TextDir)
	uploads := filesystem.NewUploadStore(settings.Paths.UploadsDir)

	extraction := services.NewExtractionService(extractors.NewDefaultRegistry(), texts, models.Repairer)
	index := services.NewIndexService(
		texts,
		postprocessors.NewDefaultPipeline(settings.Chunking),
		models.EmbeddingService,
		vectors,
	)
	retrieval := services.NewRetrievalService(vectors, models.EmbeddingService, settings.Retrieval)
	answer := services.NewAnswerService(retrieval, models.LLMService)
	answer.SetPromptStore(prompts)

	logger.Debug("app: config %s, texts %s, uploads %s, index %s",
		configStore.Path(), settings.Paths.TextDir, settings.Paths.UploadsDir, settings.Paths.IndexDir)

	return &App{
		Settings:        settings,
		SettingsService: settingsService,
		Extraction:      extraction,
		Index:           index,
		Retrieval:       retrieval,
		Answer:          answer,
		Ingest:          services.NewIngestService(uploads, extraction, index),
		configDir:       configDir,
		warnings:        models.Warnings,
		vectors:         vectors,
		ai:              models,
	}, nil
}

// ConfigDir returns the resolved configuration directory.
func (a *App) ConfigDir() string {
	return a.configDir
}

// Warnings lists capabilities disabled at startup.
func (a *App) Warnings() []string {
	return a.warnings
}

// HasAPIKey reports whether a model-provider credential was found.
func (a *App) HasAPIKey() bool {
	return a.Settings.OpenAI.HasAPIKey()
}

// Close releases the vector store and the model clients.
func (a *App) Close() error {
	var errs []error
	if a.vectors != nil {
		errs = append(errs, a.vectors.Close())
	}
	if a.ai != nil {
		a.ai.Close()
	}
	return errors.Join(errs...)
}
