package cli

import (
	"bytes"
	"context"
	"io"

	"github.com/custodia-labs/travelrag/internal/app"
	"github.com/custodia-labs/travelrag/internal/core/domain"
)

type mockSettingsService struct {
	settings    *domain.Settings
	getErr      error
	setErr      error
	validateErr error
	set         map[string]string
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.settings == nil {
		s := domain.DefaultSettings("/data")
		m.settings = &s
	}
	return m.settings, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"chunking.size", "retrieval.k"}
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings("/data")
}

func (m *mockSettingsService) ValidateOpenAIConfig() error {
	return m.validateErr
}

type mockExtractionService struct {
	extraction *domain.Extraction
	err        error
	paths      []string
}

func (m *mockExtractionService) ExtractText(_ context.Context, path string) (*domain.Extraction, error) {
	m.paths = append(m.paths, path)
	return m.extraction, m.err
}

type mockIndexService struct {
	build *domain.IndexBuild
	err   error
	calls int
}

func (m *mockIndexService) BuildIndex(_ context.Context) (*domain.IndexBuild, error) {
	m.calls++
	return m.build, m.err
}

type mockRetrievalService struct {
	chunks []domain.Chunk
	err    error
	query  string
	k      int
	fetchK int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, query string, k, fetchK int) ([]domain.Chunk, error) {
	m.query, m.k, m.fetchK = query, k, fetchK
	return m.chunks, m.err
}

type mockAnswerService struct {
	answer   *domain.Answer
	err      error
	question string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (*domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

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

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	settings   *mockSettingsService
	extraction *mockExtractionService
	index      *mockIndexService
	retrieval  *mockRetrievalService
	answer     *mockAnswerService
	ingest     *mockIngestService
	opts       app.Options
}

// setupTestServices replaces bootstrap with mocks and returns a cleanup func.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		settings:   &mockSettingsService{},
		extraction: &mockExtractionService{extraction: &domain.Extraction{}},
		index:      &mockIndexService{build: &domain.IndexBuild{Status: domain.IndexStatusOK}},
		retrieval:  &mockRetrievalService{},
		answer:     &mockAnswerService{answer: &domain.Answer{}},
		ingest:     &mockIngestService{result: &domain.IngestResult{}},
	}

	oldBootstrap := bootstrap
	bootstrap = func(opts app.Options) error {
		ts.opts = opts
		settingsService = ts.settings
		extractionService = ts.extraction
		indexService = ts.index
		retrievalService = ts.retrieval
		answerService = ts.answer
		ingestService = ts.ingest
		s := domain.DefaultSettings("/data")
		currentSettings = &s
		hasAPIKey = func() bool { return true }
		return nil
	}

	return ts, func() {
		bootstrap = oldBootstrap
		settingsService = nil
		extractionService = nil
		indexService = nil
		retrievalService = nil
		answerService = nil
		ingestService = nil
		currentSettings = nil
		hasAPIKey = nil
		askJSON = false
		retrieveJSON = false
		retrieveK = 0
		retrieveFetchK = 0
		configDir = ""
		dataDir = ""
		verbose = false
	}
}

// run executes the root command with args and returns combined output.
func run(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func strPtr(s string) *string {
	return &s
}
