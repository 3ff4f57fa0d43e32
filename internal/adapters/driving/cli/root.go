// Package cli implements the travelrag command line.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/travelrag/internal/app"
	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driving"
	"github.com/custodia-labs/travelrag/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// annotationNoServices marks commands that run without the service graph.
const annotationNoServices = "travelrag/no-services"

// Global flags.
var (
	verbose   bool
	configDir string
	dataDir   string
)

// Services used by the commands. Populated by bootstrap before each run.
var (
	settingsService   driving.SettingsService
	extractionService driving.ExtractionService
	indexService      driving.IndexService
	retrievalService  driving.RetrievalService
	answerService     driving.AnswerService
	ingestService     driving.IngestService

	currentSettings *domain.Settings
	hasAPIKey       func() bool
	closeServices   func() error
)

// bootstrap builds the services. Tests replace it with stubs.
var bootstrap = bootstrapApp

var rootCmd = &cobra.Command{
	Use:   "travelrag",
	Short: "Ask questions about your travel documents",
	Long: `travelrag ingests travel documents (PDF, DOCX, TXT, Markdown), indexes
them for semantic search and answers questions grounded in their content.

The OpenAI API key is read from OPENAI_API_KEY. A .env file in the working
directory is loaded first without overriding the environment.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.travelrag)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default <config-dir>/data)")
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	defer releaseServices()
	return rootCmd.Execute()
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if cmd.Annotations[annotationNoServices] == "true" || cmd.Name() == "help" {
		return nil
	}

	// A missing .env file is the normal case.
	_ = godotenv.Load()

	releaseServices()
	return bootstrap(app.Options{ConfigDir: configDir, DataDir: dataDir})
}

func bootstrapApp(opts app.Options) error {
	a, err := app.New(opts)
	if err != nil {
		return err
	}

	settingsService = a.SettingsService
	extractionService = a.Extraction
	indexService = a.Index
	retrievalService = a.Retrieval
	answerService = a.Answer
	ingestService = a.Ingest
	currentSettings = a.Settings
	hasAPIKey = a.HasAPIKey
	closeServices = a.Close
	return nil
}

func releaseServices() {
	if closeServices == nil {
		return
	}
	if err := closeServices(); err != nil {
		logger.Warn("close services: %v", err)
	}
	closeServices = nil
}
