package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/travelrag/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"settings"},
	Short:   "Manage application settings",
	Long: `View and edit the TOML configuration (config.toml in the config directory).

Keys use dot notation, e.g. "chunking.size" or "openai.chat_model".
The API key is never stored; set OPENAI_API_KEY instead.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List configuration keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the OpenAI credentials and models",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Paths]")
	cmd.Printf("  Texts: %s\n", settings.Paths.TextDir)
	cmd.Printf("  Uploads: %s\n", settings.Paths.UploadsDir)
	cmd.Printf("  Index: %s\n", settings.Paths.IndexDir)
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size: %d\n", settings.Chunking.Size)
	cmd.Printf("  Overlap: %d\n", settings.Chunking.Overlap)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  K: %d\n", settings.Retrieval.K)
	cmd.Printf("  Fetch K: %d\n", settings.Retrieval.FetchK)
	cmd.Printf("  MMR Lambda: %g\n", settings.Retrieval.Lambda)
	cmd.Println()

	cmd.Println("[OpenAI]")
	cmd.Printf("  Base URL: %s\n", settings.OpenAI.BaseURL)
	cmd.Printf("  Embedding Model: %s\n", settings.OpenAI.EmbeddingModel)
	cmd.Printf("  Chat Model: %s\n", settings.OpenAI.ChatModel)
	cmd.Printf("  Rate: %g req/s (burst %d)\n", settings.OpenAI.RequestsPerSecond, settings.OpenAI.Burst)
	if settings.OpenAI.HasAPIKey() {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.OpenAI.APIKey))
	} else {
		cmd.Printf("  API Key: (not set, export %s)\n", domain.APIKeyEnv)
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.ValidateOpenAIConfig(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	cmd.Println("OpenAI configuration is valid.")
	return nil
}

// maskAPIKey masks an API key for display, showing only first and last 4 chars.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
