package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/travelrag/internal/adapters/driving/api"
	"github.com/custodia-labs/travelrag/internal/adapters/driving/watcher"
)

var (
	serveAddr     string
	serveWatchDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the HTTP API:

  GET  /health   liveness and API key presence
  POST /ingest   multipart "files" upload, extraction and reindex
  POST /reindex  rebuild the vector index
  POST /ask      {"question": "..."} -> {"answer", "sources"}

With --watch, documents written to the directory are ingested automatically.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8000)")
	serveCmd.Flags().StringVar(&serveWatchDir, "watch", "", "directory to watch for new documents")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if ingestService == nil || indexService == nil || answerService == nil {
		return errors.New("services not configured")
	}

	addr := serveAddr
	if addr == "" && currentSettings != nil {
		addr = currentSettings.Server.Addr
	}

	server, err := api.NewServer(&api.Ports{
		Ingest: ingestService,
		Index:  indexService,
		Answer: answerService,
		HasKey: hasAPIKey,
	}, addr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveWatchDir != "" {
		if err := checkWatchDir(serveWatchDir); err != nil {
			return err
		}
		w := watcher.New(serveWatchDir, ingestService)
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Close()
		cmd.Printf("Watching %s for new documents\n", serveWatchDir)
	}

	cmd.Printf("Serving on %s\n", addr)
	return server.Run(ctx)
}

// checkWatchDir rejects the data directories the ingest itself writes to.
func checkWatchDir(dir string) error {
	if currentSettings == nil {
		return nil
	}
	watch, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}
	owned := []struct {
		name string
		path string
	}{
		{"uploads", currentSettings.Paths.UploadsDir},
		{"text", currentSettings.Paths.TextDir},
		{"index", currentSettings.Paths.IndexDir},
	}
	for _, d := range owned {
		abs, err := filepath.Abs(d.path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", d.path, err)
		}
		if watch == abs {
			return fmt.Errorf("--watch must not be the %s directory %s", d.name, abs)
		}
	}
	return nil
}
