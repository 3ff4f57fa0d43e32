package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/travelrag/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE...",
	Short: "Ingest documents and rebuild the index",
	Long: `Saves each file to the uploads directory, extracts its text to
<stem>.txt and rebuilds the vector index once for the whole batch.

A file that fails to save or extract is reported and the rest of the
batch is still processed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the vector index from extracted texts",
	Args:  cobra.NoArgs,
	RunE:  runReindex,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(reindexCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	uploads := make([]domain.Upload, 0, len(args))
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		uploads = append(uploads, domain.Upload{Filename: filepath.Base(path), Content: f})
	}

	result, err := ingestService.IngestBatch(cmd.Context(), uploads)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	failed := 0
	for _, entry := range result.Extracted {
		if entry.Err != nil {
			failed++
			cmd.Printf("  ✗ %s: %v\n", entry.SourceFile, entry.Err)
			continue
		}
		target := entry.ExtractedTextFile
		if target == "" {
			target = "(text not saved)"
		}
		cmd.Printf("  ✓ %s -> %s\n", entry.SourceFile, target)
	}
	cmd.Println()
	printIndexBuild(cmd, &result.Index)

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(result.Extracted))
	}
	return nil
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	build, err := indexService.BuildIndex(cmd.Context())
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	printIndexBuild(cmd, build)
	return nil
}

func printIndexBuild(cmd *cobra.Command, build *domain.IndexBuild) {
	if build.Status == domain.IndexStatusNoTexts {
		cmd.Println("No text files to index.")
		return
	}
	cmd.Printf("Vector index rebuilt: %d document(s), %d chunk(s).\n", build.Documents, build.Chunks)
}
