package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract FILE",
	Short: "Extract the text of a document",
	Long: `Extracts plain text from a PDF, DOCX, TXT or Markdown file and saves it
as <stem>.txt in the text directory. The index is not rebuilt.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	extraction, err := extractionService.ExtractText(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	if extraction.SavedPath == "" {
		cmd.Println("Saved: (not saved)")
	} else {
		cmd.Printf("Saved: %s\n", extraction.SavedPath)
	}
	cmd.Println()
	cmd.Println(extraction.Text)
	return nil
}
