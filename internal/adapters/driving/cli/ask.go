package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/travelrag/internal/core/domain"
)

// snippetLength is the number of characters of a chunk shown by retrieve.
const snippetLength = 200

var (
	askJSON bool

	retrieveK      int
	retrieveFetchK int
	retrieveJSON   bool
)

var askCmd = &cobra.Command{
	Use:   "ask QUESTION",
	Short: "Answer a question from the indexed documents",
	Long: `Retrieves the most relevant chunks with maximal marginal relevance and
asks the chat model to answer using only that context.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var retrieveCmd = &cobra.Command{
	Use:   "retrieve QUERY",
	Short: "Show the chunks retrieved for a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRetrieve,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	retrieveCmd.Flags().IntVarP(&retrieveK, "k", "k", 0, "number of chunks to return (default from config)")
	retrieveCmd.Flags().IntVar(&retrieveFetchK, "fetch-k", 0, "candidate pool size (default from config)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(retrieveCmd)
}

// answerJSON mirrors the /ask response body.
type answerJSON struct {
	Answer  string    `json:"answer"`
	Sources []*string `json:"sources"`
}

// chunkJSON is one retrieved chunk.
type chunkJSON struct {
	Content   string  `json:"content"`
	Source    *string `json:"source"`
	Passenger *string `json:"passenger"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	answer, err := answerService.Answer(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		if errors.Is(err, domain.ErrIndexNotFound) {
			return errors.New("vector index not found: run 'travelrag reindex' first")
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		sources := answer.Sources
		if sources == nil {
			sources = []*string{}
		}
		return printJSON(cmd, answerJSON{Answer: answer.Text, Sources: sources})
	}

	cmd.Println(strings.TrimRight(answer.Text, "\n"))
	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range answer.Sources {
			cmd.Printf("  - %s\n", orNone(src))
		}
	}
	return nil
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	chunks, err := retrievalService.Retrieve(cmd.Context(), strings.Join(args, " "), retrieveK, retrieveFetchK)
	if err != nil {
		if errors.Is(err, domain.ErrIndexNotFound) {
			return errors.New("vector index not found: run 'travelrag reindex' first")
		}
		return fmt.Errorf("retrieve failed: %w", err)
	}

	if retrieveJSON {
		out := make([]chunkJSON, len(chunks))
		for i := range chunks {
			out[i] = chunkJSON{
				Content:   chunks[i].Content,
				Source:    chunks[i].Source(),
				Passenger: chunks[i].Passenger(),
			}
		}
		return printJSON(cmd, out)
	}

	if len(chunks) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i := range chunks {
		cmd.Printf("  [%d] %s", i+1, orNone(chunks[i].Source()))
		if p := chunks[i].Passenger(); p != nil {
			cmd.Printf(" (passenger: %s)", *p)
		}
		cmd.Println()
		cmd.Printf("      %s\n\n", snippet(chunks[i].Content))
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func orNone(s *string) string {
	if s == nil {
		return "(none)"
	}
	return *s
}

// snippet flattens content onto one line and truncates it.
func snippet(content string) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if len(runes) <= snippetLength {
		return flat
	}
	return string(runes[:snippetLength]) + "..."
}
