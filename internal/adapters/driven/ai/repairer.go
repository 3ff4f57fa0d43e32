package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// Ensure Repairer implements the required interfaces.
var (
	_ driven.FormattingRepairer = (*Repairer)(nil)
	_ driven.PromptStoreAware   = (*Repairer)(nil)
)

// defaultRepairPrompt is the fallback prompt when no PromptStore is configured.
const defaultRepairPrompt = `Your job is to clean the following text extracted from a PDF. Fix the formatting WITHOUT changing the meaning.

Fix the following extracted text:
- Remove duplicated labels when they appear in two languages (e.g., "Partida / Departure:" → "Departure:")
- Keep the English label and remove ones in different languages.
- Restore missing spaces between words
- Reconstruct natural line breaks
- Fix broken words
- Do not summarize or remove any content
- Output only the corrected text

Text to fix:
{text}`

// Repairer fixes the layout of PDF text with a single LLM completion.
type Repairer struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewRepairer creates a formatting repairer backed by llm.
func NewRepairer(llm driven.LLMService) *Repairer {
	return &Repairer{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (r *Repairer) SetPromptStore(store driven.PromptStore) {
	r.promptStore = store
}

// RepairFormatting returns the model's corrected version of text.
func (r *Repairer) RepairFormatting(ctx context.Context, text string) (string, error) {
	prompt := strings.Replace(r.loadPrompt(), driven.PlaceholderText, text, 1)

	repaired, err := r.llm.Generate(ctx, prompt, driven.GenerateOptions{Temperature: 0})
	if err != nil {
		return "", fmt.Errorf("repair formatting: %w", err)
	}
	return repaired, nil
}

func (r *Repairer) loadPrompt() string {
	if r.promptStore == nil {
		return defaultRepairPrompt
	}
	prompt, err := r.promptStore.Load(driven.PromptRepair)
	if err != nil || !strings.Contains(prompt, driven.PlaceholderText) {
		return defaultRepairPrompt
	}
	return prompt
}
