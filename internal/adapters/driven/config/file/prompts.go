package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads prompt templates from user-editable files in a directory,
// falling back to embedded defaults. The directory and default files are
// created on the first Load, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnswer: `You are a helpful travel assistant.

Use the information below as your primary source to answer the user's question.
You may interpret the information even if it is incomplete or messy.
If the context is unclear or contains multiple possibilities, list all relevant information found.
If the information really has nothing to do with the query, then say 'I dont have enough information to answer'

Context:
{context}

Question:
{question}

Answer:`,

	driven.PromptRepair: `Your job is to clean the following text extracted from a PDF. Fix the formatting WITHOUT changing the meaning.

Fix the following extracted text:
- Remove duplicated labels when they appear in two languages (e.g., "Partida / Departure:" → "Departure:")
- Keep the English label and remove ones in different languages.
- Restore missing spaces between words
- Reconstruct natural line breaks
- Fix broken words
- Do not summarize or remove any content
- Output only the corrected text

Text to fix:
{text}`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.travelrag/prompts/.
//
// The constructor does no I/O; the directory and default files are
// written on the first Load call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// Edited files are cached until Reload. A missing or unreadable file yields
// the embedded default; names without a default are an error.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)

	fallback, hasDefault := defaultPrompts[name]
	if s.initErr != nil {
		if hasDefault {
			return fallback, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if hasDefault {
			return fallback, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.cache[name]; ok {
		return cached, nil
	}
	s.cache[name] = prompt
	return prompt, nil
}

// Names returns the names of all built-in prompts, sorted.
func Names() []string {
	names := make([]string, 0, len(defaultPrompts))
	for name := range defaultPrompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory, any missing default prompt
// files and a README. Existing files are never overwritten.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# travelrag Prompts

This directory contains customisable prompts sent to the language model.

## Files

- ` + "`answer.txt`" + ` - Answers a question from retrieved document passages
- ` + "`repair.txt`" + ` - Repairs the layout of text extracted from PDFs

## Customisation

Edit any file to customise model behaviour. Changes take effect on the next
command or after restarting the server.

## Format Placeholders

Prompts use named placeholders:
- ` + "`answer.txt`" + ` - ` + "`{context}`" + ` for the retrieved passages and ` + "`{question}`" + ` for the question
- ` + "`repair.txt`" + ` - ` + "`{text}`" + ` for the extracted text

Everything else, including a literal %, is sent as written. A prompt missing
one of its placeholders is ignored in favour of the default.
`
	return os.WriteFile(path, []byte(content), 0600)
}
