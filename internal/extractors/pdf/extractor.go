// Package pdf extracts page text from PDF files with poppler's pdftotext.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const toolName = "pdftotext"

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = fmt.Errorf("%w: pdftotext not found in PATH", domain.ErrParseFailed)

// CommandRunner runs an external command and returns its standard output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, ErrPDFToolNotFound
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Extractor handles PDF documents.
type Extractor struct {
	runner CommandRunner
}

// New creates a PDF extractor that shells out to pdftotext.
func New() *Extractor {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates a PDF extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatPDF}
}

// Extract returns the text of every page that has any, joined by blank lines.
// The text is raw layout output and usually needs formatting repair.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	out, err := e.runner.Run(ctx, toolName, "-enc", "UTF-8", path, "-")
	if err != nil {
		if errors.Is(err, ErrPDFToolNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: pdftotext failed for %s: %v", domain.ErrParseFailed, path, err)
	}

	return joinPages(string(out)), nil
}

// joinPages splits pdftotext output on form feeds and joins the non-blank pages.
func joinPages(output string) string {
	var pages []string
	for _, page := range strings.Split(output, "\f") {
		page = strings.TrimSpace(page)
		if page != "" {
			pages = append(pages, page)
		}
	}
	return strings.Join(pages, "\n\n")
}

// CheckAvailable returns ErrPDFToolNotFound if pdftotext is not installed.
func CheckAvailable() error {
	if _, err := exec.LookPath(toolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is required for PDF support. Install poppler:
  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils`
}
