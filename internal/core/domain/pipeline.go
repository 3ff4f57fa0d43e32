package domain

import "io"

// PreviewLength is the number of characters kept in an extraction preview.
const PreviewLength = 300

// Extraction is the outcome of extracting text from one source file.
type Extraction struct {
	// Text is the extracted plain text. Empty for unsupported formats.
	Text string

	// SavedPath is where the text artifact was written.
	// Empty when persisting the artifact failed.
	SavedPath string
}

// Upload is a single file submitted for ingestion.
type Upload struct {
	// Filename is the original client-side filename.
	Filename string

	// Content streams the raw file bytes.
	Content io.Reader
}

// ExtractedFile reports the per-file outcome of a batch ingestion.
type ExtractedFile struct {
	SourceFile        string
	ExtractedTextFile string
	TextPreview       string

	// Err is set when saving or extracting this file failed.
	// The rest of the batch is still processed.
	Err error
}

// IndexStatus reports whether a rebuild produced an index.
type IndexStatus string

// Rebuild outcomes.
const (
	IndexStatusOK      IndexStatus = "ok"
	IndexStatusNoTexts IndexStatus = "no_texts"
)

// IndexBuild summarises a full index rebuild.
type IndexBuild struct {
	Status    IndexStatus
	Documents int
	Chunks    int
}

// IngestResult is the outcome of ingesting a batch of uploads.
type IngestResult struct {
	SavedFiles []string
	Extracted  []ExtractedFile
	Index      IndexBuild
}

// Answer is a grounded response to a user question.
type Answer struct {
	// Text is the model completion, returned verbatim.
	Text string

	// Sources lists the source of every retrieved chunk in retrieval order.
	// Duplicates are kept and chunks without a source contribute nil.
	Sources []*string
}

// Preview returns the first PreviewLength characters of text.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength])
}
