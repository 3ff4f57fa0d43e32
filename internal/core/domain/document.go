package domain

import (
	"path/filepath"
	"strings"
)

// Format is the detected type of an uploaded source document.
type Format string

// Supported source formats.
const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatTXT     Format = "txt"
	FormatMD      Format = "md"
	FormatUnknown Format = "unknown"
)

// DetectFormat returns the format of a file based on its extension.
// Legacy .doc files are routed to the DOCX path.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".docx", ".doc":
		return FormatDOCX
	case ".txt":
		return FormatTXT
	case ".md":
		return FormatMD
	default:
		return FormatUnknown
	}
}

// IsSupported returns true if text can be extracted from this format.
func (f Format) IsSupported() bool {
	return f != FormatUnknown && f != ""
}

// TextArtifactName returns the canonical text artifact filename for a source file.
// "trip.pdf" becomes "trip.txt".
func TextArtifactName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
}

// TextDocument is a persisted text artifact read back for indexing.
type TextDocument struct {
	// Name is the artifact filename, e.g. "trip.txt".
	Name string

	// Content is the raw artifact bytes.
	Content []byte
}

// Metadata keys attached to every chunk.
const (
	MetadataSource    = "source"
	MetadataPassenger = "passenger"
)

// Chunk represents a retrievable unit within a document.
// Documents are split into chunks for granular retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID names the text artifact this chunk came from.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for semantic search.
	Embedding []float32

	// Metadata carries the parent document's source and passenger.
	Metadata map[string]any
}

// Source returns the chunk's source filename, or nil when it has none.
func (c Chunk) Source() *string {
	return metadataString(c.Metadata, MetadataSource)
}

// Passenger returns the passenger name attached to the chunk, or nil.
func (c Chunk) Passenger() *string {
	return metadataString(c.Metadata, MetadataPassenger)
}

func metadataString(m map[string]any, key string) *string {
	if m == nil {
		return nil
	}
	switch v := m[key].(type) {
	case string:
		return &v
	case *string:
		return v
	default:
		return nil
	}
}
