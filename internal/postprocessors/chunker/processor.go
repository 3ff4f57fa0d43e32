// Package chunker provides a recursive character text splitter.
//
// Text is split on the coarsest separator present (paragraph, then line,
// then word, then character) and the pieces are merged greedily into
// chunks of at most the configured size, carrying a bounded overlap from
// one chunk into the next. Pieces still too large are split again with the
// next finer separator. Lengths are measured in characters (runes).
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.TextSplitter = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 50

// DefaultSeparators are tried in order, from paragraph to hard split.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Processor splits text into overlapping chunks.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator hierarchy.
// An empty separator means a per-character hard split.
func WithSeparators(separators ...string) Option {
	return func(p *Processor) {
		if len(separators) > 0 {
			p.separators = separators
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Split returns the chunks of text in document order.
// Empty or whitespace-only text produces no chunks.
func (p *Processor) Split(text string) []string {
	return p.split(text, p.separators)
}

func (p *Processor) split(text string, separators []string) []string {
	// Pick the first separator present in the text; finer ones are kept
	// for pieces that remain too long.
	separator := separators[len(separators)-1]
	var finer []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			finer = separators[i+1:]
			break
		}
	}

	var chunks []string
	var pending []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if length(piece) < p.chunkSize {
			pending = append(pending, piece)
			continue
		}
		if len(pending) > 0 {
			chunks = append(chunks, p.merge(pending)...)
			pending = nil
		}
		if len(finer) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, p.split(piece, finer)...)
		}
	}
	if len(pending) > 0 {
		chunks = append(chunks, p.merge(pending)...)
	}

	return chunks
}

// merge combines small pieces into chunks no longer than chunkSize,
// starting each new chunk with up to overlap characters of trailing pieces.
func (p *Processor) merge(pieces []string) []string {
	var chunks []string
	var current []string
	total := 0

	for _, piece := range pieces {
		n := length(piece)
		if total+n > p.chunkSize && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			// Drop leading pieces until the remainder fits the overlap
			// and leaves room for the next piece.
			for total > p.overlap || (total+n > p.chunkSize && total > 0) {
				total -= length(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}

	if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}

	return chunks
}

// splitKeepingSeparator splits text on separator, attaching each separator
// to the start of the piece that follows it. Empty pieces are dropped.
// An empty separator splits text into individual characters.
func splitKeepingSeparator(text, separator string) []string {
	if separator == "" {
		pieces := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, separator)
	pieces := make([]string, 0, len(parts))
	if parts[0] != "" {
		pieces = append(pieces, parts[0])
	}
	for _, part := range parts[1:] {
		pieces = append(pieces, separator+part)
	}
	return pieces
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}
