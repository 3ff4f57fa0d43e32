// Package docx reads body paragraphs out of Office Open XML documents.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const documentPart = "word/document.xml"

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatDOCX}
}

// Extract returns the non-empty body paragraphs joined by blank lines.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("%w: open docx %s: %v", domain.ErrParseFailed, path, err)
	}
	defer reader.Close()

	content, err := readDocumentPart(&reader.Reader)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrParseFailed, path, err)
	}

	return parseDocumentXML(content)
}

// readDocumentPart returns the raw bytes of word/document.xml.
func readDocumentPart(reader *zip.Reader) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("missing %s", documentPart)
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

// paragraph holds the text of one w:p in document order. Runs nested in
// hyperlinks are included, w:tab becomes a tab and w:br or w:cr a newline.
type paragraph struct {
	Text string
}

// UnmarshalXML walks the paragraph so that text, tabs and breaks keep their order.
func (p *paragraph) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	var text strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "pPr", "rPr":
				// Properties carry tab stop definitions, not content.
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			case "t":
				var s string
				if err := d.DecodeElement(&s, &el); err != nil {
					return err
				}
				text.WriteString(s)
				continue
			case "tab":
				text.WriteByte('\t')
			case "br", "cr":
				text.WriteByte('\n')
			}
			depth++
		case xml.EndElement:
			if depth == 0 {
				p.Text = text.String()
				return nil
			}
			depth--
		}
	}
}

// parseDocumentXML collects the text of every paragraph and joins the
// non-empty paragraphs with "\n\n".
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("%w: parse %s: %v", domain.ErrParseFailed, documentPart, err)
	}

	paragraphs := make([]string, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		if para.Text != "" {
			paragraphs = append(paragraphs, para.Text)
		}
	}

	return strings.Join(paragraphs, "\n\n"), nil
}
