package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"ticket.pdf", FormatPDF},
		{"TICKET.PDF", FormatPDF},
		{"itinerary.docx", FormatDOCX},
		{"legacy.doc", FormatDOCX},
		{"notes.txt", FormatTXT},
		{"README.md", FormatMD},
		{"photo.jpg", FormatUnknown},
		{"no_extension", FormatUnknown},
		{"/path/to/boarding.pass.pdf", FormatPDF},
	}

	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			assert.Equal(t, tc.expected, DetectFormat(tc.filename))
		})
	}
}

func TestFormat_IsSupported(t *testing.T) {
	assert.True(t, FormatPDF.IsSupported())
	assert.True(t, FormatDOCX.IsSupported())
	assert.True(t, FormatTXT.IsSupported())
	assert.True(t, FormatMD.IsSupported())
	assert.False(t, FormatUnknown.IsSupported())
	assert.False(t, Format("").IsSupported())
}

func TestTextArtifactName(t *testing.T) {
	assert.Equal(t, "trip.txt", TextArtifactName("trip.pdf"))
	assert.Equal(t, "trip.txt", TextArtifactName("/uploads/trip.docx"))
	assert.Equal(t, "notes.txt", TextArtifactName("notes.txt"))
	assert.Equal(t, "boarding.pass.txt", TextArtifactName("boarding.pass.pdf"))
	assert.Equal(t, "archive.txt", TextArtifactName("archive"))
}

func TestChunk_Source(t *testing.T) {
	chunk := Chunk{Metadata: map[string]any{MetadataSource: "trip.txt"}}

	source := chunk.Source()
	require.NotNil(t, source)
	assert.Equal(t, "trip.txt", *source)
}

func TestChunk_SourceMissing(t *testing.T) {
	assert.Nil(t, Chunk{}.Source())
	assert.Nil(t, Chunk{Metadata: map[string]any{MetadataSource: 42}}.Source())
	assert.Nil(t, Chunk{Metadata: map[string]any{MetadataSource: nil}}.Source())
}

func TestChunk_Passenger(t *testing.T) {
	name := "Jane Doe"
	chunk := Chunk{Metadata: map[string]any{
		MetadataSource:    "trip.txt",
		MetadataPassenger: &name,
	}}

	passenger := chunk.Passenger()
	require.NotNil(t, passenger)
	assert.Equal(t, "Jane Doe", *passenger)
}
