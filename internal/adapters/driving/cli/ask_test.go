package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/travelrag/internal/core/domain"
)

func TestAskCmd_PrintsAnswerAndSources(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.answer.answer = &domain.Answer{
		Text:    "The passenger is Jane Doe.",
		Sources: []*string{strPtr("ticket.txt"), nil},
	}

	out, err := run("ask", "Who", "is", "the", "passenger?")

	require.NoError(t, err)
	assert.Equal(t, "Who is the passenger?", ts.answer.question)
	assert.Contains(t, out, "The passenger is Jane Doe.")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "  - ticket.txt")
	assert.Contains(t, out, "  - (none)")
}

func TestAskCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.answer.answer = &domain.Answer{Text: "Gate B12.", Sources: []*string{strPtr("boarding.pdf")}}

	out, err := run("ask", "--json", "Which gate?")

	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Gate B12.", got["answer"])
	assert.Equal(t, []any{"boarding.pdf"}, got["sources"])
}

func TestAskCmd_IndexNotFound(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.answer.err = domain.ErrIndexNotFound

	_, err := run("ask", "When do I fly?")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "travelrag reindex")
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := run("ask")

	assert.Error(t, err)
}

func TestRetrieveCmd_Flags(t *testing.T) {
	k := retrieveCmd.Flags().Lookup("k")
	require.NotNil(t, k)
	assert.Equal(t, "k", k.Shorthand)
	assert.Equal(t, "0", k.DefValue)
	assert.NotNil(t, retrieveCmd.Flags().Lookup("fetch-k"))
	assert.NotNil(t, retrieveCmd.Flags().Lookup("json"))
}

func TestRetrieveCmd_PrintsChunks(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.retrieval.chunks = []domain.Chunk{
		{
			Content: "Passenger: Jane Doe\nFlight LX100",
			Metadata: map[string]any{
				domain.MetadataSource:    "ticket.txt",
				domain.MetadataPassenger: "Jane Doe",
			},
		},
		{Content: strings.Repeat("hotel ", 100), Metadata: map[string]any{domain.MetadataSource: "hotel.md"}},
	}

	out, err := run("retrieve", "-k", "2", "--fetch-k", "8", "passenger")

	require.NoError(t, err)
	assert.Equal(t, "passenger", ts.retrieval.query)
	assert.Equal(t, 2, ts.retrieval.k)
	assert.Equal(t, 8, ts.retrieval.fetchK)
	assert.Contains(t, out, "[1] ticket.txt (passenger: Jane Doe)")
	assert.Contains(t, out, "Passenger: Jane Doe Flight LX100")
	assert.Contains(t, out, "[2] hotel.md")
	assert.Contains(t, out, "...")
}

func TestRetrieveCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.retrieval.chunks = []domain.Chunk{{Content: "Seat 14C"}}

	out, err := run("retrieve", "--json", "seat")

	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Seat 14C", got[0]["content"])
	assert.Nil(t, got[0]["source"])
	assert.Nil(t, got[0]["passenger"])
}

func TestRetrieveCmd_NoResults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := run("retrieve", "anything")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b c", snippet("a\n b\t\tc"))

	long := strings.Repeat("x", snippetLength+10)
	got := snippet(long)
	assert.Equal(t, snippetLength+3, len(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}
