package build

import (
	"errors"
	"io"
	"testing"

	"github.com/ppiankov/relcorpus/internal/model"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewRecord_LocatesSpansAndLowerCases(t *testing.T) {
	record := NewRecord(model.Triple{
		Sentence: "Maria fished near the bay",
		Head:     "Maria",
		Tail:     "the bay",
		Relation: "LOCATED_NEAR",
	})

	assert.Equal(t, []string{"Maria", "fished", "near", "the", "bay"}, record.Token)
	assert.Equal(t, model.EntityMention{Name: "maria", Pos: model.Span{0, 0}}, record.H)
	assert.Equal(t, model.EntityMention{Name: "the bay", Pos: model.Span{3, 4}}, record.T)
	assert.Equal(t, "LOCATED_NEAR", record.Relation)
}

func TestNewRecord_MissingMentionGetsSentinel(t *testing.T) {
	record := NewRecord(model.Triple{
		Sentence: "Maria fished near the bay",
		Head:     "Maria",
		Tail:     "The Bay",
		Relation: "LOCATED_NEAR",
	})

	assert.Equal(t, model.Span{0, 0}, record.H.Pos)
	assert.Equal(t, model.NoSpan, record.T.Pos, "span matching is case sensitive")
	assert.Equal(t, "the bay", record.T.Name)
}

func TestLowerName_Unicode(t *testing.T) {
	assert.Equal(t, "þórður", LowerName("ÞÓRÐUR"))
	assert.Equal(t, "the bay", LowerName("The Bay"))
}

func TestParseResponse(t *testing.T) {
	reply := "```jsonl\n" +
		`{"sentence": "Maria fished near the bay.", "head": "Maria", "tail": "the bay", "relation": "LOCATED_NEAR"}` + "\n" +
		"\n" +
		`{"sentence": "Jon sold cod.", "head": "Jon", "tail": "cod", "relation": "NO_RELATION", "extra": 1}` + "\n" +
		"```\n"

	triples, malformed := ParseResponse(reply)
	require.Empty(t, malformed)
	require.Len(t, triples, 2)
	assert.Equal(t, "LOCATED_NEAR", triples[0].Relation)
	assert.Equal(t, "Jon", triples[1].Head)
}

func TestParseResponse_MalformedLinesAreReportedNotDropped(t *testing.T) {
	reply := `{"sentence": "a b", "head": "a", "tail": "b", "relation": "R"}` + "\n" +
		`this is not json` + "\n" +
		`{"sentence": "c d", "head": "c", "relation": "R"}` + "\n" +
		`{"sentence": "e f", "head": "e", "tail": "f", "relation": "R"}`

	triples, malformed := ParseResponse(reply)
	require.Len(t, triples, 2)
	require.Len(t, malformed, 2)

	assert.Equal(t, 2, malformed[0].Line)
	assert.Equal(t, "this is not json", malformed[0].Content)
	assert.Equal(t, 3, malformed[1].Line)
	assert.Contains(t, malformed[1].Error(), "tail")

	err := JoinMalformed(malformed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUpstreamFormat))

	var upstream *model.UpstreamFormatError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, 2, upstream.Line)
}

func TestParseResponse_WrongFieldType(t *testing.T) {
	_, malformed := ParseResponse(`{"sentence": "a b", "head": 1, "tail": "b", "relation": "R"}`)
	require.Len(t, malformed, 1)
	assert.ErrorIs(t, malformed[0], model.ErrUpstreamFormat)
}

func TestJoinMalformed_Nil(t *testing.T) {
	assert.NoError(t, JoinMalformed(nil))
}

func TestBuilder_RoutesNoRelation(t *testing.T) {
	reply := `{"sentence": "Maria fished near the bay", "head": "Maria", "tail": "the bay", "relation": "LOCATED_NEAR"}
{"sentence": "Jon sold cod", "head": "Jon", "tail": "cod", "relation": "NO_RELATION"}
{"sentence": "Jon met Maria", "head": "Jon", "tail": "Maria", "relation": "FRIENDS_WITH"}
not json`

	batch := NewBuilder(quietLogger()).Build("story.txt", reply)

	assert.Equal(t, "story.txt", batch.Source)
	require.Len(t, batch.Relations, 2)
	require.Len(t, batch.NoRelations, 1)
	assert.Equal(t, 3, batch.Len())

	// Routing keeps every other field intact
	noRel := batch.NoRelations[0]
	assert.Equal(t, []string{"Jon", "sold", "cod"}, noRel.Token)
	assert.Equal(t, model.EntityMention{Name: "jon", Pos: model.Span{0, 0}}, noRel.H)
	assert.Equal(t, model.EntityMention{Name: "cod", Pos: model.Span{2, 2}}, noRel.T)

	require.Len(t, batch.Malformed, 1)
	assert.ErrorIs(t, batch.Err(), model.ErrUpstreamFormat)
}

func TestBuilder_EmptyReply(t *testing.T) {
	batch := NewBuilder(quietLogger()).Build("empty.txt", "")
	assert.Zero(t, batch.Len())
	assert.NoError(t, batch.Err())
}
