package cypher

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/relcorpus/internal/llm"
	"github.com/ppiankov/relcorpus/internal/model"
)

func TestExtractQueries(t *testing.T) {
	reply := "Here you go:\n```cypher\nCREATE (m:Person {name: 'Maria'})\n  CREATE (b:Place {name: 'the bay'})\nMATCH (n) RETURN n\n```\nand also\n```\nCREATE (m)-[:FISHED_NEAR]->(b)\n```\ntrailing CREATE (x) outside"

	assert.Equal(t, []string{
		"CREATE (m:Person {name: 'Maria'})",
		"CREATE (b:Place {name: 'the bay'})",
		"CREATE (m)-[:FISHED_NEAR]->(b)",
	}, ExtractQueries(reply))
}

func TestExtractQueries_NoFences(t *testing.T) {
	assert.Empty(t, ExtractQueries("CREATE (a)"))
	assert.Empty(t, ExtractQueries("```CREATE (a)"))
	assert.Empty(t, ExtractQueries(""))
}

func TestExtractQueries_TextBetweenFences(t *testing.T) {
	// Segments between fences alternate code and prose; all inner segments count
	got := ExtractQueries("```\nCREATE (a)\n```\nCREATE (b)\n```\nCREATE (c)\n```")
	assert.Equal(t, []string{"CREATE (a)", "CREATE (b)", "CREATE (c)"}, got)
}

func TestMessages(t *testing.T) {
	msgs := Messages("Maria fished.", "CREATE (x:Person)")
	require.Len(t, msgs, 3)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, llm.Message{Role: llm.RoleSystem, Content: "These are the existing Nodes and relationships: CREATE (x:Person)"}, msgs[1])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "Maria fished."}, msgs[2])
}

type fixedProvider struct {
	reply string
	err   error
}

func (p fixedProvider) Name() string                         { return "fixed" }
func (p fixedProvider) IsAvailable(ctx context.Context) bool { return true }
func (p fixedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Content: p.reply}, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestTranslator_Translate(t *testing.T) {
	tr := NewTranslator(fixedProvider{reply: "```\nCREATE (a:Person)\n```"}, quietLogger())
	queries, err := tr.Translate(context.Background(), "text", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"CREATE (a:Person)"}, queries)
}

func TestTranslator_NoQueries(t *testing.T) {
	tr := NewTranslator(fixedProvider{reply: "I cannot help with that."}, quietLogger())
	_, err := tr.Translate(context.Background(), "text", "")
	assert.True(t, errors.Is(err, model.ErrNoQueries))
}

func TestTranslator_ProviderError(t *testing.T) {
	tr := NewTranslator(fixedProvider{err: errors.New("boom")}, quietLogger())
	_, err := tr.Translate(context.Background(), "text", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestNewNeo4jApplier_RequiresURI(t *testing.T) {
	_, err := NewNeo4jApplier(model.Neo4jConfig{}, quietLogger())
	assert.Error(t, err)
}
