package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/relcorpus/internal/llm"
	"github.com/ppiankov/relcorpus/internal/model"
	"github.com/ppiankov/relcorpus/internal/store"
)

// scriptedProvider replies with a fixed text per user message
type scriptedProvider struct {
	mu       sync.Mutex
	replies  map[string]string
	requests []llm.CompletionRequest
	err      error
}

func (p *scriptedProvider) Name() string                         { return "scripted" }
func (p *scriptedProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	user := req.Messages[len(req.Messages)-1].Content
	return &llm.CompletionResponse{Content: p.replies[strings.TrimSpace(user)], TokensUsed: 10}, nil
}

const fishingReply = `{"sentence": "Maria fished near the bay", "head": "Maria", "tail": "the bay", "relation": "LOCATED_NEAR"}
{"sentence": "Maria likes tea", "head": "Maria", "tail": "tea", "relation": "NO_RELATION"}
not json at all`

var fixedTime = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

func newTestGenerator(t *testing.T, provider llm.Provider, outputs string) *Generator {
	t.Helper()
	return NewGenerator(GeneratorConfig{
		Provider:    provider,
		Vocabulary:  model.NewVocabulary([]string{"LOCATED_NEAR", "WORKS_WITH"}),
		OutputDir:   outputs,
		Concurrency: 2,
		Logger:      quietLogger(),
		Now:         func() time.Time { return fixedTime },
	})
}

func TestGenerator_ProcessSource(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "fishing.txt")
	require.NoError(t, os.WriteFile(input, []byte("Maria fished near the bay.\n"), 0o644))
	outputs := filepath.Join(dir, "outputs")

	provider := &scriptedProvider{replies: map[string]string{"Maria fished near the bay.": fishingReply}}
	gen := newTestGenerator(t, provider, outputs)

	outcome, err := gen.ProcessSource(context.Background(), model.FileSource(input))
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Relations)
	assert.Equal(t, 1, outcome.NoRelations)
	assert.Equal(t, 1, outcome.Malformed)
	assert.Equal(t, 10, outcome.TokensUsed)
	assert.Equal(t, filepath.Join(outputs, "05-03-2024_14.07.09_fishing.txt_relations.txt"), outcome.RelationsPath)
	assert.Equal(t, filepath.Join(outputs, "05-03-2024_14.07.09_fishing.txt_no-relations.txt"), outcome.NoRelationsPath)

	rel, err := store.ReadRecords(outcome.RelationsPath)
	require.NoError(t, err)
	require.Len(t, rel, 1)
	assert.Equal(t, model.EntityMention{Name: "the bay", Pos: model.Span{3, 4}}, rel[0].T)

	noRel, err := store.ReadRecords(outcome.NoRelationsPath)
	require.NoError(t, err)
	require.Len(t, noRel, 1)
	assert.Equal(t, model.NoRelation, noRel[0].Relation)

	require.Len(t, provider.requests, 1)
	msgs := provider.requests[0].Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "[`LOCATED_NEAR`, `WORKS_WITH`, `UNKNOWN`]")
}

func TestGenerator_Run(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	require.NoError(t, os.WriteFile(good, []byte("Maria fished near the bay."), 0o644))

	provider := &scriptedProvider{replies: map[string]string{"Maria fished near the bay.": fishingReply}}
	gen := newTestGenerator(t, provider, filepath.Join(dir, "outputs"))

	summary, err := gen.Run(context.Background(), []model.Source{
		model.FileSource(good),
		model.FileSource(filepath.Join(dir, "missing.txt")),
	})
	require.NoError(t, err)

	assert.Len(t, summary.Outcomes, 1)
	assert.Equal(t, 1, summary.Relations)
	assert.Equal(t, 1, summary.NoRelations)
	assert.Equal(t, 1, summary.Malformed)
	require.Len(t, summary.Failed, 1)
	assert.True(t, errors.Is(summary.Failed[filepath.Join(dir, "missing.txt")], model.ErrMissingFile))

	batches, err := store.ListBatches(filepath.Join(dir, "outputs"))
	require.NoError(t, err)
	assert.Len(t, batches, 1)
}

func TestGenerator_RunAllFail(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(input, []byte("text"), 0o644))

	provider := &scriptedProvider{err: errors.New("quota exceeded")}
	gen := newTestGenerator(t, provider, filepath.Join(dir, "outputs"))

	summary, err := gen.Run(context.Background(), []model.Source{model.FileSource(input)})
	require.Error(t, err)
	assert.Len(t, summary.Failed, 1)
	assert.Contains(t, summary.Failed[input].Error(), "quota exceeded")
}

func TestGenerator_EmptySource(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "blank.txt")
	require.NoError(t, os.WriteFile(input, []byte("  \n"), 0o644))

	provider := &scriptedProvider{}
	gen := newTestGenerator(t, provider, filepath.Join(dir, "outputs"))

	_, err := gen.ProcessSource(context.Background(), model.FileSource(input))
	assert.Error(t, err)
	assert.Empty(t, provider.requests, "blank sources are never sent")
}
