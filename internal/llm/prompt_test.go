package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/relcorpus/internal/model"
)

func TestRelationPrompt(t *testing.T) {
	p := RelationPrompt([]string{"founded_by\n", " ", "located_in"})

	assert.True(t, strings.HasSuffix(p, "Relations: \n[`founded_by`, `located_in`, `UNKNOWN`]"))
	assert.Contains(t, p, "use NO_RELATION instead")
}

func TestRelationPromptEmptyVocabulary(t *testing.T) {
	assert.True(t, strings.HasSuffix(RelationPrompt(nil), "[`UNKNOWN`]"))
}

func TestRelationMessages(t *testing.T) {
	msgs := RelationMessages("Ada wrote notes.", model.NewVocabulary([]string{"author_of"}))

	require.Len(t, msgs, 2)
	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "`author_of`")
	assert.Equal(t, Message{Role: RoleUser, Content: "Ada wrote notes."}, msgs[1])
}
