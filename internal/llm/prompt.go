package llm

import (
	"strings"

	"github.com/ppiankov/relcorpus/internal/model"
)

// UnknownRelation is offered to the service as an escape label alongside
// the vocabulary
const UnknownRelation = "UNKNOWN"

const relationTemplate = `You are a helpful assistant who classifies the relation between two entities in a sentence and follows the instructions below:
1. Return JSONL valid text in the format: {"sentence": "", "head":"", "tail": "", "relation": ""}
2. Every sentence must be included
3. Classify the relation between two entities for each sentence from the list of relations
4. If no relevant relation exists for classification, use ` + model.NoRelation + ` instead
5. If a sentence is incomplete, complete the sentence with context extrapolated from the text
6. There must not be any other text except JSONL

Relations: 
`

// RelationPrompt renders the system instruction listing the allowed
// relations, e.g. Relations: [`founded_by`, `UNKNOWN`]
func RelationPrompt(relations []string) string {
	quoted := make([]string, 0, len(relations)+1)
	for _, r := range relations {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		quoted = append(quoted, "`"+r+"`")
	}
	quoted = append(quoted, "`"+UnknownRelation+"`")
	return relationTemplate + "[" + strings.Join(quoted, ", ") + "]"
}

// RelationMessages builds the two-turn conversation asking for triples
// from one source text
func RelationMessages(text string, vocab *model.Vocabulary) []Message {
	return []Message{
		{Role: RoleSystem, Content: RelationPrompt(vocab.Names())},
		{Role: RoleUser, Content: text},
	}
}
