// Package cypher turns free text into Cypher CREATE statements through the
// generation service and optionally applies them to Neo4j.
package cypher

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/relcorpus/internal/llm"
	"github.com/ppiankov/relcorpus/internal/model"
)

const generationTemplate = `You are an expert Neo4j Cypher translator who understands the text in english and converts it to Cypher strictly based on the Neo4j Schema provided and following the instructions below:
1. Generate Cypher query compatible ONLY for Neo4j Version 5.
2. Please do not use the same variable names for different nodes and relationships in the query.
3. Do not create Nodes and relationships that are already existing.
4. Always enclose the Cypher output inside 3 backticks.
5. Cypher is NOT SQL. So, do not mix and match the syntaxes.
6. Every Cypher query always starts with a CREATE keyword.
7. If no context provided, assume the people are fishermen.
8. Use similar labels for nodes if exist.
`

const existingPrefix = "These are the existing Nodes and relationships: "

// Messages builds the conversation for one translation: the instruction,
// the existing graph as a second system turn, then the text
func Messages(text, existing string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: generationTemplate},
		{Role: llm.RoleSystem, Content: existingPrefix + existing},
		{Role: llm.RoleUser, Content: text},
	}
}

// Translator converts text to Cypher statements
type Translator struct {
	provider llm.Provider
	logger   *logrus.Logger
}

// NewTranslator creates a translator backed by provider
func NewTranslator(provider llm.Provider, logger *logrus.Logger) *Translator {
	return &Translator{provider: provider, logger: logger}
}

// Translate asks the service for statements that add text's content to
// the graph described by existing. It fails with model.ErrNoQueries when the
// reply holds no CREATE statement.
func (t *Translator) Translate(ctx context.Context, text, existing string) ([]string, error) {
	t.logger.WithField("engine", t.provider.Name()).Info("requesting cypher")

	resp, err := t.provider.Complete(ctx, llm.CompletionRequest{Messages: Messages(text, existing)})
	if err != nil {
		return nil, fmt.Errorf("translate text: %w", err)
	}

	queries := ExtractQueries(resp.Content)
	if len(queries) == 0 {
		t.logger.WithField("reply", resp.Content).Debug("reply without statements")
		return nil, fmt.Errorf("%w in %s reply", model.ErrNoQueries, t.provider.Name())
	}
	return queries, nil
}

// ExtractQueries returns the trimmed lines starting with CREATE found inside
// triple-backtick fences. Text before the first fence and after the last is
// ignored, as is any line that is not a CREATE statement.
func ExtractQueries(reply string) []string {
	segments := strings.Split(reply, "```")
	if len(segments) < 3 {
		return nil
	}

	var queries []string
	for _, group := range segments[1 : len(segments)-1] {
		for _, line := range strings.Split(group, "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "CREATE") {
				queries = append(queries, line)
			}
		}
	}
	return queries
}
