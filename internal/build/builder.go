// Package build turns generation-service triples into relation records with
// token-level entity spans.
package build

import (
	"github.com/ppiankov/relcorpus/internal/model"
	"github.com/ppiankov/relcorpus/internal/tokenize"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Batch is the output of one generation-service response
type Batch struct {
	Source      string                       // Name of the text the triples came from
	Relations   []model.RelationRecord       // Records with an assigned relation
	NoRelations []model.RelationRecord       // Records labeled model.NoRelation
	Malformed   []*model.UpstreamFormatError // Lines that could not be parsed
}

// Len returns the number of records in both streams
func (b *Batch) Len() int {
	return len(b.Relations) + len(b.NoRelations)
}

// Err returns the joined format errors of the batch, or nil
func (b *Batch) Err() error {
	return JoinMalformed(b.Malformed)
}

// Builder assembles relation records from generation replies
type Builder struct {
	logger *logrus.Logger
}

// NewBuilder creates a record builder
func NewBuilder(logger *logrus.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build parses a reply and routes each record to the relation or
// no-relation stream. Malformed lines are logged and kept on the batch; they
// never abort the rest of the reply.
func (b *Builder) Build(source, reply string) *Batch {
	triples, malformed := ParseResponse(reply)

	batch := &Batch{
		Source:    source,
		Malformed: malformed,
	}

	for _, m := range malformed {
		b.logger.WithFields(logrus.Fields{
			"source": source,
			"line":   m.Line,
		}).WithError(m.Err).Warnf("malformed generation output: %s", m.Content)
	}

	for _, triple := range triples {
		record := NewRecord(triple)
		if record.HasRelation() {
			batch.Relations = append(batch.Relations, record)
		} else {
			batch.NoRelations = append(batch.NoRelations, record)
		}

		b.logger.WithFields(logrus.Fields{
			"source":   source,
			"relation": record.Relation,
			"head":     record.H.Pos,
			"tail":     record.T.Pos,
		}).Debug("built record")
	}

	return batch
}

// NewRecord tokenizes the sentence and both mentions, locates the mention
// spans and lower-cases the mention names
func NewRecord(t model.Triple) model.RelationRecord {
	tokens := tokenize.Tokenize(t.Sentence)

	return model.RelationRecord{
		Token: tokens,
		H: model.EntityMention{
			Name: LowerName(t.Head),
			Pos:  tokenize.Locate(tokens, tokenize.Tokenize(t.Head)),
		},
		T: model.EntityMention{
			Name: LowerName(t.Tail),
			Pos:  tokenize.Locate(tokens, tokenize.Tokenize(t.Tail)),
		},
		Relation: t.Relation,
	}
}

// LowerName lower-cases an entity surface form for use as a dedupe key
func LowerName(name string) string {
	return cases.Lower(language.Und).String(name)
}
