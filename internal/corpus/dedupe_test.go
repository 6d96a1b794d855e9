package corpus

import (
	"testing"

	"github.com/ppiankov/relcorpus/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupe(t *testing.T) {
	a := rec("a", model.Span{0, 0}, "b", model.Span{1, 1}, "R")
	aAgain := rec("a", model.Span{0, 0}, "b", model.Span{1, 1}, "R")
	otherRelation := rec("a", model.Span{0, 0}, "b", model.Span{1, 1}, "S")
	otherSpan := rec("a", model.Span{0, 0}, "b", model.Span{2, 2}, "R")
	otherTokens := a
	otherTokens.Token = []string{"x", "y", "w"}

	out, removed := Dedupe([]model.RelationRecord{a, otherRelation, aAgain, otherSpan, otherTokens})

	require.Len(t, out, 4)
	assert.Equal(t, 1, removed)
	assert.Equal(t, "S", out[1].Relation)
}

func TestDedupe_TokenBoundaries(t *testing.T) {
	a := rec("a", model.Span{0, 0}, "b", model.Span{1, 1}, "R")
	a.Token = []string{"ab", "c"}
	b := a
	b.Token = []string{"a", "bc"}

	out, removed := Dedupe([]model.RelationRecord{a, b})
	assert.Len(t, out, 2)
	assert.Zero(t, removed)
}
