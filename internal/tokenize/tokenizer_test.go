package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		want     []string
	}{
		{"simple", "Maria fished near the bay", []string{"Maria", "fished", "near", "the", "bay"}},
		{"trailing period", "Maria fished near the bay.", []string{"Maria", "fished", "near", "the", "bay", "."}},
		{"comma", "Jon, a fisherman, sold cod", []string{"Jon", ",", "a", "fisherman", ",", "sold", "cod"}},
		{"apostrophe", "Maria's boat didn't sink", []string{"Maria's", "boat", "didn't", "sink"}},
		{"hyphen", "a state-owned harbour", []string{"a", "state-owned", "harbour"}},
		{"decimal", "it weighed 3.14 kg", []string{"it", "weighed", "3.14", "kg"}},
		{"thousands", "1,000 nets", []string{"1,000", "nets"}},
		{"abbreviation", "the U.S. coast", []string{"the", "U.S.", "coast"}},
		{"abbreviation at end", "fish, e.g. cod", []string{"fish", ",", "e.g.", "cod"}},
		{"titles stay split", "Mr. Smith", []string{"Mr", ".", "Smith"}},
		{"brackets and quotes", `"Hello" (world)`, []string{`"`, "Hello", `"`, "(", "world", ")"}},
		{"extra whitespace", "  a \t b\n\nc  ", []string{"a", "b", "c"}},
		{"dangling hyphen", "well- known", []string{"well", "-", "known"}},
		{"unicode letters", "Þórður sá Reykjavík", []string{"Þórður", "sá", "Reykjavík"}},
		{"sentence glued by period", "end.Start", []string{"end", ".", "Start"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.sentence))
		})
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   \n\t "))
}

func TestTokenize_NoEmptyTokens(t *testing.T) {
	for _, s := range []string{"a  b", " . , ", "x--y", "''"} {
		for _, tok := range Tokenize(s) {
			require.NotEmpty(t, tok, "sentence %q", s)
		}
	}
}

func TestTokenize_Deterministic(t *testing.T) {
	s := "Olaf's trawler left the U.S. port at 5.30, heading north-east."
	first := Tokenize(s)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Tokenize(s))
	}
}
