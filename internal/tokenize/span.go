package tokenize

import "github.com/ppiankov/relcorpus/internal/model"

// Locate returns the inclusive span of the first (leftmost) occurrence of
// entity as a contiguous run inside sentence, or model.NoSpan when there is
// none. An empty entity never matches.
func Locate(sentence, entity []string) model.Span {
	n := len(entity)
	if n == 0 || n > len(sentence) {
		return model.NoSpan
	}

	for i := 0; i+n <= len(sentence); i++ {
		if equalAt(sentence, entity, i) {
			return model.Span{i, i + n - 1}
		}
	}
	return model.NoSpan
}

func equalAt(sentence, entity []string, offset int) bool {
	for j, tok := range entity {
		if sentence[offset+j] != tok {
			return false
		}
	}
	return true
}
