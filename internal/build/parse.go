package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/relcorpus/internal/model"
)

// wireTriple detects missing keys, which a plain Triple would silently zero
type wireTriple struct {
	Sentence *string `json:"sentence"`
	Head     *string `json:"head"`
	Tail     *string `json:"tail"`
	Relation *string `json:"relation"`
}

// ParseResponse reads a generation-service reply as JSON-Lines triples.
//
// Blank lines and markdown code fences are skipped. Every other line must be
// a JSON object with string fields sentence, head, tail and relation. Lines
// that are not come back as *model.UpstreamFormatError values and parsing
// continues with the next line.
func ParseResponse(reply string) ([]model.Triple, []*model.UpstreamFormatError) {
	var triples []model.Triple
	var malformed []*model.UpstreamFormatError

	for i, raw := range strings.Split(reply, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}

		triple, err := parseLine(line)
		if err != nil {
			malformed = append(malformed, &model.UpstreamFormatError{
				Line:    i + 1,
				Content: line,
				Err:     err,
			})
			continue
		}
		triples = append(triples, triple)
	}

	return triples, malformed
}

func parseLine(line string) (model.Triple, error) {
	var w wireTriple
	if err := json.Unmarshal([]byte(line), &w); err != nil {
		return model.Triple{}, fmt.Errorf("decode triple: %w", err)
	}

	var missing []string
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"sentence", w.Sentence},
		{"head", w.Head},
		{"tail", w.Tail},
		{"relation", w.Relation},
	} {
		if f.value == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return model.Triple{}, fmt.Errorf("missing field(s): %s", strings.Join(missing, ", "))
	}

	return model.Triple{
		Sentence: *w.Sentence,
		Head:     *w.Head,
		Tail:     *w.Tail,
		Relation: *w.Relation,
	}, nil
}

// JoinMalformed folds per-line format errors into one error, or nil
func JoinMalformed(malformed []*model.UpstreamFormatError) error {
	if len(malformed) == 0 {
		return nil
	}
	errs := make([]error, len(malformed))
	for i, m := range malformed {
		errs[i] = m
	}
	return errors.Join(errs...)
}
