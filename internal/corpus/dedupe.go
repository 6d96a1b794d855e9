package corpus

import (
	"strconv"
	"strings"

	"github.com/ppiankov/relcorpus/internal/model"
)

// Dedupe removes records identical in tokens, mention names, spans and
// relation, keeping the first occurrence. It returns the kept records and
// the number removed.
func Dedupe(records []model.RelationRecord) ([]model.RelationRecord, int) {
	seen := make(map[string]struct{}, len(records))
	kept := make([]model.RelationRecord, 0, len(records))

	for _, record := range records {
		key := RecordKey(record)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, record)
	}

	return kept, len(records) - len(kept)
}

// RecordKey identifies a record by tokens, mentions and relation; entity
// ids are not part of the key
func RecordKey(r model.RelationRecord) string {
	var b strings.Builder
	for _, tok := range r.Token {
		b.WriteString(tok)
		b.WriteByte(0)
	}
	for _, part := range []string{
		r.H.Name, strconv.Itoa(r.H.Pos[0]), strconv.Itoa(r.H.Pos[1]),
		r.T.Name, strconv.Itoa(r.T.Pos[0]), strconv.Itoa(r.T.Pos[1]),
		r.Relation,
	} {
		b.WriteByte(1)
		b.WriteString(part)
	}
	return b.String()
}
