package corpus

import (
	"sort"

	"github.com/ppiankov/relcorpus/internal/model"
)

// FilterResult partitions records by vocabulary membership
type FilterResult struct {
	Accepted []model.RelationRecord
	Rejected []model.RelationRecord

	// Unknown tallies rejected relation names in first-encounter order
	Unknown []model.RelationCount
}

// Filter accepts records whose relation is in vocab (exact match) and tallies
// the relation names of the rest. Input order is preserved in both outputs.
func Filter(records []model.RelationRecord, vocab *model.Vocabulary) FilterResult {
	var result FilterResult
	position := make(map[string]int)

	for _, record := range records {
		if vocab.Contains(record.Relation) {
			result.Accepted = append(result.Accepted, record)
			continue
		}

		result.Rejected = append(result.Rejected, record)
		if i, ok := position[record.Relation]; ok {
			result.Unknown[i].Count++
			continue
		}
		position[record.Relation] = len(result.Unknown)
		result.Unknown = append(result.Unknown, model.RelationCount{Relation: record.Relation, Count: 1})
	}

	return result
}

// SortedUnknown returns the unknown-relation tally by descending count, ties
// kept in first-encounter order
func (r FilterResult) SortedUnknown() []model.RelationCount {
	sorted := make([]model.RelationCount, len(r.Unknown))
	copy(sorted, r.Unknown)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	return sorted
}

// Distribution counts records per vocabulary relation, in vocabulary order.
// Relations with no records are included with a zero count.
func Distribution(records []model.RelationRecord, vocab *model.Vocabulary) []model.RelationCount {
	names := vocab.Names()
	dist := make([]model.RelationCount, len(names))
	for i, name := range names {
		dist[i].Relation = name
	}
	for _, record := range records {
		if id, ok := vocab.ID(record.Relation); ok {
			dist[id].Count++
		}
	}
	return dist
}
