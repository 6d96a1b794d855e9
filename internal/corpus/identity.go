// Package corpus consolidates relation records into a training corpus:
// entity identity assignment, relation filtering and train/val/test splits.
package corpus

import (
	"strconv"

	"github.com/ppiankov/relcorpus/internal/model"
)

// EntityTable maps lower-cased entity names to run-scoped identifiers.
// Identifiers are handed out in first-seen order and never reused.
type EntityTable struct {
	ids   map[string]string
	order []string
}

// NewEntityTable creates an empty table. Each consolidation run owns one.
func NewEntityTable() *EntityTable {
	return &EntityTable{ids: make(map[string]string)}
}

// ID returns the identifier for name, assigning the next one ("Q0", "Q1",
// ...) the first time name is seen
func (t *EntityTable) ID(name string) string {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := "Q" + strconv.Itoa(len(t.order))
	t.ids[name] = id
	t.order = append(t.order, name)
	return id
}

// Len returns the number of distinct names
func (t *EntityTable) Len() int {
	return len(t.order)
}

// Entities returns the table in assignment order
func (t *EntityTable) Entities() []model.Entity {
	out := make([]model.Entity, len(t.order))
	for i, name := range t.order {
		out[i] = model.Entity{Name: name, ID: t.ids[name]}
	}
	return out
}

// Assign walks records in order and returns copies carrying entity ids,
// together with the number of records dropped.
//
// A record is dropped when its head span is the not-found sentinel. The head
// name gets its id as soon as the head span is found and before the tail is
// inspected, so a record dropped for a missing tail still consumes an id for
// its head. Relative order of kept records is preserved.
func (t *EntityTable) Assign(records []model.RelationRecord) ([]model.RelationRecord, int) {
	kept := make([]model.RelationRecord, 0, len(records))
	dropped := 0

	for _, record := range records {
		if !record.H.Pos.Found() {
			dropped++
			continue
		}
		out := record
		out.H.ID = t.ID(record.H.Name)

		if !record.T.Pos.Found() {
			dropped++
			continue
		}
		out.T.ID = t.ID(record.T.Name)
		kept = append(kept, out)
	}

	return kept, dropped
}
