// Package validate checks a consolidated dataset before it is handed to a
// relation-extraction trainer
package validate

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/relcorpus/internal/build"
	"github.com/ppiankov/relcorpus/internal/corpus"
	"github.com/ppiankov/relcorpus/internal/model"
	"github.com/ppiankov/relcorpus/internal/store"
	"github.com/ppiankov/relcorpus/internal/tokenize"
)

// IssueKind classifies a dataset problem
type IssueKind string

const (
	IssueEmptyTokens     IssueKind = "empty_tokens"      // Record has no tokens
	IssueSpanRange       IssueKind = "span_out_of_range" // Span is the sentinel, reversed or past the last token
	IssueSpanText        IssueKind = "span_mismatch"     // Tokens under the span do not spell the mention
	IssueMissingID       IssueKind = "missing_entity_id"
	IssueIDConflict      IssueKind = "entity_id_conflict" // One name with two ids, or one id with two names
	IssueUnknownRelation IssueKind = "unknown_relation"   // Relation absent from rel2id.json
	IssueSplitOverlap    IssueKind = "split_overlap"      // Same record in more than one split
)

// Issue is one problem found in a split file
type Issue struct {
	File   string    `json:"file"`
	Line   int       `json:"line"` // 1-based record number within the file
	Kind   IssueKind `json:"kind"`
	Detail string    `json:"detail"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s:%d: %s: %s", i.File, i.Line, i.Kind, i.Detail)
}

// Result summarizes a dataset validation
type Result struct {
	Records  map[string]int `json:"records"` // Records per split file
	Entities int            `json:"entities"`
	Issues   []Issue        `json:"issues,omitempty"`
}

// OK reports whether no issue was found
func (r *Result) OK() bool {
	return len(r.Issues) == 0
}

// Validator checks the split files and relation map of a dataset directory
type Validator struct {
	splitFiles []string
	relToID    string
	logger     *logrus.Logger
}

// NewValidator creates a validator for the given split file names and
// relation map file name, all relative to the dataset directory
func NewValidator(splitFiles []string, relToID string, logger *logrus.Logger) *Validator {
	return &Validator{splitFiles: splitFiles, relToID: relToID, logger: logger}
}

type splitData struct {
	file    string
	records []model.RelationRecord
	err     error
}

// Validate reads every split file in dir concurrently, then checks each
// record on its own and the dataset as a whole. A missing or unreadable file
// is an error; problems inside records are reported as issues.
func (v *Validator) Validate(dir string) (*Result, error) {
	ids, err := store.ReadRelToID(filepath.Join(dir, v.relToID))
	if err != nil {
		return nil, err
	}

	splits := make([]splitData, len(v.splitFiles))
	var wg sync.WaitGroup
	for i, file := range v.splitFiles {
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()
			records, err := store.ReadRecords(filepath.Join(dir, file))
			splits[i] = splitData{file: file, records: records, err: err}
		}(i, file)
	}
	wg.Wait()

	var readErrs []error
	for _, s := range splits {
		if s.err != nil {
			readErrs = append(readErrs, s.err)
		}
	}
	if err := errors.Join(readErrs...); err != nil {
		return nil, err
	}

	result := &Result{Records: make(map[string]int, len(splits))}
	entities := newEntityIndex()
	seen := make(map[string]string) // record key -> first split file

	for _, s := range splits {
		result.Records[s.file] = len(s.records)
		for i, r := range s.records {
			line := i + 1
			for _, issue := range checkRecord(r, ids) {
				result.Issues = append(result.Issues, Issue{File: s.file, Line: line, Kind: issue.Kind, Detail: issue.Detail})
			}
			for _, m := range []model.EntityMention{r.H, r.T} {
				if detail := entities.add(m); detail != "" {
					result.Issues = append(result.Issues, Issue{File: s.file, Line: line, Kind: IssueIDConflict, Detail: detail})
				}
			}

			key := corpus.RecordKey(r)
			if first, ok := seen[key]; ok && first != s.file {
				result.Issues = append(result.Issues, Issue{
					File: s.file, Line: line, Kind: IssueSplitOverlap,
					Detail: fmt.Sprintf("also in %s", first),
				})
			} else if !ok {
				seen[key] = s.file
			}
		}
	}
	result.Entities = len(entities.byName)

	v.logger.WithFields(logrus.Fields{
		"path":     dir,
		"entities": result.Entities,
		"issues":   len(result.Issues),
	}).Info("validated dataset")
	return result, nil
}

// checkRecord returns the problems of a single record. File and Line are
// left for the caller.
func checkRecord(r model.RelationRecord, ids map[string]int) []Issue {
	var issues []Issue
	add := func(kind IssueKind, format string, args ...interface{}) {
		issues = append(issues, Issue{Kind: kind, Detail: fmt.Sprintf(format, args...)})
	}

	if len(r.Token) == 0 {
		add(IssueEmptyTokens, "record has no tokens")
	}
	if _, ok := ids[r.Relation]; !ok {
		add(IssueUnknownRelation, "%q not in relation map", r.Relation)
	}

	for _, m := range []struct {
		role    string
		mention model.EntityMention
	}{{"head", r.H}, {"tail", r.T}} {
		if m.mention.ID == "" {
			add(IssueMissingID, "%s %q has no id", m.role, m.mention.Name)
		}
		start, end := m.mention.Pos[0], m.mention.Pos[1]
		if !m.mention.Pos.Found() || start < 0 || end < start || end >= len(r.Token) {
			add(IssueSpanRange, "%s span %v outside %d tokens", m.role, m.mention.Pos, len(r.Token))
			continue
		}
		if got, want := spanText(r.Token[start:end+1]), spanText(tokenize.Tokenize(m.mention.Name)); got != want {
			add(IssueSpanText, "%s span %v reads %q, mention is %q", m.role, m.mention.Pos, got, m.mention.Name)
		}
	}
	return issues
}

func spanText(tokens []string) string {
	return build.LowerName(strings.Join(tokens, " "))
}

// entityIndex tracks the name<->id mapping across all split files
type entityIndex struct {
	byName map[string]string
	byID   map[string]string
}

func newEntityIndex() *entityIndex {
	return &entityIndex{byName: make(map[string]string), byID: make(map[string]string)}
}

// add records the mention's name and id, returning a description of the
// conflict when either is already bound to something else
func (e *entityIndex) add(m model.EntityMention) string {
	if m.ID == "" {
		return ""
	}
	if id, ok := e.byName[m.Name]; ok && id != m.ID {
		return fmt.Sprintf("%q has ids %s and %s", m.Name, id, m.ID)
	}
	if name, ok := e.byID[m.ID]; ok && name != m.Name {
		return fmt.Sprintf("id %s names both %q and %q", m.ID, name, m.Name)
	}
	e.byName[m.Name] = m.ID
	e.byID[m.ID] = m.Name
	return ""
}

// CountByKind tallies issues per kind, kinds sorted by name
func CountByKind(issues []Issue) []KindCount {
	counts := make(map[IssueKind]int)
	for _, i := range issues {
		counts[i.Kind]++
	}
	out := make([]KindCount, 0, len(counts))
	for kind, n := range counts {
		out = append(out, KindCount{Kind: kind, Count: n})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Kind < out[b].Kind })
	return out
}

// KindCount pairs an issue kind with its frequency
type KindCount struct {
	Kind  IssueKind
	Count int
}
