package model

import "time"

// Report summarizes one consolidation run
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Sources     []string  `json:"sources"` // Batch files read, in read order

	InputRecords       int `json:"input_records"`
	DroppedMissingSpan int `json:"dropped_missing_span"` // Head or tail not found in sentence
	DuplicatesRemoved  int `json:"duplicates_removed"`   // Only when dedupe is enabled
	Entities           int `json:"entities"`             // Distinct entity names given an id

	Accepted         int             `json:"accepted"`
	Rejected         int             `json:"rejected"`
	UnknownRelations []RelationCount `json:"unknown_relations,omitempty"` // Descending by count
	Distribution     []RelationCount `json:"distribution"`                // Accepted records per relation, vocabulary order

	Split  SplitCounts `json:"split"`
	Ratios SplitConfig `json:"ratios"`

	Signals []Signal `json:"signals,omitempty"`
}

// SplitCounts reports the size of each partition
type SplitCounts struct {
	Train int `json:"train"`
	Val   int `json:"val"`
	Test  int `json:"test"`
}

// Total returns the number of records across all partitions
func (c SplitCounts) Total() int {
	return c.Train + c.Val + c.Test
}

// Signal is a diagnostic observation about the corpus
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies a diagnostic signal
type SignalType string

const (
	SignalSpanLoss         SignalType = "span_loss"         // Records lost to unlocatable mentions
	SignalUnknownRelations SignalType = "unknown_relations" // Labels outside the vocabulary
	SignalUnusedRelations  SignalType = "unused_relations"  // Vocabulary entries with no records
	SignalClassImbalance   SignalType = "class_imbalance"   // One relation dominates the corpus
	SignalSmallSplit       SignalType = "small_split"       // A partition ended up empty
)

// SignalSeverity indicates the importance of a signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)
