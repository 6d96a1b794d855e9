package model

// NoRelation is the label the generation service uses when a sentence has no
// relation from the vocabulary
const NoRelation = "NO_RELATION"

// Span is an inclusive (start, end) token-index pair. It serializes as a
// two-element JSON array.
type Span [2]int

// NoSpan marks a mention that was not found in its sentence
var NoSpan = Span{-1, -1}

// Found reports whether both ends of the span point into the sentence
func (s Span) Found() bool {
	return s[0] != -1 && s[1] != -1
}

// Triple is one candidate proposed by the generation service
type Triple struct {
	Sentence string `json:"sentence"`
	Head     string `json:"head"`
	Tail     string `json:"tail"`
	Relation string `json:"relation"`
}

// EntityMention is an entity occurrence inside a tokenized sentence
type EntityMention struct {
	Name string `json:"name"`         // Lower-cased surface form, the dedupe key
	Pos  Span   `json:"pos"`          // Token span or NoSpan
	ID   string `json:"id,omitempty"` // Set by entity identity assignment
}

// Entity is one row of a consolidation run's entity identity table
type Entity struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// RelationRecord is a single labeled training example
type RelationRecord struct {
	Token    []string      `json:"token"`
	H        EntityMention `json:"h"`
	T        EntityMention `json:"t"`
	Relation string        `json:"relation"`
}

// HasRelation reports whether the record carries a relation other than NoRelation
func (r RelationRecord) HasRelation() bool {
	return r.Relation != NoRelation
}

// RelationCount pairs a relation name with a frequency
type RelationCount struct {
	Relation string `json:"relation"`
	Count    int    `json:"count"`
}
