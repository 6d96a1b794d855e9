package model

// Vocabulary is the ordered, duplicate-free list of relation names a corpus
// may be labeled with. Position in the list is the relation's integer id.
type Vocabulary struct {
	names []string
	index map[string]int
}

// NewVocabulary builds a vocabulary, keeping the first occurrence of any
// repeated name so that ids stay dense
func NewVocabulary(names []string) *Vocabulary {
	v := &Vocabulary{index: make(map[string]int, len(names))}
	for _, name := range names {
		if _, ok := v.index[name]; ok {
			continue
		}
		v.index[name] = len(v.names)
		v.names = append(v.names, name)
	}
	return v
}

// Contains reports whether name is in the vocabulary (exact, case-sensitive)
func (v *Vocabulary) Contains(name string) bool {
	_, ok := v.index[name]
	return ok
}

// ID returns the 0-based id of name
func (v *Vocabulary) ID(name string) (int, bool) {
	id, ok := v.index[name]
	return id, ok
}

// Names returns the relation names in id order
func (v *Vocabulary) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// Len returns the number of relations
func (v *Vocabulary) Len() int {
	return len(v.names)
}
