package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamFormat is returned when a generation-service line is not a valid triple.
	ErrUpstreamFormat = errors.New("relcorpus: malformed generation output")

	// ErrMissingFile is returned when a required input file does not exist.
	ErrMissingFile = errors.New("relcorpus: required file not found")

	// ErrInvalidRatios is returned when split ratios are negative or do not sum to 1.
	ErrInvalidRatios = errors.New("relcorpus: invalid split ratios")

	// ErrEmptyVocabulary is returned when the relation vocabulary has no entries.
	ErrEmptyVocabulary = errors.New("relcorpus: relation vocabulary is empty")

	// ErrUnknownEngine is returned for an unsupported generation engine name.
	ErrUnknownEngine = errors.New("relcorpus: unknown engine")

	// ErrNoQueries is returned when a graph-query reply contains no CREATE statements.
	ErrNoQueries = errors.New("relcorpus: no queries in reply")
)

// UpstreamFormatError describes one generation-service line that failed to parse
type UpstreamFormatError struct {
	Line    int    // 1-based line number within the reply
	Content string // The offending line, verbatim
	Err     error
}

func (e *UpstreamFormatError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Content)
}

// Unwrap lets errors.Is match both ErrUpstreamFormat and the parse cause
func (e *UpstreamFormatError) Unwrap() []error {
	return []error{ErrUpstreamFormat, e.Err}
}

// MissingFileError names a required file that was not found
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingFile, e.Path)
}

func (e *MissingFileError) Unwrap() error {
	return ErrMissingFile
}
