package model

import (
	"path/filepath"
	"strings"
)

// SourceKind distinguishes local text files from remote pages
type SourceKind string

const (
	SourceFile SourceKind = "file"
	SourceURL  SourceKind = "url"
)

// Source is one unit of raw text handed to the generation service
type Source struct {
	Kind     SourceKind `json:"kind"`
	Location string     `json:"location"` // File path or URL
}

// FileSource returns a source for a local text file
func FileSource(path string) Source {
	return Source{Kind: SourceFile, Location: path}
}

// URLSource returns a source for a remote page
func URLSource(rawURL string) Source {
	return Source{Kind: SourceURL, Location: rawURL}
}

// Name is the label embedded in batch file names: the base file name for
// files, the URL itself for pages
func (s Source) Name() string {
	if s.Kind == SourceFile {
		return filepath.Base(s.Location)
	}
	return strings.TrimSpace(s.Location)
}

// SourceOutcome summarizes one generation batch
type SourceOutcome struct {
	Source          Source `json:"source"`
	Relations       int    `json:"relations"`
	NoRelations     int    `json:"no_relations"`
	Malformed       int    `json:"malformed"`
	RelationsPath   string `json:"relations_path"`
	NoRelationsPath string `json:"no_relations_path"`
	TokensUsed      int    `json:"tokens_used"`
	Cached          bool   `json:"cached,omitempty"`
}
