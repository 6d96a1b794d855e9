package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ppiankov/relcorpus/internal/model"
)

const (
	// RelationsSuffix ends every per-batch file holding labeled records
	RelationsSuffix = "_relations.txt"

	// NoRelationsSuffix ends every per-batch file holding NO_RELATION records
	NoRelationsSuffix = "_no-relations.txt"

	batchTimeLayout = "02-01-2006_15.04.05"

	maxNameLen = 100
	hashLen    = 8
)

// BatchPaths returns the relation and no-relation file paths for one
// generation batch of source, stamped with at
func BatchPaths(dir, source string, at time.Time) (relations, noRelations string) {
	prefix := filepath.Join(dir, at.Format(batchTimeLayout)+"_"+SanitizeName(source))
	return prefix + RelationsSuffix, prefix + NoRelationsSuffix
}

// ListBatches returns the per-batch relation files in dir, sorted by name.
// No-relation files are never included.
func ListBatches(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &model.MissingFileError{Path: dir}
		}
		return nil, fmt.Errorf("read batch directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), RelationsSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// SanitizeName makes a source name (file name or URL) safe to embed in a
// file name. A name that cannot be kept verbatim is cut on a rune boundary
// and suffixed with a short hash of the full source, so distinct sources
// sharing a long prefix never map to the same file.
func SanitizeName(source string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(source, "https://"), "http://")
	s = strings.Trim(s, "/")

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	if s == "" {
		return "source"
	}
	if s == source && len(s) <= maxNameLen {
		return s
	}

	sum := sha256.Sum256([]byte(source))
	suffix := "-" + hex.EncodeToString(sum[:])[:hashLen]
	return truncateRunes(s, maxNameLen-len(suffix)) + suffix
}

// truncateRunes cuts s to at most n bytes without splitting a rune
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
