// Package store reads and writes the files exchanged between pipeline
// stages: per-batch record files, the relation vocabulary, split files and
// the relation-to-id map. Every write replaces the destination file.
package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ppiankov/relcorpus/internal/model"
)

// maxLineBytes bounds a single JSON-Lines record
const maxLineBytes = 16 << 20

// ReadRecords reads a JSON-Lines file of relation records. Blank lines are
// skipped; any other line that is not a record fails the whole read.
func ReadRecords(path string) ([]model.RelationRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &model.MissingFileError{Path: path}
		}
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer func() { _ = file.Close() }()

	var records []model.RelationRecord
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var record model.RelationRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("%s:%d: decode record: %w", path, lineNo, err)
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}

	return records, nil
}

// WriteRecords writes records as JSON-Lines, replacing the file
func WriteRecords(path string, records []model.RelationRecord) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
