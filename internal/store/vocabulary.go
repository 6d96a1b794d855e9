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
	"strings"

	"github.com/ppiankov/relcorpus/internal/model"
)

// LoadVocabulary reads the relation vocabulary: one relation per line,
// surrounding whitespace trimmed, blank lines ignored, order preserved
func LoadVocabulary(path string) (*model.Vocabulary, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &model.MissingFileError{Path: path}
		}
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer func() { _ = file.Close() }()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan vocabulary: %w", err)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrEmptyVocabulary, path)
	}

	return model.NewVocabulary(names), nil
}

// EncodeRelToID renders the vocabulary as a JSON object mapping each
// relation to its id, keys in vocabulary order
func EncodeRelToID(vocab *model.Vocabulary) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range vocab.Names() {
		if i > 0 {
			buf.WriteString(", ")
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("encode relation %q: %w", name, err)
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ": %d", i)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteRelToID writes the relation-to-id map, replacing the file
func WriteRelToID(path string, vocab *model.Vocabulary) error {
	data, err := EncodeRelToID(vocab)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadRelToID reads a relation-to-id map written by WriteRelToID
func ReadRelToID(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &model.MissingFileError{Path: path}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	ids := make(map[string]int)
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return ids, nil
}
