package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/relcorpus/internal/model"
)

// WriteEntityToID writes the entity identity table as a JSON array in
// assignment order, replacing the file
func WriteEntityToID(path string, entities []model.Entity) error {
	if entities == nil {
		entities = []model.Entity{}
	}
	data, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return fmt.Errorf("encode entities: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
