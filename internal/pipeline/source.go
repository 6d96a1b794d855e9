package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/relcorpus/internal/extract"
	"github.com/ppiankov/relcorpus/internal/model"
)

// SourceLoader reads the raw text of a source
type SourceLoader struct {
	fetcher *Fetcher
}

// NewSourceLoader creates a loader; fetcher may be nil when no URL sources
// are expected
func NewSourceLoader(fetcher *Fetcher) *SourceLoader {
	return &SourceLoader{fetcher: fetcher}
}

// Load returns the text of src. HTML files are reduced to visible text.
func (l *SourceLoader) Load(ctx context.Context, src model.Source) (string, error) {
	switch src.Kind {
	case model.SourceFile:
		data, err := os.ReadFile(src.Location)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", &model.MissingFileError{Path: src.Location}
			}
			return "", fmt.Errorf("read source: %w", err)
		}
		switch strings.ToLower(filepath.Ext(src.Location)) {
		case ".html", ".htm":
			return extract.VisibleText(string(data))
		}
		return string(data), nil

	case model.SourceURL:
		if l.fetcher == nil {
			return "", fmt.Errorf("no fetcher configured for %s", src.Location)
		}
		res, err := l.fetcher.Fetch(ctx, src.Location)
		if err != nil {
			return "", err
		}
		return res.Text, nil

	default:
		return "", fmt.Errorf("unknown source kind %q", src.Kind)
	}
}
