package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/relcorpus/internal/model"
)

// SourceProcessor turns one source into a generation batch
type SourceProcessor interface {
	ProcessSource(ctx context.Context, src model.Source) (*model.SourceOutcome, error)
}

// SourceJob represents one source to generate from
type SourceJob struct {
	Index     int
	Source    model.Source
	Processor SourceProcessor
}

// Execute executes the job
func (j *SourceJob) Execute(ctx context.Context) Result {
	outcome, err := j.Processor.ProcessSource(ctx, j.Source)
	return &SourceResult{
		Index:   j.Index,
		Source:  j.Source,
		Outcome: outcome,
		Error:   err,
	}
}

// SourceResult represents the result of a source job
type SourceResult struct {
	Index   int
	Source  model.Source
	Outcome *model.SourceOutcome
	Error   error
}

// GetError returns the error from the result
func (r *SourceResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple sources concurrently
type BatchProcessor struct {
	processor   SourceProcessor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor SourceProcessor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// Process runs every source and returns one result per source, in input
// order. Sources not started before ctx is cancelled report ctx.Err().
func (b *BatchProcessor) Process(ctx context.Context, sources []model.Source) []*SourceResult {
	if len(sources) == 0 {
		return []*SourceResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	for i, src := range sources {
		if !pool.Submit(&SourceJob{Index: i, Source: src, Processor: b.processor}) {
			break
		}
	}

	ordered := make([]*SourceResult, len(sources))
	for _, result := range pool.Wait() {
		r := result.(*SourceResult)
		ordered[r.Index] = r
	}

	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &SourceResult{Index: i, Source: sources[i], Error: err}
		}
	}

	return ordered
}

// ReadURLsFromFile reads URLs from a file (one per line), skipping blank
// lines, comments and duplicates
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &model.MissingFileError{Path: filePath}
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}

// inputExtensions are the file types accepted from the inputs directory
var inputExtensions = map[string]bool{".txt": true, ".html": true, ".htm": true}

// ListInputSources returns a source for every text or HTML file directly
// inside dir, sorted by name
func ListInputSources(dir string) ([]model.Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &model.MissingFileError{Path: dir}
		}
		return nil, fmt.Errorf("read inputs: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !inputExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	sources := make([]model.Source, len(names))
	for i, name := range names {
		sources[i] = model.FileSource(filepath.Join(dir, name))
	}
	return sources, nil
}
