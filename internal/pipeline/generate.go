// Package pipeline runs the two corpus stages: generate (sources to batch
// files through the generation service) and consolidate (batch files to a
// split dataset)
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/relcorpus/internal/build"
	"github.com/ppiankov/relcorpus/internal/llm"
	"github.com/ppiankov/relcorpus/internal/model"
	"github.com/ppiankov/relcorpus/internal/store"
	"github.com/ppiankov/relcorpus/internal/worker"
)

// Generator asks the generation service for triples from each source and
// writes one pair of batch files per source
type Generator struct {
	provider    llm.Provider
	loader      *SourceLoader
	builder     *build.Builder
	limiter     *worker.Limiter
	vocab       *model.Vocabulary
	outputs     string
	concurrency int
	logger      *logrus.Logger
	now         func() time.Time
}

// GeneratorConfig wires a Generator
type GeneratorConfig struct {
	Provider    llm.Provider
	Loader      *SourceLoader
	Limiter     *worker.Limiter // Throttles generation calls; nil disables
	Vocabulary  *model.Vocabulary
	OutputDir   string
	Concurrency int
	Logger      *logrus.Logger
	Now         func() time.Time // Batch timestamp source; defaults to time.Now
}

// NewGenerator creates a Generator
func NewGenerator(cfg GeneratorConfig) *Generator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	loader := cfg.Loader
	if loader == nil {
		loader = NewSourceLoader(nil)
	}
	return &Generator{
		provider:    cfg.Provider,
		loader:      loader,
		builder:     build.NewBuilder(cfg.Logger),
		limiter:     cfg.Limiter,
		vocab:       cfg.Vocabulary,
		outputs:     cfg.OutputDir,
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger,
		now:         now,
	}
}

// GenerateSummary totals one generate run
type GenerateSummary struct {
	Outcomes    []*model.SourceOutcome
	Failed      map[string]error // Keyed by source location
	Relations   int
	NoRelations int
	Malformed   int
	TokensUsed  int
}

// Run processes every source. Individual source failures are collected in
// the summary; the returned error is non-nil only when every source failed.
func (g *Generator) Run(ctx context.Context, sources []model.Source) (*GenerateSummary, error) {
	summary := &GenerateSummary{Failed: make(map[string]error)}
	if len(sources) == 0 {
		return summary, nil
	}

	results := worker.NewBatchProcessor(g, g.concurrency).Process(ctx, sources)
	for _, r := range results {
		if r.Error != nil {
			summary.Failed[r.Source.Location] = r.Error
			g.logger.WithError(r.Error).WithField("source", r.Source.Location).Error("generation failed")
			continue
		}
		o := r.Outcome
		summary.Outcomes = append(summary.Outcomes, o)
		summary.Relations += o.Relations
		summary.NoRelations += o.NoRelations
		summary.Malformed += o.Malformed
		summary.TokensUsed += o.TokensUsed
	}

	if len(summary.Outcomes) == 0 {
		return summary, fmt.Errorf("all %d sources failed", len(sources))
	}
	return summary, nil
}

// ProcessSource generates, builds and writes the batch for one source
func (g *Generator) ProcessSource(ctx context.Context, src model.Source) (*model.SourceOutcome, error) {
	log := g.logger.WithField("source", src.Location)

	text, err := g.loader.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load source: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("load source: %s has no text", src.Location)
	}

	if g.limiter != nil {
		if err := g.limiter.WaitKey(ctx, g.provider.Name()); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	log.Info("requesting relations")
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Messages: llm.RelationMessages(text, g.vocab),
	})
	if err != nil {
		return nil, fmt.Errorf("generate relations: %w", err)
	}

	batch := g.builder.Build(src.Name(), resp.Content)

	relPath, noRelPath := store.BatchPaths(g.outputs, src.Name(), g.now())
	if err := store.WriteRecords(relPath, batch.Relations); err != nil {
		return nil, err
	}
	if err := store.WriteRecords(noRelPath, batch.NoRelations); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"relations":    len(batch.Relations),
		"no_relations": len(batch.NoRelations),
		"malformed":    len(batch.Malformed),
		"cached":       resp.Cached,
		"path":         relPath,
	}).Info("batch written")

	return &model.SourceOutcome{
		Source:          src,
		Relations:       len(batch.Relations),
		NoRelations:     len(batch.NoRelations),
		Malformed:       len(batch.Malformed),
		RelationsPath:   relPath,
		NoRelationsPath: noRelPath,
		TokensUsed:      resp.TokensUsed,
		Cached:          resp.Cached,
	}, nil
}
