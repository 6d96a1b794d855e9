package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/relcorpus/internal/corpus"
	"github.com/ppiankov/relcorpus/internal/model"
	"github.com/ppiankov/relcorpus/internal/score"
	"github.com/ppiankov/relcorpus/internal/store"
)

// Dataset file names written by a consolidation run
const (
	TrainFile   = "train.txt"
	ValFile     = "val.txt"
	TestFile    = "test.txt"
	RelToIDFile    = "rel2id.json"
	EntityToIDFile = "entity2id.json"
	ReportJSON     = "report.json"
	ReportMD       = "report.md"
)

// Consolidator merges per-batch record files into a split training corpus
type Consolidator struct {
	relations  string
	outputs    string
	datasetDir string
	split      model.SplitConfig
	renderer   *Renderer
	scorer     *score.Scorer
	logger     *logrus.Logger
	now        func() time.Time
}

// NewConsolidator creates a Consolidator from the configured paths and split
func NewConsolidator(paths model.PathsConfig, split model.SplitConfig, logger *logrus.Logger) *Consolidator {
	return &Consolidator{
		relations:  paths.Relations,
		outputs:    paths.Outputs,
		datasetDir: paths.DatasetDir,
		split:      split,
		renderer:   NewRenderer(),
		scorer:     score.NewScorer(),
		logger:     logger,
		now:        time.Now,
	}
}

// Run performs one consolidation: read batches, assign entity ids, filter
// against the vocabulary, split and write the dataset. Each run uses a
// fresh entity table.
func (c *Consolidator) Run() (*model.Report, error) {
	if err := c.split.Validate(); err != nil {
		return nil, err
	}

	vocab, err := store.LoadVocabulary(c.relations)
	if err != nil {
		return nil, err
	}

	paths, err := store.ListBatches(c.outputs)
	if err != nil {
		return nil, err
	}

	var records []model.RelationRecord
	for _, path := range paths {
		batch, err := store.ReadRecords(path)
		if err != nil {
			return nil, err
		}
		c.logger.WithFields(logrus.Fields{"path": path, "count": len(batch)}).Debug("read batch")
		records = append(records, batch...)
	}
	c.logger.WithFields(logrus.Fields{"batches": len(paths), "count": len(records)}).Info("loaded records")

	report := &model.Report{
		GeneratedAt:  c.now().UTC(),
		Sources:      paths,
		InputRecords: len(records),
	}

	if c.split.Dedupe {
		var removed int
		records, removed = corpus.Dedupe(records)
		report.DuplicatesRemoved = removed
		c.logger.WithField("count", removed).Info("removed duplicate records")
	}

	table := corpus.NewEntityTable()
	withIDs, dropped := table.Assign(records)
	report.DroppedMissingSpan = dropped
	report.Entities = table.Len()
	if dropped > 0 {
		c.logger.WithField("count", dropped).Info("dropped records with unlocated mentions")
	}

	filtered := corpus.Filter(withIDs, vocab)
	report.Accepted = len(filtered.Accepted)
	report.Rejected = len(filtered.Rejected)
	report.UnknownRelations = filtered.SortedUnknown()
	for _, rc := range report.UnknownRelations {
		c.logger.WithFields(logrus.Fields{"relation": rc.Relation, "count": rc.Count}).Warn("unknown relation")
	}
	report.Distribution = corpus.Distribution(filtered.Accepted, vocab)

	rng, seed := corpus.NewRand(c.split.Seed)
	parts := corpus.Split(filtered.Accepted, c.split, rng)
	report.Split = parts.Counts()
	report.Ratios = c.split
	report.Ratios.Seed = seed

	c.logger.WithFields(logrus.Fields{
		"train": report.Split.Train,
		"val":   report.Split.Val,
		"test":  report.Split.Test,
		"seed":  seed,
	}).Info("split dataset")

	outputs := []struct {
		name    string
		records []model.RelationRecord
	}{
		{TrainFile, parts.Train},
		{ValFile, parts.Val},
		{TestFile, parts.Test},
	}
	for _, o := range outputs {
		path := filepath.Join(c.datasetDir, o.name)
		if err := store.WriteRecords(path, o.records); err != nil {
			return nil, fmt.Errorf("write %s: %w", o.name, err)
		}
		c.logger.WithFields(logrus.Fields{"path": path, "count": len(o.records)}).Info("wrote split")
	}

	if err := store.WriteRelToID(filepath.Join(c.datasetDir, RelToIDFile), vocab); err != nil {
		return nil, err
	}
	if err := store.WriteEntityToID(filepath.Join(c.datasetDir, EntityToIDFile), table.Entities()); err != nil {
		return nil, err
	}

	report.Signals = c.scorer.Calculate(report)

	if err := c.renderer.RenderJSON(report, filepath.Join(c.datasetDir, ReportJSON)); err != nil {
		return nil, fmt.Errorf("render JSON: %w", err)
	}
	if err := c.renderer.RenderMarkdown(report, filepath.Join(c.datasetDir, ReportMD)); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	return report, nil
}
