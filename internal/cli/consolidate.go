package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/relcorpus/internal/pipeline"
)

var (
	trainRatio float64
	valRatio   float64
	testRatio  float64
	splitSeed  uint64
	dedupe     bool
)

// consolidateCmd represents the consolidate command
var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Merge batch files into train/val/test splits",
	Long: `Consolidate reads every *_relations.txt batch in the outputs directory,
drops records whose head or tail could not be located in the sentence,
assigns run-scoped entity ids (Q0, Q1, ...), keeps the records whose relation
is in the vocabulary and splits them into train, validation and test sets.

Written to the dataset directory:
  train.txt, val.txt, test.txt   JSON-Lines records with entity ids
  rel2id.json                    relation -> id in vocabulary order
  report.json, report.md         counts, unknown relations, diagnostics

Example:
  relcorpus consolidate
  relcorpus consolidate --seed 42 --train 0.7 --val 0.15 --test 0.15`,
	Args: cobra.NoArgs,
	RunE: runConsolidate,
}

func init() {
	rootCmd.AddCommand(consolidateCmd)

	consolidateCmd.Flags().String("relations", "", "relation vocabulary file (default from config: relations.txt)")
	consolidateCmd.Flags().String("outputs", "", "directory of batch files (default from config: outputs)")
	consolidateCmd.Flags().String("dataset-dir", "", "directory for the split dataset (default from config: training_dataset)")

	consolidateCmd.Flags().Float64Var(&trainRatio, "train", 0.80, "training share")
	consolidateCmd.Flags().Float64Var(&valRatio, "val", 0.10, "validation share")
	consolidateCmd.Flags().Float64Var(&testRatio, "test", 0.10, "test share")
	consolidateCmd.Flags().Uint64Var(&splitSeed, "seed", 0, "shuffle seed for a reproducible split (0 = random)")
	consolidateCmd.Flags().BoolVar(&dedupe, "dedupe", false, "remove duplicate records before splitting")
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyPathFlags(cmd, &cfg.Paths)
	if cmd.Flags().Changed("train") {
		cfg.Split.Train = trainRatio
	}
	if cmd.Flags().Changed("val") {
		cfg.Split.Val = valRatio
	}
	if cmd.Flags().Changed("test") {
		cfg.Split.Test = testRatio
	}
	if cmd.Flags().Changed("seed") {
		cfg.Split.Seed = splitSeed
	}
	if dedupe {
		cfg.Split.Dedupe = true
	}

	logger := newLogger(cfg)

	report, err := pipeline.NewConsolidator(cfg.Paths, cfg.Split, logger).Run()
	if err != nil {
		return fmt.Errorf("consolidate: %w", err)
	}

	pipeline.NewRenderer().RenderSummary(cmd.OutOrStdout(), report)

	fmt.Fprintf(cmd.ErrOrStderr(), "\n✓ Dataset written to %s (seed %d)\n", cfg.Paths.DatasetDir, report.Ratios.Seed)
	fmt.Fprintf(cmd.ErrOrStderr(), "  Report: %s\n", filepath.Join(cfg.Paths.DatasetDir, pipeline.ReportMD))
	return nil
}
