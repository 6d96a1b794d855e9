package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/relcorpus/internal/pipeline"
	"github.com/ppiankov/relcorpus/internal/validate"
)

var maxIssues int

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a consolidated dataset for integrity problems",
	Long: `Validate re-reads train.txt, val.txt, test.txt and rel2id.json from the
dataset directory and checks that every span lies inside its sentence and
spells its mention, that entity ids are consistent across all splits, that
every relation is in rel2id.json and that no record appears in two splits.

Exits non-zero when any issue is found.

Example:
  relcorpus validate
  relcorpus validate --dataset-dir ./training_dataset --max-issues 50`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().String("dataset-dir", "", "dataset directory (default from config: training_dataset)")
	validateCmd.Flags().IntVar(&maxIssues, "max-issues", 20, "number of issues to print (0 = all)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyPathFlags(cmd, &cfg.Paths)

	files := []string{pipeline.TrainFile, pipeline.ValFile, pipeline.TestFile}
	result, err := validate.NewValidator(files, pipeline.RelToIDFile, newLogger(cfg)).Validate(cfg.Paths.DatasetDir)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, file := range files {
		fmt.Fprintf(out, "%-10s %d records\n", file, result.Records[file])
	}
	fmt.Fprintf(out, "%-10s %d\n", "entities", result.Entities)

	if result.OK() {
		fmt.Fprintf(out, "\n✓ No issues found\n")
		return nil
	}

	fmt.Fprintf(out, "\n")
	for _, c := range validate.CountByKind(result.Issues) {
		fmt.Fprintf(out, "%-20s %d\n", c.Kind, c.Count)
	}
	fmt.Fprintf(out, "\n")
	for i, issue := range result.Issues {
		if maxIssues > 0 && i == maxIssues {
			fmt.Fprintf(out, "... %d more\n", len(result.Issues)-maxIssues)
			break
		}
		fmt.Fprintln(out, issue)
	}
	return fmt.Errorf("%d issues in %s", len(result.Issues), cfg.Paths.DatasetDir)
}
