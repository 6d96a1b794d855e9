package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/relcorpus/internal/cypher"
	"github.com/ppiankov/relcorpus/internal/llm"
	"github.com/ppiankov/relcorpus/internal/model"
)

var (
	cypherModel  string
	cypherApply  bool
	cypherAppend bool
)

// cypherCmd represents the cypher command
var cypherCmd = &cobra.Command{
	Use:   "cypher <engine> <text.txt> <database.txt>",
	Short: "Translate text into Cypher CREATE statements",
	Long: `Cypher asks the generation service to turn the text file into Neo4j
CREATE statements, given the statements already in the database file so that
existing nodes and relationships are not created twice.

Engines: openai, google, anthropic, ollama.

Example:
  relcorpus cypher openai story.txt database.txt
  relcorpus cypher google story.txt database.txt --append
  relcorpus cypher openai story.txt database.txt --apply`,
	Args: cobra.ExactArgs(3),
	RunE: runCypher,
}

func init() {
	rootCmd.AddCommand(cypherCmd)

	cypherCmd.Flags().StringVar(&cypherModel, "llm-model", "", "model name (default depends on the engine)")
	cypherCmd.Flags().BoolVar(&cypherApply, "apply", false, "run the statements against Neo4j (NEO4J_PASSWORD for auth)")
	cypherCmd.Flags().BoolVar(&cypherAppend, "append", false, "append the statements to the database file")
}

func runCypher(cmd *cobra.Command, args []string) error {
	engine, textPath, databasePath := strings.ToLower(args[0]), args[1], args[2]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if engine != strings.ToLower(cfg.LLM.Provider) {
		cfg.LLM.Model = llm.DefaultModel(engine)
	}
	cfg.LLM.Provider = engine
	if cmd.Flags().Changed("llm-model") {
		cfg.LLM.Model = cypherModel
	}
	resolveSecrets(cfg)

	logger := newLogger(cfg)

	text, err := readRequired(textPath)
	if err != nil {
		return err
	}
	existing, err := readRequired(databasePath)
	if err != nil {
		return err
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.Generation))
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Waiting for response from %s/%s...\n", provider.Name(), cfg.LLM.Model)
	queries, err := cypher.NewTranslator(provider, logger).Translate(cmd.Context(), text, existing)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n======= Generated Cypher Queries ======\n")
	for _, q := range queries {
		fmt.Fprintln(out, q)
	}

	if cypherAppend {
		if err := appendLines(databasePath, existing, queries); err != nil {
			return err
		}
		logger.WithField("path", databasePath).Info("appended statements")
	}

	if cypherApply {
		applier, err := cypher.NewNeo4jApplier(cfg.Neo4j, logger)
		if err != nil {
			return err
		}
		defer func() { _ = applier.Close() }()

		nodes, rels, err := applier.Apply(cmd.Context(), queries)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "\n✓ Applied %d statements to %s (%d nodes, %d relationships)\n",
			len(queries), cfg.Neo4j.URI, nodes, rels)
	}
	return nil
}

// readRequired reads a file that must exist
func readRequired(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &model.MissingFileError{Path: path}
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// appendLines adds lines to the end of path, which currently holds current
func appendLines(path, current string, lines []string) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	if current != "" && !strings.HasSuffix(current, "\n") {
		if _, err := fmt.Fprintln(f); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
