package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/relcorpus/internal/cache"
	"github.com/ppiankov/relcorpus/internal/llm"
	"github.com/ppiankov/relcorpus/internal/model"
	"github.com/ppiankov/relcorpus/internal/pipeline"
	"github.com/ppiankov/relcorpus/internal/store"
	"github.com/ppiankov/relcorpus/internal/worker"
)

var (
	urlsFile    string
	genTimeout  time.Duration
	noCache     bool
	noRobots    bool
	llmProvider string
	llmModel    string
	concurrency int
	rps         float64
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate relation records from text sources",
	Long: `Generate sends every text or HTML file in the inputs directory (and every
page listed in --urls) to the generation service together with the relation
vocabulary, then writes one pair of JSON-Lines batch files per source:

  <outputs>/<dd-mm-YYYY_HH.MM.SS>_<source>_relations.txt
  <outputs>/<dd-mm-YYYY_HH.MM.SS>_<source>_no-relations.txt

Malformed reply lines are logged and skipped; the rest of the batch is kept.

Example:
  relcorpus generate
  relcorpus generate --llm-provider google --inputs ./texts
  relcorpus generate --urls pages.txt --concurrency 4 --rps 0.5`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("relations", "", "relation vocabulary file (default from config: relations.txt)")
	generateCmd.Flags().String("inputs", "", "directory of text sources (default from config: inputs)")
	generateCmd.Flags().String("outputs", "", "directory for batch files (default from config: outputs)")
	generateCmd.Flags().StringVar(&urlsFile, "urls", "", "file of web page URLs to use as sources (one per line)")

	generateCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "generation engine (openai, google, anthropic, ollama)")
	generateCmd.Flags().StringVar(&llmModel, "llm-model", "", "model name (default depends on the engine)")
	generateCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of sources processed in parallel")
	generateCmd.Flags().Float64Var(&rps, "rps", 0, "requests per second per host and per engine")
	generateCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable response and page cache")
	generateCmd.Flags().BoolVar(&noRobots, "no-robots", false, "ignore robots.txt for --urls pages")
	generateCmd.Flags().DurationVar(&genTimeout, "timeout", 30*time.Minute, "total timeout for the run")
}

// applyPathFlags copies changed path flags over the resolved config
func applyPathFlags(cmd *cobra.Command, paths *model.PathsConfig) {
	set := func(name string, dst *string) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	set("relations", &paths.Relations)
	set("inputs", &paths.Inputs)
	set("outputs", &paths.Outputs)
	set("dataset-dir", &paths.DatasetDir)
}

// applyLLMFlags applies --llm-provider and --llm-model. Switching engine
// without naming a model picks that engine's default model.
func applyLLMFlags(cmd *cobra.Command, cfg *model.LLMConfig, provider, modelName string) {
	if cmd.Flags().Changed("llm-provider") && provider != cfg.Provider {
		cfg.Provider = provider
		cfg.Model = llm.DefaultModel(provider)
	}
	if cmd.Flags().Changed("llm-model") {
		cfg.Model = modelName
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyPathFlags(cmd, &cfg.Paths)
	applyLLMFlags(cmd, &cfg.LLM, llmProvider, llmModel)
	if cmd.Flags().Changed("concurrency") {
		cfg.Generation.Workers = concurrency
	}
	if cmd.Flags().Changed("rps") {
		cfg.Generation.RequestsPerSecond = rps
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noRobots {
		cfg.Generation.RespectRobots = false
	}
	resolveSecrets(cfg)

	logger := newLogger(cfg)

	vocab, err := store.LoadVocabulary(cfg.Paths.Relations)
	if err != nil {
		return err
	}

	sources, err := collectSources(cfg.Paths.Inputs, urlsFile)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources found in %s", cfg.Paths.Inputs)
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.Generation))
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	responses := cache.New(cfg.Cache)
	provider = llm.NewCachedProvider(provider, responses, cfg.Cache.DiskTTL)

	limiter := worker.NewLimiter(cfg.Generation.RequestsPerSecond, cfg.Generation.BurstSize)

	var fetchOpts []pipeline.FetcherOption
	if responses != nil {
		fetchOpts = append(fetchOpts, pipeline.WithPageCache(responses, cfg.Cache.DiskTTL))
	}
	fetcher := pipeline.NewFetcher(cfg.Generation, limiter, logger, fetchOpts...)

	gen := pipeline.NewGenerator(pipeline.GeneratorConfig{
		Provider:    provider,
		Loader:      pipeline.NewSourceLoader(fetcher),
		Limiter:     limiter,
		Vocabulary:  vocab,
		OutputDir:   cfg.Paths.Outputs,
		Concurrency: cfg.Generation.Workers,
		Logger:      logger,
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), genTimeout)
	defer cancel()

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "  Engine:       %s/%s\n", provider.Name(), cfg.LLM.Model)
	fmt.Fprintf(out, "  Relations:    %d (%s)\n", vocab.Len(), cfg.Paths.Relations)
	fmt.Fprintf(out, "  Sources:      %d\n", len(sources))
	fmt.Fprintf(out, "  Workers:      %d\n", cfg.Generation.Workers)
	fmt.Fprintf(out, "  Output dir:   %s\n", cfg.Paths.Outputs)
	fmt.Fprintf(out, "\n")

	summary, runErr := gen.Run(ctx, sources)
	if summary != nil {
		printGenerateSummary(out, summary, len(sources))
	}
	if runErr != nil {
		return fmt.Errorf("generate: %w", runErr)
	}
	return nil
}

// collectSources lists the inputs directory and appends the pages of the
// URL file. A missing inputs directory is only fatal without a URL file.
func collectSources(inputs, urls string) ([]model.Source, error) {
	sources, err := worker.ListInputSources(inputs)
	if err != nil && (urls == "" || !errors.Is(err, model.ErrMissingFile)) {
		return nil, err
	}

	if urls != "" {
		pages, err := worker.ReadURLsFromFile(urls)
		if err != nil {
			return nil, err
		}
		for _, u := range pages {
			sources = append(sources, model.URLSource(u))
		}
	}
	return sources, nil
}

func printGenerateSummary(w io.Writer, s *pipeline.GenerateSummary, total int) {
	for _, o := range s.Outcomes {
		mark := "✓"
		if o.Malformed > 0 {
			mark = "!"
		}
		fmt.Fprintf(w, "%s %s: %d relations, %d no-relation, %d malformed\n",
			mark, o.Source.Name(), o.Relations, o.NoRelations, o.Malformed)
	}
	failed := make([]string, 0, len(s.Failed))
	for location := range s.Failed {
		failed = append(failed, location)
	}
	sort.Strings(failed)
	for _, location := range failed {
		fmt.Fprintf(w, "✗ %s: %v\n", location, s.Failed[location])
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Sources:      %d ok, %d failed (of %d)\n", len(s.Outcomes), len(s.Failed), total)
	fmt.Fprintf(w, "  Records:      %d relations, %d no-relation\n", s.Relations, s.NoRelations)
	if s.Malformed > 0 {
		fmt.Fprintf(w, "  Malformed:    %d lines skipped\n", s.Malformed)
	}
	if s.TokensUsed > 0 {
		fmt.Fprintf(w, "  Tokens used:  %d\n", s.TokensUsed)
	}
	fmt.Fprintf(w, "\n")
}
