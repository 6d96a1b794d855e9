package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/relcorpus/internal/llm"
	"github.com/ppiankov/relcorpus/internal/logging"
	"github.com/ppiankov/relcorpus/internal/model"
)

const (
	appName   = "relcorpus"
	envPrefix = "RELCORPUS"
	version   = "v0.1.0"
)

var (
	cfgFile string
	envFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "relcorpus - relation-extraction corpus builder",
	Long: `relcorpus builds a labeled relation-extraction training corpus from free text.

It asks a generation service for (sentence, head, tail, relation) triples,
aligns entity mentions to token spans, and consolidates the resulting batches
into entity-identified, vocabulary-filtered train/validation/test splits plus
a relation-to-id table.

  relcorpus generate      text sources -> per-batch record files
  relcorpus consolidate   record files -> train.txt, val.txt, test.txt, rel2id.json
  relcorpus cypher        text -> Cypher CREATE statements`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.relcorpus/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with API keys (ignored when absent)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(viper.GetViper(), model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, "."+appName))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	if err := loadDotEnv(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	// RELCORPUS_GENERATION_WORKERS overrides generation.workers
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadDotEnv exports the variables of a dotenv file that are not already set
// in the process environment
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read env file %s: %w", path, err)
	}

	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}

// setDefaults registers every config key so env overrides and Unmarshal see it
func setDefaults(v *viper.Viper, d *model.Config) {
	v.SetDefault("paths.relations", d.Paths.Relations)
	v.SetDefault("paths.inputs", d.Paths.Inputs)
	v.SetDefault("paths.outputs", d.Paths.Outputs)
	v.SetDefault("paths.dataset_dir", d.Paths.DatasetDir)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.temperature", d.LLM.Temperature)

	v.SetDefault("generation.workers", d.Generation.Workers)
	v.SetDefault("generation.requests_per_second", d.Generation.RequestsPerSecond)
	v.SetDefault("generation.burst_size", d.Generation.BurstSize)
	v.SetDefault("generation.user_agent", d.Generation.UserAgent)
	v.SetDefault("generation.max_body_bytes", d.Generation.MaxBodyBytes)
	v.SetDefault("generation.fetch_timeout", d.Generation.FetchTimeout)
	v.SetDefault("generation.respect_robots", d.Generation.RespectRobots)
	v.SetDefault("generation.http_proxy", d.Generation.HTTPProxy)
	v.SetDefault("generation.https_proxy", d.Generation.HTTPSProxy)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.memory_ttl", d.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", d.Cache.DiskTTL)

	v.SetDefault("split.train", d.Split.Train)
	v.SetDefault("split.val", d.Split.Val)
	v.SetDefault("split.test", d.Split.Test)
	v.SetDefault("split.seed", d.Split.Seed)
	v.SetDefault("split.dedupe", d.Split.Dedupe)

	v.SetDefault("neo4j.uri", d.Neo4j.URI)
	v.SetDefault("neo4j.user", d.Neo4j.User)
	v.SetDefault("neo4j.database", d.Neo4j.Database)
}

// loadConfig resolves defaults, config file and environment into a Config.
// Secrets come from their conventional environment variables only.
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Verbose = cfg.Verbose || verbose
	return cfg, nil
}

// resolveSecrets fills API key and database password from the environment
func resolveSecrets(cfg *model.Config) {
	if env := llm.APIKeyEnv(cfg.LLM.Provider); env != "" {
		cfg.LLM.APIKey = os.Getenv(env)
	}
	if cfg.LLM.BaseURL == "" && strings.EqualFold(cfg.LLM.Provider, "ollama") {
		cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
}

func newLogger(cfg *model.Config) *logrus.Logger {
	return logging.New(cfg.Verbose)
}
