package model

import (
	"fmt"
	"math"
	"time"
)

// Config holds all relcorpus settings
type Config struct {
	Paths      PathsConfig      `yaml:"paths" mapstructure:"paths"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Generation GenerationConfig `yaml:"generation" mapstructure:"generation"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Split      SplitConfig      `yaml:"split" mapstructure:"split"`
	Neo4j      Neo4jConfig      `yaml:"neo4j" mapstructure:"neo4j"`
	Verbose    bool             `yaml:"verbose" mapstructure:"verbose"`
}

// PathsConfig locates the inputs and outputs of both pipeline stages
type PathsConfig struct {
	Relations  string `yaml:"relations" mapstructure:"relations"`     // Controlled vocabulary, one relation per line
	Inputs     string `yaml:"inputs" mapstructure:"inputs"`           // Raw text sources
	Outputs    string `yaml:"outputs" mapstructure:"outputs"`         // Per-batch record files
	DatasetDir string `yaml:"dataset_dir" mapstructure:"dataset_dir"` // Split files, rel2id.json, report
}

// LLMConfig configures the generation service client
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, google, anthropic, ollama
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"-" mapstructure:"-"` // Never written to disk
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float32 `yaml:"temperature" mapstructure:"temperature"`
}

// GenerationConfig controls how sources are fed to the generation service
type GenerationConfig struct {
	Workers           int           `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size" mapstructure:"burst_size"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// CacheConfig configures the generation response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// SplitConfig holds the train/validation/test proportions
type SplitConfig struct {
	Train  float64 `yaml:"train" mapstructure:"train"`
	Val    float64 `yaml:"val" mapstructure:"val"`
	Test   float64 `yaml:"test" mapstructure:"test"`
	Seed   uint64  `yaml:"seed" mapstructure:"seed"` // 0 picks a random seed per run
	Dedupe bool    `yaml:"dedupe" mapstructure:"dedupe"`
}

// Neo4jConfig locates the graph database used by `cypher --apply`
type Neo4jConfig struct {
	URI      string `yaml:"uri" mapstructure:"uri"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"-" mapstructure:"-"`
	Database string `yaml:"database,omitempty" mapstructure:"database"`
}

// DefaultConfig returns the defaults used when no file, env or flag overrides them
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			Relations:  "relations.txt",
			Inputs:     "inputs",
			Outputs:    "outputs",
			DatasetDir: "training_dataset",
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4-turbo-preview",
			Timeout:   120,
			MaxTokens: 4096,
		},
		Generation: GenerationConfig{
			Workers:           1,
			RequestsPerSecond: 1,
			BurstSize:         1,
			UserAgent:         "relcorpus/0.1 (+https://github.com/ppiankov/relcorpus)",
			MaxBodyBytes:      2_000_000,
			FetchTimeout:      30 * time.Second,
			RespectRobots:     true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".relcorpus-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Split: SplitConfig{
			Train: 0.80,
			Val:   0.10,
			Test:  0.10,
		},
		Neo4j: Neo4jConfig{
			URI:  "neo4j://localhost:7687",
			User: "neo4j",
		},
	}
}

// Validate checks the split proportions
func (s SplitConfig) Validate() error {
	if s.Train < 0 || s.Val < 0 || s.Test < 0 {
		return fmt.Errorf("%w: negative ratio (train=%v val=%v test=%v)", ErrInvalidRatios, s.Train, s.Val, s.Test)
	}
	if math.Abs(s.Train+s.Val+s.Test-1.0) > 1e-6 {
		return fmt.Errorf("%w: ratios sum to %v, want 1.0", ErrInvalidRatios, s.Train+s.Val+s.Test)
	}
	return nil
}
