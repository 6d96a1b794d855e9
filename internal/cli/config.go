package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/relcorpus/internal/model"
)

const hierarchyHelp = `Configuration hierarchy (highest to lowest priority):
  1. CLI flags
  2. Environment variables (RELCORPUS_*, e.g. RELCORPUS_SPLIT_SEED)
  3. Config file (~/.relcorpus/config.yaml)
  4. Defaults`

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage relcorpus configuration",
	Long:  "Manage relcorpus configuration files and settings.\n\n" + hierarchyHelp,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the configuration resolved from defaults, config file and environment. Secrets are never shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, string(yamlData))
		fmt.Fprintln(out, hierarchyHelp)
		fmt.Fprintln(out, "\nSecrets: OPENAI_API_KEY, GOOGLE_API_KEY, ANTHROPIC_API_KEY, NEO4J_PASSWORD")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.relcorpus/config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configPath := filepath.Join(home, "."+appName, "config.yaml")
		if err := writeDefaultConfig(configPath); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created default configuration: %s\n", configPath)
		fmt.Fprintf(cmd.OutOrStdout(), "\nTo view the configuration:\n  relcorpus config show\n")
		return nil
	},
}

// writeDefaultConfig writes the default configuration to path, refusing to
// overwrite an existing file
func writeDefaultConfig(path string) (err error) {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'relcorpus config show' to view it, or delete it first to recreate", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	printf := func(format string, a ...interface{}) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(f, format, a...)
	}

	printf("# relcorpus configuration\n#\n")
	for _, line := range []string{"1. CLI flags", "2. Environment variables (RELCORPUS_*)", "3. This config file", "4. Built-in defaults"} {
		printf("#   %s\n", line)
	}
	printf("\n%s", yamlData)
	printf("\n# Secrets are read from the environment or a .env file only:\n")
	printf("#   OPENAI_API_KEY=sk-...\n")
	printf("#   GOOGLE_API_KEY=...\n")
	printf("#   ANTHROPIC_API_KEY=sk-ant-...\n")
	printf("#   OLLAMA_BASE_URL=http://localhost:11434\n")
	printf("#   NEO4J_PASSWORD=...\n")
	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
