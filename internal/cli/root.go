package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"cirag/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cirag",
	Short: "Competitive intelligence retrieval - score and select relevant document chunks",
	Long: `cirag answers natural-language questions about homebuilder competitors by
scoring pre-chunked documents with a domain keyword vocabulary and selecting
a budget-constrained, entity-diverse set of sources with citations.

Example usage:
  cirag ingest .                         # Load pack.json files into the corpus
  cirag ask -q "Lennar special financing" # Find the most relevant chunks
  cirag expand -q "compare pricing"       # Inspect query term expansion`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		// Embedding API keys may live in a local .env file.
		_ = godotenv.Load()

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level, err := zerolog.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./cirag.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

func GetLogger() zerolog.Logger {
	return logger
}
