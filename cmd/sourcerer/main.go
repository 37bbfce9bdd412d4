package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sourcerer/internal/config"
	"sourcerer/internal/knowledge"
	"sourcerer/internal/logging"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string

	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sourcerer",
	Short: "sourcerer - local research assistant",
	Long: `sourcerer answers questions from a local knowledge base of text
sources. Each query is matched against the indexed sources by term
overlap, and every turn updates the session state: the conversation
history and the running count of sources seen.

Run without arguments to start the interactive chat loop.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if verbose {
			cfg.Logging.Debug = true
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if err := logging.Initialize(workspace); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		logging.SetDebug(cfg.Logging.Debug)
		logging.SetLevel(cfg.Logging.Level)

		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logging.Boot("sourcerer %s starting (workspace=%s)", cfg.Version, workspace)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

// buildIndex loads the configured sources directory into a fresh index.
func buildIndex(ctx context.Context) (*knowledge.Index, error) {
	timer := logging.StartTimer(logging.CategoryKnowledge, "buildIndex")
	defer timer.Stop()

	records, err := knowledge.LoadDir(ctx, cfg.Knowledge.SourcesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources from %s: %w", cfg.Knowledge.SourcesPath, err)
	}

	ttl := cfg.GetCacheTTL()
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	index := knowledge.NewIndex(&knowledge.IndexConfig{
		MaxResults: cfg.Knowledge.MaxResults,
		CacheSize:  cfg.Knowledge.CacheSize,
		CacheTTL:   ttl,
	})
	index.Load(records)

	logger.Debug("knowledge index built",
		zap.Int("records", index.Len()),
		zap.String("dir", cfg.Knowledge.SourcesPath))
	return index, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "Workspace directory")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath(), "Config file path")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(kbCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
