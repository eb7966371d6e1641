package main

import (
	"fmt"
	"os"

	"promptfan/internal/config"
	"promptfan/internal/logging"
	"promptfan/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose  bool
	stateDir string

	// Logger
	logger *zap.Logger

	cfg *config.Config
	st  *store.Store
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "promptfan",
	Short: "promptfan - fan one query out to multiple AI chat assistants",
	Long: `promptfan drives a Chrome instance to open one window per AI chat
assistant, tiles them across the screen, and types a single query into
every one of them at once.

State (providers, history, config) lives under ~/.promptfan by default.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if stateDir == "" {
			stateDir = config.DefaultStateDir()
		}
		if err := logging.Initialize(stateDir); err != nil {
			return fmt.Errorf("failed to initialize file logging: %w", err)
		}
		logging.Boot("promptfan %s starting, state dir %s, debug=%v",
			cmd.CalledAs(), stateDir, logging.IsDebugMode())

		cfg, err = config.Load(stateDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		st = store.New(stateDir)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "state directory (default ~/.promptfan)")

	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(layoutCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
