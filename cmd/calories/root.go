// ABOUTME: Root Cobra command for calories CLI.
// ABOUTME: Opens the configured store and ledger via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/calories/internal/config"
	"github.com/harperreed/calories/internal/storage"
	"github.com/harperreed/calories/internal/tracker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagBackend string
	flagDataDir string
	flagVerbose bool

	cfg     *config.Config
	logger  *zap.Logger
	backend storage.KV
	store   storage.Store
	ledger  *tracker.Ledger
)

var rootCmd = &cobra.Command{
	Use:   "calories",
	Short: "Daily calorie tracker",
	Long: `Calories tracks what you eat and what you burn against a daily limit.

Meals add to your running total, workouts subtract from it. The progress bar
turns red once the total reaches the limit.

QUICK START:

  $ calories limit 2000                  # Set your daily limit
  $ calories meal add "Oatmeal" 350      # Log a meal
  $ calories workout add "Run" 300       # Log a workout
  $ calories                             # See where you stand
  $ calories reset                       # Start a new day

STORAGE BACKENDS:

  sqlite   ~/.local/share/calories/calories.db (default)
  badger   ~/.local/share/calories/badger/
  charm    Charm KV, synced across devices
  memory   nothing is persisted

  Pick one with --backend or "backend" in ~/.config/calories/config.json.

MCP INTEGRATION:

  Run 'calories mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store init for commands that don't need it
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return openLedger()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLedger()
	},
	RunE: runStatus,
}

// Execute runs the root command. The store is closed even when the command
// fails.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeLedger(); err == nil {
		err = cerr
	}
	return err
}

func openLedger() error {
	if flagVerbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
	} else {
		logger = zap.NewNop()
	}

	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flagBackend != "" {
		if !config.IsValidBackend(flagBackend) {
			return fmt.Errorf("unknown backend: %s\nValid backends: %v", flagBackend, config.Backends)
		}
		loaded.Backend = flagBackend
	}
	if flagDataDir != "" {
		loaded.DataDir = flagDataDir
	}
	cfg = loaded

	backend, err = cfg.OpenKV()
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}
	store = cfg.NewStore(backend, logger)

	ledger, err = tracker.Open(store, tracker.WithLogger(logger))
	if err != nil {
		_ = store.Close()
		store = nil
		backend = nil
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	logger.Debug("ledger opened",
		zap.String("backend", cfg.GetBackend()),
		zap.String("data_dir", cfg.GetDataDir()))
	return nil
}

func closeLedger() error {
	ledger = nil
	backend = nil
	if logger != nil {
		_ = logger.Sync()
	}
	if store != nil {
		err := store.Close()
		store = nil
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend (sqlite, badger, charm, memory)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/calories)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging to stderr")
}
