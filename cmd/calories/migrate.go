// ABOUTME: CLI command for migrating data between storage backends.
// ABOUTME: Copies limit, total, meals, and workouts from the active backend to another.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/calories/internal/charm"
	"github.com/harperreed/calories/internal/config"
	"github.com/harperreed/calories/internal/models"
	"github.com/harperreed/calories/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another storage backend",
	Long: `Copy the calorie limit, running total, meals, and workouts from the active
backend to another one.

The destination ends up an exact copy of the source. If the destination
already holds data, pass --force to overwrite it.

USAGE:

  calories migrate --to badger --dry-run   # Preview what would be copied
  calories migrate --to badger             # Copy sqlite data into badger
  calories --backend badger migrate --to sqlite --force

AFTER MIGRATION:

  Point the config at the new backend:
    ~/.config/calories/config.json  ->  {"backend": "badger"}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		migrateTo = strings.ToLower(strings.TrimSpace(migrateTo))
		if !config.IsValidBackend(migrateTo) {
			return fmt.Errorf("unknown destination backend: %q\nValid backends: %v", migrateTo, config.Backends)
		}
		if migrateTo == config.BackendMemory {
			return fmt.Errorf("memory backend cannot be a migration target")
		}
		if migrateTo == cfg.GetBackend() {
			return fmt.Errorf("source and destination are both %s", migrateTo)
		}

		dstCfg := *cfg
		dstCfg.Backend = migrateTo

		summary, err := storage.Summarize(store)
		if err != nil {
			return err
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Fprintln(cmd.OutOrStdout())
			printSummary(cmd, cfg.GetBackend(), migrateTo, summary)

			exists, err := destinationExists(&dstCfg)
			if err != nil {
				return err
			}
			if exists {
				color.Yellow("Destination already has data; --force would overwrite it.")
			}
			return nil
		}

		dstKV, err := dstCfg.OpenKV()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", migrateTo, err)
		}
		dst := dstCfg.NewStore(dstKV, logger)
		defer dst.Close()

		// Charm destinations sync once, after the copy.
		if cc, ok := dstKV.(*charm.Client); ok {
			cc.SetAutoSync(false)
			defer func() { _ = cc.Sync() }()
		}

		if !migrateForce {
			existing, err := storage.Summarize(dst)
			if err != nil {
				return err
			}
			if existing.Meals > 0 || existing.Workouts > 0 || existing.TotalCalories != 0 {
				return fmt.Errorf("%s already has %d meals and %d workouts; use --force to overwrite",
					migrateTo, existing.Meals, existing.Workouts)
			}
		}

		copied, err := storage.CopySlots(store, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s to %s", cfg.GetBackend(), migrateTo)
		printSummary(cmd, cfg.GetBackend(), migrateTo, copied)
		return nil
	},
}

func printSummary(cmd *cobra.Command, from, to string, s *storage.MigrateSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  %s -> %s\n", from, to)
	fmt.Fprintf(out, "  limit:    %s kcal\n", models.FormatCalories(s.CalorieLimit))
	fmt.Fprintf(out, "  total:    %s kcal\n", models.FormatCalories(s.TotalCalories))
	fmt.Fprintf(out, "  meals:    %d\n", s.Meals)
	fmt.Fprintf(out, "  workouts: %d\n", s.Workouts)
}

// destinationExists reports whether the destination backend already has
// files on disk, without creating any.
func destinationExists(c *config.Config) (bool, error) {
	switch c.GetBackend() {
	case config.BackendBadger:
		return storage.IsDirNonEmpty(filepath.Join(c.GetDataDir(), "badger"))
	case config.BackendSQLite:
		_, err := os.Stat(filepath.Join(c.GetDataDir(), "calories.db"))
		if os.IsNotExist(err) {
			return false, nil
		}
		return err == nil, err
	default:
		return false, nil
	}
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend (sqlite, badger, charm)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "overwrite data already in the destination")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}
