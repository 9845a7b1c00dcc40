// ABOUTME: CLI command for syncing the Charm KV backend.
// ABOUTME: Pulls and pushes slots to Charm Cloud and shows the linked account.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/calories/internal/charm"
	"github.com/harperreed/calories/internal/config"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync with Charm Cloud",
	Long: `Synchronize the Charm KV backend with Charm Cloud.

Writes already sync automatically; use this to pull changes made on another
device. Only available with the charm backend.

  calories --backend charm sync`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, ok := backend.(*charm.Client)
		if !ok {
			return fmt.Errorf("sync requires the %s backend (current: %s)", config.BackendCharm, cfg.GetBackend())
		}

		if cc.IsReadOnly() {
			color.Yellow("Database is locked by another process; skipping sync.")
			return nil
		}

		id, err := cc.ID()
		if err != nil {
			return fmt.Errorf("failed to read charm account: %w", err)
		}
		if err := cc.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		// Reload so the summary reflects pulled changes.
		if err := ledger.Initialize(); err != nil {
			return err
		}

		color.Green("✓ Synced")
		fmt.Fprintf(cmd.OutOrStdout(), "  account %s\n", color.New(color.Faint).Sprint(id))
		printRemaining(cmd)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
