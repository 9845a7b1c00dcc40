// ABOUTME: CLI command for showing the day's calorie balance.
// ABOUTME: Renders limit, total, consumed, burned, remaining, and the progress bar.
package main

import (
	"fmt"

	"github.com/harperreed/calories/internal/ui"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show today's calorie balance",
	Long: `Show the daily limit, the running total, calories consumed and burned,
and how many calories remain before the limit is reached.

Running 'calories' with no subcommand does the same thing.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderStats(ledger.Snapshot()))
	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
