// ABOUTME: CLI command for listing meals and workouts together.
// ABOUTME: Replays the ledger through a filtering renderer.
package main

import (
	"fmt"

	"github.com/harperreed/calories/internal/ui"
	"github.com/spf13/cobra"
)

var listFilter string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List meals and workouts",
	Long: `List every logged item, meals first, then workouts.

OUTPUT FORMAT:

  Each line shows: KIND  ID  NAME  CALORIES

  The ID is an 8-character prefix you can use with rm commands.

EXAMPLES:

  calories list                  # Everything logged today
  calories list --filter salad   # Only items whose name contains "salad"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := ui.NewListRenderer(cmd.OutOrStdout(), listFilter)
		ledger.LoadItems(r)

		if r.Count() == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No items found.")
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "only show items whose name contains this text")
	rootCmd.AddCommand(listCmd)
}
