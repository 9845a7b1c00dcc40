// ABOUTME: CLI commands for the daily limit and resetting the day.
// ABOUTME: Reset keeps the limit and clears meals, workouts, and the total.
package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/harperreed/calories/internal/models"
	"github.com/spf13/cobra"
)

var limitCmd = &cobra.Command{
	Use:   "limit [calories]",
	Short: "Show or set the daily calorie limit",
	Long: `Show the daily calorie limit, or set it when a value is given.

Changing the limit does not touch the running total or logged items.

EXAMPLES:

  calories limit          # Show the current limit
  calories limit 1800     # Set the limit to 1800 kcal`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s kcal\n", models.FormatCalories(ledger.CalorieLimit()))
			return nil
		}

		limit, err := models.ParseCalories(args[0])
		if err != nil {
			return fmt.Errorf("invalid limit: %w", err)
		}
		if err := ledger.SetCalorieLimit(limit); err != nil {
			return fmt.Errorf("failed to set limit: %w", err)
		}

		color.Green("✓ Daily limit set to %s kcal", models.FormatCalories(limit))
		printRemaining(cmd)
		return nil
	},
}

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start a new day",
	Long: `Clear all meals and workouts and set the running total back to zero.

The daily limit is kept.

CAUTION:

  This permanently removes every logged item. There is no undo.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			stats := ledger.Snapshot()
			confirmed, err := confirm(fmt.Sprintf("Clear %d meals and %d workouts?", stats.Meals, stats.Workouts))
			if err != nil {
				return err
			}
			if !confirmed {
				return errCancelled
			}
		}

		if err := ledger.Reset(); err != nil {
			return fmt.Errorf("failed to reset: %w", err)
		}

		color.Yellow("✗ Cleared meals and workouts")
		printRemaining(cmd)
		return nil
	},
}

// confirm asks a yes/no question on the terminal.
func confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).Run()
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return ok, nil
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip confirmation")
	rootCmd.AddCommand(limitCmd, resetCmd)
}
