// ABOUTME: CLI commands for meals and workouts.
// ABOUTME: Builds symmetric add/list/rm subcommands for each item kind.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/calories/internal/models"
	"github.com/harperreed/calories/internal/tracker"
	"github.com/harperreed/calories/internal/ui"
	"github.com/spf13/cobra"
)

// errCancelled is returned when the user declines a confirmation prompt.
var errCancelled = errors.New("cancelled")

var (
	mealCmd    = newKindCmd(models.KindMeal, "m", "Log a meal", "Meals add their calories to the running total.")
	workoutCmd = newKindCmd(models.KindWorkout, "w", "Log a workout", "Workouts subtract their calories from the running total.")
)

func newKindCmd(kind models.Kind, alias, short, about string) *cobra.Command {
	name := string(kind)

	parent := &cobra.Command{
		Use:     name,
		Aliases: []string{alias},
		Short:   fmt.Sprintf("Manage %ss", name),
		Long: fmt.Sprintf(`%s

EXAMPLES:

  calories %[2]s add "Chicken salad" 450   # %[3]s
  calories %[2]s list                      # Show all %[2]ss
  calories %[2]s list --filter chicken     # Filter by name
  calories %[2]s rm abc12345               # Remove by ID prefix`, about, name, short),
	}

	addCmd := &cobra.Command{
		Use:     "add <name> <calories>",
		Aliases: []string{"a"},
		Short:   short,
		Long: fmt.Sprintf(`%s

The last argument is the calorie amount; everything before it is the name,
so quoting is optional.

  calories %s add Greek yogurt 150`, short, name),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemName := strings.Join(args[:len(args)-1], " ")
			item, err := models.ParseItem(itemName, args[len(args)-1])
			if err != nil {
				return err
			}

			if _, err := ledger.Add(kind, item); err != nil {
				return fmt.Errorf("failed to add %s: %w", name, err)
			}

			color.Green("✓ Added %s", name)
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s %s kcal\n",
				color.New(color.Faint).Sprint(item.ShortID()),
				item.Name,
				models.FormatCalories(item.Calories))
			printRemaining(cmd)
			return nil
		},
	}

	var listFilter string
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "l"},
		Short:   fmt.Sprintf("List %ss", name),
		Long: fmt.Sprintf(`List today's %ss in the order they were logged.

Use --filter for a case-insensitive match on the name.`, name),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := tracker.FilterItems(ledger.Items(kind), listFilter)
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderItems(kind, items))
			return nil
		},
	}
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "only show items whose name contains this text")

	var rmYes bool
	rmCmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete", "del"},
		Short:   fmt.Sprintf("Remove a %s", name),
		Long: fmt.Sprintf(`Remove a %s by its ID or ID prefix.

The ID prefix is shown in the first column of 'calories %s list' output.
If the prefix matches more than one %s, an error is returned.`, name, name, name),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, ok, err := ledger.Find(kind, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s not found: %s", name, args[0])
			}

			if !rmYes {
				confirmed, err := confirm(fmt.Sprintf("Remove %s %q (%s kcal)?", name, item.Name, models.FormatCalories(item.Calories)))
				if err != nil {
					return err
				}
				if !confirmed {
					return errCancelled
				}
			}

			if _, _, err := ledger.Remove(kind, item.ID); err != nil {
				return fmt.Errorf("failed to remove %s: %w", name, err)
			}

			color.Yellow("✗ Removed %s", name)
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s %s kcal\n",
				color.New(color.Faint).Sprint(item.ShortID()),
				item.Name,
				models.FormatCalories(item.Calories))
			printRemaining(cmd)
			return nil
		},
	}
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "skip confirmation")

	parent.AddCommand(addCmd, listCmd, rmCmd)
	return parent
}

func printRemaining(cmd *cobra.Command) {
	stats := ledger.Snapshot()
	line := fmt.Sprintf("  %s of %s kcal, %s remaining",
		models.FormatCalories(stats.TotalCalories),
		models.FormatCalories(stats.CalorieLimit),
		models.FormatCalories(stats.Remaining))
	if stats.OverLimit {
		line = color.RedString("%s", line)
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
}

func init() {
	rootCmd.AddCommand(mealCmd, workoutCmd)
}
