// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/calories/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to log meals and workouts and read your
calorie balance through a standardized protocol. The server communicates via
stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "calories": {
        "command": "calories",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_meal         Log a meal
  add_workout      Log a workout
  remove_meal      Remove a meal by ID or prefix
  remove_workout   Remove a workout by ID or prefix
  set_limit        Set the daily calorie limit
  reset_day        Clear meals and workouts, keep the limit
  get_stats        Current balance and progress
  list_items       Logged items, optionally filtered by name

AVAILABLE RESOURCES:

  calories://summary   Balance against the daily limit
  calories://items     All logged meals and workouts`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(ledger, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
