// ABOUTME: MCP tool implementations for the calorie ledger.
// ABOUTME: Provides add/remove for meals and workouts, limit, reset, stats, and listing.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/calories/internal/models"
	"github.com/harperreed/calories/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

func (s *Server) registerTools() {
	// add_meal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_meal",
		Description: "Log a meal; its calories are added to today's total",
	}, s.handleAddMeal)

	// add_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_workout",
		Description: "Log a workout; its calories are subtracted from today's total",
	}, s.handleAddWorkout)

	// remove_meal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_meal",
		Description: "Remove a meal by ID or ID prefix",
	}, s.handleRemoveMeal)

	// remove_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_workout",
		Description: "Remove a workout by ID or ID prefix",
	}, s.handleRemoveWorkout)

	// set_limit
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_limit",
		Description: "Set the daily calorie limit",
	}, s.handleSetLimit)

	// reset_day
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "reset_day",
		Description: "Clear all meals and workouts and zero the total; the limit is kept",
	}, s.handleResetDay)

	// get_stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_stats",
		Description: "Get limit, total, consumed, burned, remaining, and progress",
	}, s.handleGetStats)

	// list_items
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_items",
		Description: "List logged meals and workouts, optionally filtered by name",
	}, s.handleListItems)
}

// Tool input/output types

type addItemInput struct {
	Name     string  `json:"name" jsonschema:"Name of the meal or workout"`
	Calories float64 `json:"calories" jsonschema:"Calories consumed (meal) or burned (workout), greater than zero"`
}

type itemOutput struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Calories float64       `json:"calories"`
	Stats    tracker.Stats `json:"stats"`
	Message  string        `json:"message"`
}

type removeItemInput struct {
	ID string `json:"id" jsonschema:"Item ID or unique ID prefix"`
}

type removeOutput struct {
	Removed bool          `json:"removed"`
	Stats   tracker.Stats `json:"stats"`
	Message string        `json:"message"`
}

type setLimitInput struct {
	Limit float64 `json:"limit" jsonschema:"Daily calorie limit, greater than zero"`
}

type statsOutput struct {
	Stats   tracker.Stats `json:"stats"`
	Message string        `json:"message"`
}

type emptyInput struct{}

type listItemsInput struct {
	Kind   string `json:"kind,omitempty" jsonschema:"Restrict to meal or workout"`
	Filter string `json:"filter,omitempty" jsonschema:"Case-insensitive substring of the item name"`
}

type listItemsOutput struct {
	Meals    []models.Item `json:"meals"`
	Workouts []models.Item `json:"workouts"`
}

// Tool handlers

func (s *Server) handleAddMeal(ctx context.Context, req *mcp.CallToolRequest, input addItemInput) (*mcp.CallToolResult, itemOutput, error) {
	return s.addItem(models.KindMeal, input)
}

func (s *Server) handleAddWorkout(ctx context.Context, req *mcp.CallToolRequest, input addItemInput) (*mcp.CallToolResult, itemOutput, error) {
	return s.addItem(models.KindWorkout, input)
}

func (s *Server) addItem(kind models.Kind, input addItemInput) (*mcp.CallToolResult, itemOutput, error) {
	item := models.NewItem(input.Name, input.Calories)
	stats, err := s.ledger.Add(kind, item)
	if err != nil {
		return nil, itemOutput{}, fmt.Errorf("failed to add %s: %w", kind, err)
	}

	s.log.Info("tool added item", zap.String("kind", string(kind)), zap.String("id", item.ID))
	return nil, itemOutput{
		ID:       item.ShortID(),
		Name:     item.Name,
		Calories: item.Calories,
		Stats:    stats,
		Message:  fmt.Sprintf("Added %s %q: %s kcal (ID: %s)", kind, item.Name, models.FormatCalories(item.Calories), item.ShortID()),
	}, nil
}

func (s *Server) handleRemoveMeal(ctx context.Context, req *mcp.CallToolRequest, input removeItemInput) (*mcp.CallToolResult, removeOutput, error) {
	return s.removeItem(models.KindMeal, input.ID)
}

func (s *Server) handleRemoveWorkout(ctx context.Context, req *mcp.CallToolRequest, input removeItemInput) (*mcp.CallToolResult, removeOutput, error) {
	return s.removeItem(models.KindWorkout, input.ID)
}

func (s *Server) removeItem(kind models.Kind, idOrPrefix string) (*mcp.CallToolResult, removeOutput, error) {
	item, ok, err := s.ledger.Find(kind, idOrPrefix)
	if err != nil {
		return nil, removeOutput{}, err
	}
	if !ok {
		return nil, removeOutput{
			Removed: false,
			Stats:   s.ledger.Snapshot(),
			Message: fmt.Sprintf("No %s matches %s; nothing removed", kind, idOrPrefix),
		}, nil
	}

	removed, stats, err := s.ledger.Remove(kind, item.ID)
	if err != nil {
		return nil, removeOutput{}, fmt.Errorf("failed to remove %s: %w", kind, err)
	}

	return nil, removeOutput{
		Removed: removed,
		Stats:   stats,
		Message: fmt.Sprintf("Removed %s %q (ID: %s)", kind, item.Name, item.ShortID()),
	}, nil
}

func (s *Server) handleSetLimit(ctx context.Context, req *mcp.CallToolRequest, input setLimitInput) (*mcp.CallToolResult, statsOutput, error) {
	if input.Limit <= 0 {
		return nil, statsOutput{}, &models.ValidationError{Field: "limit", Reason: "must be greater than zero"}
	}
	if err := s.ledger.SetCalorieLimit(input.Limit); err != nil {
		return nil, statsOutput{}, fmt.Errorf("failed to set limit: %w", err)
	}

	stats := s.ledger.Snapshot()
	return nil, statsOutput{
		Stats:   stats,
		Message: fmt.Sprintf("Daily limit set to %s kcal", models.FormatCalories(stats.CalorieLimit)),
	}, nil
}

func (s *Server) handleResetDay(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, statsOutput, error) {
	if err := s.ledger.Reset(); err != nil {
		return nil, statsOutput{}, fmt.Errorf("failed to reset: %w", err)
	}

	return nil, statsOutput{
		Stats:   s.ledger.Snapshot(),
		Message: "Day reset: meals and workouts cleared",
	}, nil
}

func (s *Server) handleGetStats(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, statsOutput, error) {
	stats := s.ledger.Snapshot()
	msg := fmt.Sprintf("%s of %s kcal, %s remaining",
		models.FormatCalories(stats.TotalCalories),
		models.FormatCalories(stats.CalorieLimit),
		models.FormatCalories(stats.Remaining))
	if stats.OverLimit {
		msg += " (over limit)"
	}
	return nil, statsOutput{Stats: stats, Message: msg}, nil
}

func (s *Server) handleListItems(ctx context.Context, req *mcp.CallToolRequest, input listItemsInput) (*mcp.CallToolResult, listItemsOutput, error) {
	if input.Kind != "" && !models.IsValidKind(input.Kind) {
		return nil, listItemsOutput{}, fmt.Errorf("unknown kind: %s", input.Kind)
	}

	out := listItemsOutput{
		Meals:    []models.Item{},
		Workouts: []models.Item{},
	}
	if input.Kind == "" || input.Kind == string(models.KindMeal) {
		out.Meals = tracker.FilterItems(s.ledger.Meals(), input.Filter)
	}
	if input.Kind == "" || input.Kind == string(models.KindWorkout) {
		out.Workouts = tracker.FilterItems(s.ledger.Workouts(), input.Filter)
	}
	return nil, out, nil
}
