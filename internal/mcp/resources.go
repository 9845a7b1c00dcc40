// ABOUTME: MCP resource implementations for the calorie ledger.
// ABOUTME: Provides calories://summary and calories://items resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	summaryURI = "calories://summary"
	itemsURI   = "calories://items"
)

func (s *Server) registerResources() {
	// calories://summary - limit, total, consumed, burned, remaining, progress
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Calorie Summary",
		Description: "Today's calorie balance against the daily limit",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	// calories://items - every logged meal and workout
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         itemsURI,
		Name:        "Logged Items",
		Description: "All meals and workouts logged today, in order",
		MIMEType:    "application/json",
	}, s.handleItemsResource)
}

// Resource handlers

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(summaryURI, s.ledger.Snapshot())
}

func (s *Server) handleItemsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	result := map[string]interface{}{
		"meals":    s.ledger.Meals(),
		"workouts": s.ledger.Workouts(),
	}
	return jsonResource(itemsURI, result)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
