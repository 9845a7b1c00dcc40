// ABOUTME: MCP server setup for the calorie ledger.
// ABOUTME: Wraps MCP server with a tracker.Ledger.
package mcp

import (
	"context"

	"github.com/harperreed/calories/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Server wraps the MCP server with ledger access.
type Server struct {
	mcpServer *mcp.Server
	ledger    *tracker.Ledger
	log       *zap.Logger
}

// NewServer creates a new MCP server over an initialized ledger.
func NewServer(ledger *tracker.Ledger, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "calories",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		ledger:    ledger,
		log:       log,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("mcp server starting", zap.String("transport", "stdio"))
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
