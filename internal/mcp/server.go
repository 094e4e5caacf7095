// ABOUTME: MCP server setup for the nutrition store.
// ABOUTME: Wraps MCP server with repository access and default targets.
package mcp

import (
	"context"

	"github.com/harperreed/nutrition/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access. This is the surface
// the AI layer talks to: it hands over already-parsed numeric
// estimates, the core does the scaling and bookkeeping.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	defaults  storage.Targets
}

// NewServer creates a new MCP server with the given storage.
func NewServer(repo storage.Repository, defaults storage.Targets) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "nutrition",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		defaults:  defaults,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
