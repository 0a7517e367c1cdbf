// ABOUTME: MCP server setup for the healthopt store and analysis engine.
// ABOUTME: Wraps MCP server with storage Repository and analysis Engine.
package mcp

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/healthopt/internal/analysis"
	"github.com/harperreed/healthopt/internal/storage"
)

// Server wraps the MCP server with storage and analysis access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	engine    *analysis.Engine
	now       func() time.Time
}

// NewServer creates a new MCP server over repo. A nil engine uses the default policy.
func NewServer(repo storage.Repository, engine *analysis.Engine) (*Server, error) {
	if engine == nil {
		engine = analysis.NewEngine(analysis.DefaultPolicy())
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "healthopt",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		engine:    engine,
		now:       time.Now,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	log.Debug("serving MCP over stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// snapshot loads the last days of records, or everything when days is not positive.
func (s *Server) snapshot(days int) (*analysis.Snapshot, error) {
	r := storage.AllTime()
	if days > 0 {
		r = storage.LastDays(s.now(), days)
	}
	return storage.LoadSnapshot(s.repo, r)
}
