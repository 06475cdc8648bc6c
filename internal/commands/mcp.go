package commands

import (
	"context"
	"log/slog"

	"github.com/ranaklabs/ranak/internal/mcp"
	"github.com/ranaklabs/ranak/internal/session"
)

// MCPServeOptions contains parameters for running the MCP server
type MCPServeOptions struct {
	Session   *session.Session
	OutputDir string
	Logger    *slog.Logger
}

// MCPServe exposes the session over MCP on stdio until ctx is cancelled or
// the client disconnects
func MCPServe(ctx context.Context, opts MCPServeOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	server, err := mcp.NewServer(mcp.ServerOptions{
		Session:   opts.Session,
		OutputDir: opts.OutputDir,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	logger.Info("serving MCP on stdio", "session_id", opts.Session.ID())
	return server.Serve(ctx)
}
