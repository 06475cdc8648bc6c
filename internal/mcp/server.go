// Package mcp exposes a research session as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ranaklabs/ranak/internal/export"
	"github.com/ranaklabs/ranak/internal/prompt"
	"github.com/ranaklabs/ranak/internal/session"
	"github.com/ranaklabs/ranak/internal/version"
)

const fragmentSeparator = "\n\n---\n\n"

// ServerOptions contains options for creating an MCP server
type ServerOptions struct {
	// Session is required. The server owns it for the lifetime of Serve.
	Session *session.Session
	// OutputDir is the default export directory.
	OutputDir string
	Logger    *slog.Logger
}

// AskInput defines the input schema for the ask tool
type AskInput struct {
	Question string `json:"question" jsonschema:"The research question to send to the assistant"`
}

// FollowUpInput is the empty input of the follow-up tools.
type FollowUpInput struct{}

// ExportInput defines the input schema for the export tool
type ExportInput struct {
	Format string `json:"format,omitempty" jsonschema:"One of word, csv, pdf or all. Defaults to all"`
	Dir    string `json:"dir,omitempty" jsonschema:"Directory to write the files to. Defaults to the configured export directory"`
}

// Server wraps an MCP server that exposes one session as tools. Tool calls
// are serialised because the session handles one interaction at a time.
type Server struct {
	mu        sync.Mutex
	sess      *session.Session
	outputDir string
	logger    *slog.Logger
	mcpServer *mcp.Server
}

func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Session == nil {
		return nil, fmt.Errorf("session is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "ranak",
			Title:   "Ranak Research Agent",
			Version: version.Get(),
		},
		nil,
	)

	s := &Server{
		sess:      opts.Session,
		outputDir: opts.OutputDir,
		logger:    logger,
		mcpServer: mcpServer,
	}

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "ask",
		Description: "Ask the research assistant a question. Replaces the previous response.",
	}, s.handleAsk)
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "generate_subtopics",
		Description: "Ask the assistant for a bulleted list of subtopics of the last response.",
	}, s.followUp(prompt.Subtopics))
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "summarise",
		Description: "Ask the assistant to summarise the last response.",
	}, s.followUp(prompt.Summarize))
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "export",
		Description: "Write the current responses as Word, CSV and/or PDF documents.",
	}, s.handleExport)

	return s, nil
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: isError,
	}
}

func (s *Server) trigger(ctx context.Context, action prompt.Action, input string) (*mcp.CallToolResult, any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sess.Trigger(ctx, action, input); err != nil {
		if session.IsWarning(err) {
			s.logger.Info("tool call refused", "action", action, "reason", err)
		} else {
			s.logger.Error("tool call failed", "action", action, "err", err)
		}
		return textResult(err.Error(), true), nil, nil
	}
	return textResult(strings.Join(s.sess.Fragments(), fragmentSeparator), false), nil, nil
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, any, error) {
	return s.trigger(ctx, prompt.Ask, input.Question)
}

func (s *Server) followUp(action prompt.Action) mcp.ToolHandlerFor[FollowUpInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ FollowUpInput) (*mcp.CallToolResult, any, error) {
		return s.trigger(ctx, action, "")
	}
}

func (s *Server) handleExport(ctx context.Context, _ *mcp.CallToolRequest, input ExportInput) (*mcp.CallToolResult, any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	formats := export.Formats
	if f := strings.TrimSpace(input.Format); f != "" && !strings.EqualFold(f, "all") {
		format, err := export.ParseFormat(f)
		if err != nil {
			return textResult(err.Error(), true), nil, nil
		}
		formats = []export.Format{format}
	}
	dir := input.Dir
	if dir == "" {
		dir = s.outputDir
	}

	var lines []string
	var failed bool
	for _, f := range formats {
		a, err := s.sess.Export(f)
		if errors.Is(err, session.ErrNothingToExport) {
			return textResult(err.Error(), true), nil, nil
		}
		if err == nil {
			var path string
			path, err = a.Save(dir)
			if err == nil {
				lines = append(lines, fmt.Sprintf("%s: %s", f, path))
				continue
			}
		}
		failed = true
		s.logger.Error("export failed", "format", f, "err", err)
		lines = append(lines, fmt.Sprintf("%s: %v", f, err))
	}
	return textResult(strings.Join(lines, "\n"), failed), nil, nil
}

// Serve starts the MCP server on stdio and blocks until the context is
// cancelled or the connection is closed.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
