// Package mcpserver exposes the router as a Model Context Protocol tool.
package mcpserver

import (
	"context"
	"io"
	"log"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolName is the single tool the server offers.
const ToolName = "ask"

// Responder answers one message. *router.Router satisfies it.
type Responder interface {
	Handle(ctx context.Context, text string) (string, error)
}

// Config holds the server dependencies.
type Config struct {
	Responder Responder
	Version   string
	Logger    *slog.Logger
}

// Server serves the ask tool over stdio.
type Server struct {
	responder Responder
	mcp       *server.MCPServer
	logger    *slog.Logger
}

// New builds the MCP server and registers the ask tool.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		responder: cfg.Responder,
		mcp:       server.NewMCPServer("rios", version, server.WithToolCapabilities(false)),
		logger:    logger.With("component", "mcp"),
	}
	s.mcp.AddTool(Tool(), s.handleAsk)
	return s
}

// Tool describes the ask tool.
func Tool() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Ask Rios AI a question. Arithmetic, weather, exchange rates and "+
			"crypto prices are answered locally or from public APIs; anything else goes to the LLM."),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The question, in Portuguese or English"),
		),
	)
}

// Serve runs the stdio transport until in is closed or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(io.Discard, "", 0))
	s.logger.Info("mcp server listening on stdio")
	return stdio.Listen(ctx, in, out)
}

func (s *Server) handleAsk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	msg, err := req.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return mcp.NewToolResultError("message must not be empty"), nil
	}

	reply, err := s.responder.Handle(ctx, msg)
	if err != nil {
		s.logger.Error("ask failed", "error", err)
		return mcp.NewToolResultError("rios: " + err.Error()), nil
	}
	return mcp.NewToolResultText(reply), nil
}
