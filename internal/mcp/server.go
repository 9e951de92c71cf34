package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ziadkadry99/stockseo/internal/generator"
	"github.com/ziadkadry99/stockseo/internal/history"
	"github.com/ziadkadry99/stockseo/internal/i18n"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes keyword generation tools.
type Server struct {
	orch    *generator.Orchestrator
	history *history.Registry
	pref    *i18n.Preference
	log     *zap.Logger
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(orch *generator.Orchestrator, hist *history.Registry, pref *i18n.Preference, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		orch:    orch,
		history: hist,
		pref:    pref,
		log:     log.Named("mcp"),
	}

	s.mcp = server.NewMCPServer(
		"stockseo",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(generateKeywordsTool, s.handleGenerateKeywords)
	s.mcp.AddTool(listHistoryTool, s.handleListHistory)
	s.mcp.AddTool(getHistoryItemTool, s.handleGetHistoryItem)
}

func (s *Server) catalog(ctx context.Context) *i18n.Catalog {
	if s.pref == nil {
		return i18n.MustLoad(i18n.DefaultLanguage)
	}
	return s.pref.Catalog(ctx)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
