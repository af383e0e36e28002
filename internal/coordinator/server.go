// Package coordinator exposes the interactive input machinery as an MCP
// server. Each tool call turns into a prompt session: a terminal window is
// opened on the user's desktop, the user answers, and the answer travels
// back as the tool result.
package coordinator

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hamidzr/interactive-mcp/internal/chat"
	"github.com/hamidzr/interactive-mcp/internal/input"
)

// InputCollector runs a single prompt session and returns the user's answer.
// An empty string means no answer could be obtained.
type InputCollector interface {
	Collect(ctx context.Context, req input.Request) string
}

// ChatManager handles long-lived prompt windows that take a series of
// questions.
type ChatManager interface {
	Start(ctx context.Context, title string) (*chat.Session, error)
	Ask(ctx context.Context, id, question string, options []string) (string, error)
	Stop(id string) error
}

// Notifier delivers OS-level notifications.
type Notifier interface {
	Send(title, message string)
}

// MCPServer wraps the mcp-go server with our business logic
type MCPServer struct {
	server    *server.MCPServer
	collector InputCollector
	chats     ChatManager
	notifier  Notifier
	audit     *AuditLogger
	disabled  map[string]bool
}

// Config holds configuration for the MCP server
type Config struct {
	Name          string
	Version       string
	DisabledTools []string
}

// NewMCPServer creates and configures a new MCP server with all tools
// registered, minus any listed in cfg.DisabledTools.
func NewMCPServer(cfg Config, collector InputCollector, chats ChatManager, notifier Notifier, audit *AuditLogger) *MCPServer {
	// Create the mcp-go server
	mcpServer := server.NewMCPServer(
		cfg.Name,
		cfg.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	if audit == nil {
		audit = NewAuditLogger(slog.Default())
	}

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	ms := &MCPServer{
		server:    mcpServer,
		collector: collector,
		chats:     chats,
		notifier:  notifier,
		audit:     audit,
		disabled:  disabled,
	}

	// Register tools
	ms.registerTools()

	return ms
}

// Server returns the underlying mcp-go server for serving
func (ms *MCPServer) Server() *server.MCPServer {
	return ms.server
}
