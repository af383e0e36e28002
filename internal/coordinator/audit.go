package coordinator

import (
	"context"
	"log/slog"
	"time"
)

// AuditEntry represents a logged tool interaction
type AuditEntry struct {
	Timestamp time.Time
	ToolName  string
	SessionID string
	Arguments map[string]any
	Outcome   string
	ErrorMsg  string
}

// AuditLogger handles audit logging for MCP tool calls
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger,
	}
}

// LogToolCall logs a tool invocation with all relevant context
func (al *AuditLogger) LogToolCall(ctx context.Context, entry *AuditEntry) {
	al.logger.InfoContext(ctx, "tool_call",
		"tool_name", entry.ToolName,
		"session_id", entry.SessionID,
		"arguments", entry.Arguments,
	)
}

// LogToolResult logs how a tool call settled
func (al *AuditLogger) LogToolResult(ctx context.Context, entry *AuditEntry) {
	if entry.ErrorMsg != "" {
		al.logger.ErrorContext(ctx, "tool_error",
			"tool_name", entry.ToolName,
			"session_id", entry.SessionID,
			"error", entry.ErrorMsg,
		)
		return
	}
	al.logger.InfoContext(ctx, "tool_result",
		"tool_name", entry.ToolName,
		"session_id", entry.SessionID,
		"outcome", entry.Outcome,
	)
}
