package coordinator

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hamidzr/interactive-mcp/internal/config"
)

// handleNotification implements the message_complete_notification tool
func (ms *MCPServer) handleNotification(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := request.RequireString("projectName")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Audit log
	ms.audit.LogToolCall(ctx, &AuditEntry{
		ToolName: config.ToolMessageComplete,
		Arguments: map[string]any{
			"projectName": project,
			"message":     message,
		},
	})

	// Delivery is best effort; Send absorbs platform failures.
	ms.notifier.Send(project, message)

	ms.audit.LogToolResult(ctx, &AuditEntry{
		ToolName: config.ToolMessageComplete,
		Outcome:  "sent",
	})

	return mcp.NewToolResultText(fmt.Sprintf(config.MsgNotificationSent, message)), nil
}
