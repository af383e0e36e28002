package coordinator

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hamidzr/interactive-mcp/internal/config"
	"github.com/hamidzr/interactive-mcp/internal/input"
)

// handleRequestInput implements the request_user_input tool
func (ms *MCPServer) handleRequestInput(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := request.RequireString("projectName")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	options := request.GetStringSlice("predefinedOptions", nil)

	// Audit log
	ms.audit.LogToolCall(ctx, &AuditEntry{
		ToolName: config.ToolRequestUserInput,
		Arguments: map[string]any{
			"projectName":       project,
			"message":           message,
			"predefinedOptions": options,
		},
	})

	// Collect never fails; any failure to reach the user comes back as an
	// empty answer after channel cleanup.
	answer := ms.collector.Collect(ctx, input.Request{
		Project:       project,
		Prompt:        message,
		Options:       options,
		ShowCountdown: true,
	})

	if answer == "" {
		ms.audit.LogToolResult(ctx, &AuditEntry{
			ToolName: config.ToolRequestUserInput,
			Outcome:  "no_response",
		})
		return mcp.NewToolResultText(config.MsgNoResponse), nil
	}

	ms.audit.LogToolResult(ctx, &AuditEntry{
		ToolName: config.ToolRequestUserInput,
		Outcome:  "answered",
	})

	return mcp.NewToolResultText(answer), nil
}
