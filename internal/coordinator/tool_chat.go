package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hamidzr/interactive-mcp/internal/chat"
	"github.com/hamidzr/interactive-mcp/internal/config"
)

// ChatStartResponse is the JSON reply of start_intensive_chat
type ChatStartResponse struct {
	SessionID string `json:"sessionId"`
	Title     string `json:"title"`
	Status    string `json:"status"`
}

// ChatStopResponse is the JSON reply of stop_intensive_chat
type ChatStopResponse struct {
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
}

// handleStartChat implements the start_intensive_chat tool
func (ms *MCPServer) handleStartChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("sessionTitle")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Audit log
	ms.audit.LogToolCall(ctx, &AuditEntry{
		ToolName:  config.ToolStartIntensiveChat,
		Arguments: map[string]any{"sessionTitle": title},
	})

	sess, err := ms.chats.Start(ctx, title)
	if err != nil {
		ms.audit.LogToolResult(ctx, &AuditEntry{
			ToolName: config.ToolStartIntensiveChat,
			ErrorMsg: err.Error(),
		})
		return mcp.NewToolResultError(err.Error()), nil
	}

	ms.audit.LogToolResult(ctx, &AuditEntry{
		ToolName:  config.ToolStartIntensiveChat,
		SessionID: sess.ID,
		Outcome:   "started",
	})

	response := ChatStartResponse{
		SessionID: sess.ID,
		Title:     sess.Title,
		Status:    "open",
	}
	responseJSON, _ := json.Marshal(response)
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// handleAskChat implements the ask_intensive_chat tool
func (ms *MCPServer) handleAskChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("sessionId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	options := request.GetStringSlice("predefinedOptions", nil)

	// Audit log
	ms.audit.LogToolCall(ctx, &AuditEntry{
		ToolName:  config.ToolAskIntensiveChat,
		SessionID: id,
		Arguments: map[string]any{
			"question":          question,
			"predefinedOptions": options,
		},
	})

	answer, err := ms.chats.Ask(ctx, id, question, options)
	if err != nil {
		ms.audit.LogToolResult(ctx, &AuditEntry{
			ToolName:  config.ToolAskIntensiveChat,
			SessionID: id,
			ErrorMsg:  err.Error(),
		})
		if errors.Is(err, chat.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf(config.ErrChatNotFound, id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	if answer == "" {
		ms.audit.LogToolResult(ctx, &AuditEntry{
			ToolName:  config.ToolAskIntensiveChat,
			SessionID: id,
			Outcome:   "no_response",
		})
		return mcp.NewToolResultText(config.MsgNoResponse), nil
	}

	ms.audit.LogToolResult(ctx, &AuditEntry{
		ToolName:  config.ToolAskIntensiveChat,
		SessionID: id,
		Outcome:   "answered",
	})

	return mcp.NewToolResultText(answer), nil
}

// handleStopChat implements the stop_intensive_chat tool
func (ms *MCPServer) handleStopChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("sessionId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Audit log
	ms.audit.LogToolCall(ctx, &AuditEntry{
		ToolName:  config.ToolStopIntensiveChat,
		SessionID: id,
	})

	if err := ms.chats.Stop(id); err != nil {
		ms.audit.LogToolResult(ctx, &AuditEntry{
			ToolName:  config.ToolStopIntensiveChat,
			SessionID: id,
			ErrorMsg:  err.Error(),
		})
		if errors.Is(err, chat.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf(config.ErrChatNotFound, id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	ms.audit.LogToolResult(ctx, &AuditEntry{
		ToolName:  config.ToolStopIntensiveChat,
		SessionID: id,
		Outcome:   "stopped",
	})

	response := ChatStopResponse{
		SessionID: id,
		Status:    "closed",
	}
	responseJSON, _ := json.Marshal(response)
	return mcp.NewToolResultText(string(responseJSON)), nil
}
