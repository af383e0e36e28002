package coordinator

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hamidzr/interactive-mcp/internal/config"
)

// registerTools registers all MCP tools with handlers
func (ms *MCPServer) registerTools() {
	// helper to register a tool unless it was disabled at startup
	add := func(tool mcp.Tool, handler server.ToolHandlerFunc) {
		if ms.disabled[tool.Name] {
			return
		}
		ms.server.AddTool(tool, handler)
	}

	// request_user_input tool - one question, one answer
	requestInputTool := mcp.NewTool(config.ToolRequestUserInput,
		mcp.WithDescription("Ask the user a single question in a pop-up terminal window and wait for their typed answer"),
		mcp.WithString("projectName",
			mcp.Required(),
			mcp.Description("Project or context name shown in the window title"),
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Question to present to the user"),
		),
		mcp.WithArray("predefinedOptions",
			mcp.Description("Optional list of suggested answers the user can pick by number"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
	add(requestInputTool, ms.handleRequestInput)

	// message_complete_notification tool - fire an OS notification
	notifyTool := mcp.NewTool(config.ToolMessageComplete,
		mcp.WithDescription("Send an OS notification that a long-running task has finished"),
		mcp.WithString("projectName",
			mcp.Required(),
			mcp.Description("Project or context name used as the notification title"),
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Notification body text"),
		),
	)
	add(notifyTool, ms.handleNotification)

	// start_intensive_chat tool - open a persistent prompt window
	startChatTool := mcp.NewTool(config.ToolStartIntensiveChat,
		mcp.WithDescription("Open a persistent terminal window for a rapid series of questions"),
		mcp.WithString("sessionTitle",
			mcp.Required(),
			mcp.Description("Title shown at the top of the chat window"),
		),
	)
	add(startChatTool, ms.handleStartChat)

	// ask_intensive_chat tool - one question inside an open chat
	askChatTool := mcp.NewTool(config.ToolAskIntensiveChat,
		mcp.WithDescription("Ask a question in an open intensive chat session and wait for the answer"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Identifier returned by start_intensive_chat"),
		),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Question to present to the user"),
		),
		mcp.WithArray("predefinedOptions",
			mcp.Description("Optional list of suggested answers the user can pick by number"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
	add(askChatTool, ms.handleAskChat)

	// stop_intensive_chat tool - close the window and reclaim channels
	stopChatTool := mcp.NewTool(config.ToolStopIntensiveChat,
		mcp.WithDescription("Close an intensive chat session and its terminal window"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Identifier returned by start_intensive_chat"),
		),
	)
	add(stopChatTool, ms.handleStopChat)
}
