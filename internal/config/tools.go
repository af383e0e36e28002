package config

// Tool defines the available tools exposed over MCP
const (
	// ToolRequestUserInput is the single-question prompt tool name
	ToolRequestUserInput = "request_user_input"
	// ToolMessageComplete is the completion notification tool name
	ToolMessageComplete = "message_complete_notification"
	// ToolStartIntensiveChat is the chat session open tool name
	ToolStartIntensiveChat = "start_intensive_chat"
	// ToolAskIntensiveChat is the chat question tool name
	ToolAskIntensiveChat = "ask_intensive_chat"
	// ToolStopIntensiveChat is the chat session close tool name
	ToolStopIntensiveChat = "stop_intensive_chat"
)

// AllTools returns a slice of all available tool names
func AllTools() []string {
	return []string{
		ToolRequestUserInput,
		ToolMessageComplete,
		ToolStartIntensiveChat,
		ToolAskIntensiveChat,
		ToolStopIntensiveChat,
	}
}
