package config

// User-facing messages returned through tool results
const (
	// MsgNoResponse is returned when a prompt closes without an answer
	MsgNoResponse = "No response received from user"
	// MsgNotificationSent is the format string for notification confirmations
	MsgNotificationSent = "Notification sent: %s"
	// ErrChatNotFound is the format string for unknown chat session ids
	ErrChatNotFound = "no active chat session with id %s"
)
