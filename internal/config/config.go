package config

import "time"

// InputConfig holds timing knobs for a single-question input session
type InputConfig struct {
	// Timeout is how long the user has to answer
	Timeout time.Duration
	// TimeoutBuffer is added to Timeout before the coordinator self-resolves
	TimeoutBuffer time.Duration
	// PollInterval is the heartbeat inspection cadence
	PollInterval time.Duration
	// StaleAfter is the heartbeat age that counts as a dead window
	StaleAfter time.Duration
	// Grace is how long to wait for the first heartbeat
	Grace time.Duration
}

// DefaultInputConfig returns default timing for input sessions
func DefaultInputConfig() InputConfig {
	return InputConfig{
		Timeout:       DefaultInputTimeout,
		TimeoutBuffer: DefaultTimeoutBuffer,
		PollInterval:  DefaultHeartbeatPollInterval,
		StaleAfter:    DefaultHeartbeatStaleAfter,
		Grace:         DefaultHeartbeatGrace,
	}
}

// ChatConfig holds timing knobs for persistent chat sessions
type ChatConfig struct {
	// QuestionTimeout is how long the user has to answer each question
	QuestionTimeout time.Duration
	// TimeoutBuffer is added to QuestionTimeout before a question self-resolves
	TimeoutBuffer time.Duration
	// PollInterval is the heartbeat and answer inspection cadence
	PollInterval time.Duration
	// StaleAfter is the heartbeat age that counts as a dead window
	StaleAfter time.Duration
	// StartGrace is how long a new window has to produce its first heartbeat
	StartGrace time.Duration
	// StopWait is how long a window gets to exit after the close sentinel
	StopWait time.Duration
	// StaleTimeout is the heartbeat silence after which the sweep reclaims
	// the session
	StaleTimeout time.Duration
}

// DefaultChatConfig returns default timing for chat sessions
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		QuestionTimeout: DefaultInputTimeout,
		TimeoutBuffer:   DefaultTimeoutBuffer,
		PollInterval:    DefaultHeartbeatPollInterval,
		StaleAfter:      DefaultHeartbeatStaleAfter,
		StartGrace:      DefaultHeartbeatGrace,
		StopWait:        DefaultChatStopWait,
		StaleTimeout:    DefaultChatStaleTimeout,
	}
}
