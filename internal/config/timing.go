package config

import "time"

// Default timing for the cross-process input protocol
const (
	// DefaultInputTimeout is how long the user has to answer a prompt
	DefaultInputTimeout = 30 * time.Second

	// DefaultTimeoutBuffer is added on top of the user-facing timeout before
	// the coordinator gives up on its own clock
	DefaultTimeoutBuffer = 5 * time.Second

	// DefaultHeartbeatPollInterval is how often the coordinator inspects the
	// heartbeat channel
	DefaultHeartbeatPollInterval = 1500 * time.Millisecond

	// DefaultHeartbeatStaleAfter is how old a heartbeat may be before the
	// prompt window is considered dead
	DefaultHeartbeatStaleAfter = 3 * time.Second

	// DefaultHeartbeatGrace is how long a freshly launched prompt window has
	// to produce its first heartbeat
	DefaultHeartbeatGrace = 7 * time.Second

	// DefaultHeartbeatWriteInterval is how often the prompter refreshes the
	// heartbeat channel while it is open
	DefaultHeartbeatWriteInterval = 1 * time.Second

	// DefaultChatStopWait is how long a chat window gets to exit on its own
	// after the close sentinel is written
	DefaultChatStopWait = 2 * time.Second

	// DefaultChatStaleTimeout is how long a chat heartbeat may be silent
	// before the sweep reclaims the session
	DefaultChatStaleTimeout = 5 * time.Minute

	// DefaultChatSweepInterval is how often stale chat sessions are swept
	DefaultChatSweepInterval = 1 * time.Minute

	// DefaultQuestionPollInterval is how often an open chat window checks for
	// the next question or the close sentinel
	DefaultQuestionPollInterval = 250 * time.Millisecond
)
