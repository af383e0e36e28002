// Package session defines the identity and channel files of one cross-process
// prompt exchange. The coordinator and the prompter run in separate processes
// and share nothing but files in the OS temp dir, namespaced by a random
// session id.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrChannelMissing reports that a channel file does not exist. Callers use
// errors.Is to separate "not written yet" from real inspection failures.
var ErrChannelMissing = errors.New("channel file missing")

// Channel file name prefixes. A name is prefix plus session id, so concurrent
// sessions sharing a temp dir never collide.
const (
	optionsPrefix   = "input-options-"
	answerPrefix    = "input-answer-"
	heartbeatPrefix = "input-heartbeat-"

	chatOptionsPrefix   = "chat-options-"
	chatQuestionPrefix  = "chat-question-"
	chatAnswerPrefix    = "chat-answer-"
	chatHeartbeatPrefix = "chat-heartbeat-"
	chatClosePrefix     = "chat-close-"
)

// Session is one prompt exchange. The id namespaces every channel file
// belonging to the exchange.
type Session struct {
	ID        string
	Dir       string
	CreatedAt time.Time
}

// New creates a session rooted in dir. An empty dir falls back to the OS
// temp dir.
func New(dir string) Session {
	if dir == "" {
		dir = os.TempDir()
	}
	return Session{
		ID:        uuid.New().String(),
		Dir:       dir,
		CreatedAt: time.Now(),
	}
}

// OptionsFile returns the session's options channel path.
func (s Session) OptionsFile() string { return OptionsPath(s.Dir, s.ID) }

// AnswerFile returns the session's answer channel path.
func (s Session) AnswerFile() string { return AnswerPath(s.Dir, s.ID) }

// HeartbeatFile returns the session's heartbeat channel path.
func (s Session) HeartbeatFile() string { return HeartbeatPath(s.Dir, s.ID) }

// ChannelFiles returns every channel file of the session, for cleanup.
func (s Session) ChannelFiles() []string {
	return []string{s.OptionsFile(), s.AnswerFile(), s.HeartbeatFile()}
}

// OptionsPath returns the single-question options channel for id inside dir.
// The prompter derives this path from its command line arguments; everything
// else it needs arrives inside the options payload.
func OptionsPath(dir, id string) string {
	return filepath.Join(dir, optionsPrefix+id+".json")
}

// AnswerPath returns the answer channel for id inside dir.
func AnswerPath(dir, id string) string {
	return filepath.Join(dir, answerPrefix+id+".txt")
}

// HeartbeatPath returns the heartbeat channel for id inside dir.
func HeartbeatPath(dir, id string) string {
	return filepath.Join(dir, heartbeatPrefix+id)
}

// ChatOptionsPath returns the chat options channel for id inside dir.
func ChatOptionsPath(dir, id string) string {
	return filepath.Join(dir, chatOptionsPrefix+id+".json")
}

// ChatQuestionPath returns the n-th question channel of chat session id.
func ChatQuestionPath(dir, id string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("%s%s-%d.json", chatQuestionPrefix, id, n))
}

// ChatAnswerPath returns the n-th answer channel of chat session id.
func ChatAnswerPath(dir, id string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("%s%s-%d.txt", chatAnswerPrefix, id, n))
}

// ChatHeartbeatPath returns the heartbeat channel of chat session id.
func ChatHeartbeatPath(dir, id string) string {
	return filepath.Join(dir, chatHeartbeatPrefix+id)
}

// ChatClosePath returns the close sentinel of chat session id. Its existence
// tells the prompter to exit.
func ChatClosePath(dir, id string) string {
	return filepath.Join(dir, chatClosePrefix+id)
}
