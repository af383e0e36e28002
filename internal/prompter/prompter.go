// Package prompter implements the terminal window that asks the user a
// question. It is the process on the far side of the channel files: it reads
// its instructions from an options channel, keeps a heartbeat alive while the
// window is open, and writes the user's answer back for the coordinator to
// pick up.
package prompter

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hamidzr/interactive-mcp/internal/config"
	"github.com/hamidzr/interactive-mcp/internal/session"
)

var (
	// ErrNoSession reports that neither options channel exists for the id.
	ErrNoSession = errors.New("no session channels found")
	// ErrExpired reports that the countdown ran out before the user answered.
	ErrExpired = errors.New("prompt timed out")
	// ErrCanceled reports that the user dismissed the prompt.
	ErrCanceled = errors.New("prompt canceled")
)

// Prompter drives one invocation of the prompt window.
type Prompter struct {
	logger            *slog.Logger
	heartbeatInterval time.Duration
	pollInterval      time.Duration

	// runProgram runs a question model to completion. Tests replace it to
	// script the user.
	runProgram func(*Model) (tea.Model, error)
}

// New returns a prompter with production wiring.
func New(logger *slog.Logger) *Prompter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prompter{
		logger:            logger.With("component", "prompter"),
		heartbeatInterval: config.DefaultHeartbeatWriteInterval,
		pollInterval:      config.DefaultQuestionPollInterval,
		runProgram: func(m *Model) (tea.Model, error) {
			return tea.NewProgram(m, tea.WithAltScreen()).Run()
		},
	}
}

// Run executes the prompt flow for one session id. The mode comes from which
// options channel exists: a one-shot payload or a chat configuration.
func (p *Prompter) Run(sessionID, dir string) error {
	payload, err := session.ReadOptions(session.OptionsPath(dir, sessionID))
	if err == nil {
		return p.runSingle(payload)
	}
	if !errors.Is(err, session.ErrChannelMissing) {
		return err
	}

	opts, err := session.ReadChatOptions(session.ChatOptionsPath(dir, sessionID))
	if err != nil {
		if errors.Is(err, session.ErrChannelMissing) {
			return fmt.Errorf("%w: %s", ErrNoSession, sessionID)
		}
		return err
	}
	return p.runChat(sessionID, dir, opts)
}
