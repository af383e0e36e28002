// Package chat manages persistent prompt windows. A chat session keeps one
// terminal window open across many questions, with the same channel-file
// discipline as one-shot input: the coordinator writes questions, the window
// writes answers and a heartbeat, and a close sentinel asks it to exit.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/hamidzr/interactive-mcp/internal/config"
	"github.com/hamidzr/interactive-mcp/internal/session"
	"github.com/hamidzr/interactive-mcp/internal/storage/memory"
	"github.com/hamidzr/interactive-mcp/internal/terminal"
)

var (
	// ErrNotFound reports an unknown or already closed chat session.
	ErrNotFound = errors.New("chat session not found")
	// ErrWindowDied reports that the chat window stopped heartbeating.
	ErrWindowDied = errors.New("chat window died")
)

// Manager tracks open chat sessions.
type Manager struct {
	cfg      config.ChatConfig
	logger   *slog.Logger
	prompter string
	tempDir  string
	sessions *memory.Registry[*Session]

	// Seams for tests. Production wiring is the real resolver and spawner.
	resolve func(title string, argv []string) (terminal.LaunchSpec, error)
	launch  func(terminal.LaunchSpec) (<-chan error, error)
}

// NewManager returns a manager that opens prompterPath windows for chat
// sessions.
func NewManager(cfg config.ChatConfig, prompterPath string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	resolver := terminal.NewResolver()
	return &Manager{
		cfg:      cfg,
		logger:   logger.With("component", "chat"),
		prompter: prompterPath,
		tempDir:  os.TempDir(),
		sessions: memory.NewRegistry[*Session](),
		resolve:  resolver.Resolve,
		launch: func(spec terminal.LaunchSpec) (<-chan error, error) {
			handle, err := terminal.Launch(spec)
			if err != nil {
				return nil, err
			}
			return handle.Exited(), nil
		},
	}
}

// Start opens a new chat window and waits for its first heartbeat. The
// session is registered only once the window has proven itself alive.
func (m *Manager) Start(ctx context.Context, title string) (*Session, error) {
	id := uuid.New().String()
	sess := &Session{
		ID:        id,
		Dir:       m.tempDir,
		Title:     title,
		CreatedAt: time.Now(),
		cfg:       m.cfg,
		logger:    m.logger.With("chatId", id),
	}

	spec, err := m.resolve(title, []string{m.prompter, id, m.tempDir})
	if err != nil {
		return nil, fmt.Errorf("resolve chat window: %w", err)
	}

	opts := session.ChatOptions{
		Title:         title,
		SessionID:     id,
		HeartbeatFile: session.ChatHeartbeatPath(m.tempDir, id),
		Timeout:       int((m.cfg.QuestionTimeout + time.Second - 1) / time.Second),
		ShowCountdown: true,
	}
	if err := session.WriteChatOptions(session.ChatOptionsPath(m.tempDir, id), opts); err != nil {
		return nil, fmt.Errorf("write chat options: %w", err)
	}

	exited, err := m.launch(spec)
	if err != nil {
		sess.cleanup()
		return nil, fmt.Errorf("launch chat window: %w", err)
	}

	if err := sess.awaitFirstHeartbeat(ctx, exited); err != nil {
		sess.cleanup()
		return nil, err
	}

	if err := m.sessions.Put(id, sess); err != nil {
		sess.close()
		return nil, fmt.Errorf("register chat session: %w", err)
	}

	m.logger.Info("chat session started", "chatId", id, "title", title)
	return sess, nil
}

// Ask forwards one question into an open session and waits for the answer.
// An empty answer with a nil error means the question timed out; the session
// stays open. A dead window is reclaimed and reported as ErrWindowDied.
func (m *Manager) Ask(ctx context.Context, id, question string, options []string) (string, error) {
	sess, ok := m.sessions.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	answer, err := sess.ask(ctx, question, options)
	if errors.Is(err, ErrWindowDied) {
		if _, removed := m.sessions.Remove(id); removed {
			sess.markClosed()
			sess.cleanup()
		}
	}
	return answer, err
}

// Get returns an open session.
func (m *Manager) Get(id string) (*Session, bool) {
	return m.sessions.Get(id)
}

// Stop closes a chat session and reclaims its channels.
func (m *Manager) Stop(id string) error {
	sess, ok := m.sessions.Remove(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	sess.close()
	m.logger.Info("chat session stopped", "chatId", id)
	return nil
}

// StopAll closes every open chat session. Used at server shutdown so no
// orphaned windows or channel files outlive the process.
func (m *Manager) StopAll() {
	for _, sess := range m.sessions.RemoveAll() {
		sess.close()
	}
}

// CleanupStale reclaims sessions whose heartbeat has been silent longer than
// the configured stale timeout. It returns the number reclaimed.
func (m *Manager) CleanupStale() int {
	reclaimed := 0
	for id, sess := range m.sessions.Items() {
		mtime, err := session.StatHeartbeat(session.ChatHeartbeatPath(sess.Dir, sess.ID))
		if err == nil && time.Since(mtime) <= m.cfg.StaleTimeout {
			continue
		}
		// Remove may lose a race against Stop; only the winner tears down.
		if _, ok := m.sessions.Remove(id); ok {
			sess.logger.Info("reclaiming stale chat session")
			sess.close()
			reclaimed++
		}
	}
	return reclaimed
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	return m.sessions.Len()
}
