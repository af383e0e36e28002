package chat

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hamidzr/interactive-mcp/internal/config"
	"github.com/hamidzr/interactive-mcp/internal/session"
)

// Session is one open chat window. Questions are serialized: a session
// carries a single conversation, so the next question waits for the current
// one to settle.
type Session struct {
	ID        string
	Dir       string
	Title     string
	CreatedAt time.Time

	cfg    config.ChatConfig
	logger *slog.Logger

	mu     sync.Mutex
	seq    int
	closed bool
}

// awaitFirstHeartbeat blocks until the freshly launched window reports its
// heartbeat, the launcher fails, or the start grace expires.
func (s *Session) awaitFirstHeartbeat(ctx context.Context, exited <-chan error) error {
	deadline := time.NewTimer(s.cfg.StartGrace)
	defer deadline.Stop()
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	hb := session.ChatHeartbeatPath(s.Dir, s.ID)
	for {
		select {
		case <-ticker.C:
			if _, err := session.StatHeartbeat(hb); err == nil {
				return nil
			}
		case err := <-exited:
			if err != nil {
				return fmt.Errorf("chat window failed to start: %w", err)
			}
			// Launcher forked and returned; the heartbeat decides from here.
			exited = nil
		case <-deadline.C:
			return fmt.Errorf("%w: no heartbeat within %v", ErrWindowDied, s.cfg.StartGrace)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ask writes one question channel and waits for its answer. The session
// mutex serializes questions and excludes close.
func (s *Session) ask(ctx context.Context, question string, options []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", fmt.Errorf("%w: %s", ErrNotFound, s.ID)
	}
	s.seq++
	n := s.seq

	answerPath := session.ChatAnswerPath(s.Dir, s.ID, n)
	q := session.ChatQuestion{
		Index:             n,
		Question:          question,
		OutputFile:        answerPath,
		PredefinedOptions: options,
	}
	if err := session.WriteQuestion(session.ChatQuestionPath(s.Dir, s.ID, n), q); err != nil {
		return "", fmt.Errorf("write question channel: %w", err)
	}

	answer, err := s.awaitAnswer(ctx, answerPath)

	// Per-question channels are one-shot; reclaim them right away.
	session.Cleanup(s.logger, session.ChatQuestionPath(s.Dir, s.ID, n), answerPath)
	return answer, err
}

// awaitAnswer waits for the indexed answer channel to carry a non-empty
// answer. It watches the session directory and polls as a fallback, checking
// window liveness on each poll. A timeout returns an empty answer with no
// error.
func (s *Session) awaitAnswer(ctx context.Context, path string) (string, error) {
	var events chan fsnotify.Event
	var errs chan error

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Warn("answer watcher unavailable, polling only", "error", err)
	} else {
		defer watcher.Close()
		if err := watcher.Add(s.Dir); err != nil {
			s.logger.Warn("failed to watch session directory", "error", err)
		} else {
			events = watcher.Events
			errs = watcher.Errors
		}
	}

	deadline := time.NewTimer(s.cfg.QuestionTimeout + s.cfg.TimeoutBuffer)
	defer deadline.Stop()
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	hb := session.ChatHeartbeatPath(s.Dir, s.ID)
	for {
		select {
		case ev := <-events:
			if ev.Name != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if answer, ok := readChatAnswer(path); ok {
				return answer, nil
			}
		case err := <-errs:
			s.logger.Warn("answer watcher error", "error", err)
		case <-ticker.C:
			if answer, ok := readChatAnswer(path); ok {
				return answer, nil
			}
			if mtime, err := session.StatHeartbeat(hb); err != nil || time.Since(mtime) > s.cfg.StaleAfter {
				return "", fmt.Errorf("%w while waiting for an answer", ErrWindowDied)
			}
		case <-deadline.C:
			s.logger.Info("question timed out", "index", s.seq)
			return "", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// readChatAnswer reads an indexed answer channel. The file only exists once
// the user submits, and only a non-empty trimmed answer counts.
func readChatAnswer(path string) (string, bool) {
	answer, err := session.ReadAnswer(path)
	if err != nil || answer == "" {
		return "", false
	}
	return answer, true
}

// close asks the window to exit and reclaims every chat channel. Safe to
// call more than once.
func (s *Session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	closePath := session.ChatClosePath(s.Dir, s.ID)
	if err := os.WriteFile(closePath, nil, 0o600); err != nil {
		s.logger.Warn("failed to write close sentinel", "error", err)
	}

	// Give the UI a moment to exit on its own before reclaiming channels.
	deadline := time.Now().Add(s.cfg.StopWait)
	for time.Now().Before(deadline) {
		if _, err := session.StatHeartbeat(session.ChatHeartbeatPath(s.Dir, s.ID)); err != nil {
			break
		}
		time.Sleep(s.cfg.PollInterval)
	}

	s.cleanup()
}

// markClosed flags the session closed without the sentinel handshake. Used
// when the window is already known dead.
func (s *Session) markClosed() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) cleanup() {
	session.Cleanup(s.logger, s.files()...)
}

// files lists every channel belonging to the session, including the
// per-question channels issued so far.
func (s *Session) files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []string{
		session.ChatOptionsPath(s.Dir, s.ID),
		session.ChatHeartbeatPath(s.Dir, s.ID),
		session.ChatClosePath(s.Dir, s.ID),
	}
	for i := 1; i <= s.seq; i++ {
		out = append(out, session.ChatQuestionPath(s.Dir, s.ID, i), session.ChatAnswerPath(s.Dir, s.ID, i))
	}
	return out
}
