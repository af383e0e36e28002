package input

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hamidzr/interactive-mcp/internal/session"
)

// watchTimeout resolves the session empty once the buffered deadline passes.
// The deadline counts from session creation, not from arming, so launch
// latency never extends the user's window.
func (c *Collector) watchTimeout(ctx context.Context, wg *sync.WaitGroup, arb *arbiter, deadline time.Time) {
	defer wg.Done()

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case <-timer.C:
		arb.resolve(verdict{reason: ReasonTimeout})
	case <-ctx.Done():
	}
}

// watchExit resolves the session empty when the launcher process reports
// failure. A clean exit is ignored: most emulators fork the window and
// return immediately, so launcher exit says nothing about the prompt.
func (c *Collector) watchExit(ctx context.Context, wg *sync.WaitGroup, arb *arbiter, exited <-chan error, logger *slog.Logger) {
	defer wg.Done()

	select {
	case err := <-exited:
		if err != nil {
			logger.Warn("terminal process failed", "error", err)
			arb.resolve(verdict{reason: ReasonAbnormalExit})
		}
	case <-ctx.Done():
	}
}

// watchAnswer resolves the session once the user's answer lands in the
// answer channel. It subscribes to filesystem notifications on the session
// directory and polls as a fallback, with one immediate read to cover an
// answer written before the subscription existed.
func (c *Collector) watchAnswer(ctx context.Context, wg *sync.WaitGroup, arb *arbiter, path string, logger *slog.Logger) {
	defer wg.Done()

	var events chan fsnotify.Event
	var errs chan error

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("answer watcher unavailable, polling only", "error", err)
	} else {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			logger.Warn("failed to watch session directory", "error", err)
		} else {
			events = watcher.Events
			errs = watcher.Errors
		}
	}

	if c.checkAnswer(arb, path, logger) {
		return
	}

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if ev.Name != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if c.checkAnswer(arb, path, logger) {
				return
			}
		case err := <-errs:
			logger.Warn("answer watcher error", "error", err)
		case <-ticker.C:
			if c.checkAnswer(arb, path, logger) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// checkAnswer reads the answer channel once and reports whether the session
// resolved. An empty read keeps the watch alive; the coordinator initialized
// the file empty, so content only appears when the user submits.
func (c *Collector) checkAnswer(arb *arbiter, path string, logger *slog.Logger) bool {
	answer, err := session.ReadAnswer(path)
	if err != nil {
		logger.Warn("failed to read answer channel", "error", err)
		arb.resolve(verdict{reason: ReasonAnswerUnreadable})
		return true
	}
	if answer == "" {
		return false
	}
	arb.resolve(verdict{answer: answer, reason: ReasonAnswered})
	return true
}

// heartbeatState carries liveness facts between polls.
type heartbeatState struct {
	everSeen  bool
	lastFresh time.Time
}

// watchHeartbeat resolves the session empty when the prompt window dies or
// never appears. Liveness is judged purely by the heartbeat file's mtime;
// the window process itself is out of reach behind the emulator.
func (c *Collector) watchHeartbeat(ctx context.Context, wg *sync.WaitGroup, arb *arbiter, sess session.Session, logger *slog.Logger) {
	defer wg.Done()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	var hb heartbeatState
	for {
		select {
		case <-ticker.C:
			if c.checkHeartbeat(arb, sess, &hb, logger) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// checkHeartbeat runs one liveness inspection and reports whether the
// session resolved.
func (c *Collector) checkHeartbeat(arb *arbiter, sess session.Session, hb *heartbeatState, logger *slog.Logger) bool {
	mtime, err := session.StatHeartbeat(sess.HeartbeatFile())
	switch {
	case err == nil:
		if time.Since(mtime) <= c.cfg.StaleAfter {
			hb.everSeen = true
			hb.lastFresh = time.Now()
			return false
		}
		// The window existed but stopped updating.
		logger.Warn("prompt heartbeat went stale", "lastUpdate", mtime)
		arb.resolve(verdict{reason: ReasonHeartbeatLost})
		return true

	case errors.Is(err, session.ErrChannelMissing):
		if hb.everSeen {
			// Was alive, file is gone: the window died and tidied up, or
			// someone removed the channel. Either way it is not coming back.
			logger.Warn("prompt heartbeat disappeared", "lastFresh", hb.lastFresh)
			arb.resolve(verdict{reason: ReasonHeartbeatLost})
			return true
		}
		if time.Since(sess.CreatedAt) < c.cfg.Grace {
			// Still inside the startup grace window.
			return false
		}
		logger.Warn("prompt window never reported a heartbeat", "grace", c.cfg.Grace)
		arb.resolve(verdict{reason: ReasonHeartbeatMissing})
		return true

	default:
		logger.Warn("failed to inspect heartbeat channel", "error", err)
		arb.resolve(verdict{reason: ReasonHeartbeatLost})
		return true
	}
}
