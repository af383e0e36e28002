package prompter

import (
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/hamidzr/interactive-mcp/internal/session"
)

// startHeartbeat touches the liveness file immediately and then on every
// interval until the returned stop function runs. Stop removes the file so
// the coordinator sees the window is gone without waiting for staleness.
func (p *Prompter) startHeartbeat(path string) func() {
	if err := session.TouchHeartbeat(path); err != nil {
		p.logger.Warn("heartbeat write failed", "path", path, "error", err)
	}

	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		ticker := time.NewTicker(p.heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := session.TouchHeartbeat(path); err != nil {
					p.logger.Warn("heartbeat write failed", "path", path, "error", err)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-finished
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				p.logger.Warn("heartbeat remove failed", "path", path, "error", err)
			}
		})
	}
}
