package prompter

import (
	"fmt"
	"os"
	"time"

	"github.com/hamidzr/interactive-mcp/internal/session"
)

// runChat keeps the window open across questions until the close sentinel
// appears. Questions are consumed strictly in index order; an expired
// question stays unanswered and the window waits for the next one.
func (p *Prompter) runChat(id, dir string, opts session.ChatOptions) error {
	heartbeat := opts.HeartbeatFile
	if heartbeat == "" {
		heartbeat = session.ChatHeartbeatPath(dir, id)
	}
	stop := p.startHeartbeat(heartbeat)
	defer stop()

	title := opts.Title
	if title == "" {
		title = "Intensive Chat"
	}

	p.logger.Info("chat window open", "chatId", id, "title", title)

	for n := 1; ; n++ {
		q, err := p.awaitQuestion(dir, id, n)
		if err != nil {
			return err
		}
		if q == nil {
			p.logger.Info("chat window closing", "chatId", id, "questionsSeen", n-1)
			return nil
		}

		model := NewModel(title, q.Question, q.PredefinedOptions, opts.Timeout, opts.ShowCountdown)
		final, err := p.runProgram(model)
		if err != nil {
			return fmt.Errorf("prompt window: %w", err)
		}

		m := final.(*Model)
		switch {
		case m.Submitted():
			if err := session.WriteAnswer(q.OutputFile, m.Answer()); err != nil {
				return err
			}
		case m.Canceled():
			return ErrCanceled
		}
	}
}

// awaitQuestion blocks until the next question file or the close sentinel
// appears. A nil question means the session is over, either through the
// sentinel or because the coordinator already reclaimed the channels.
func (p *Prompter) awaitQuestion(dir, id string, n int) (*session.ChatQuestion, error) {
	questionPath := session.ChatQuestionPath(dir, id, n)
	closePath := session.ChatClosePath(dir, id)
	optionsPath := session.ChatOptionsPath(dir, id)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		if _, err := os.Stat(closePath); err == nil {
			return nil, nil
		}
		if _, err := os.Stat(optionsPath); err != nil {
			return nil, nil
		}
		if _, err := os.Stat(questionPath); err == nil {
			q, err := session.ReadQuestion(questionPath)
			if err != nil {
				// A decode failure here is usually a write still in flight;
				// the next tick gets the settled file.
				p.logger.Warn("unreadable question channel", "path", questionPath, "error", err)
			} else {
				return &q, nil
			}
		}
		<-ticker.C
	}
}
