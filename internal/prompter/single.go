package prompter

import (
	"fmt"

	"github.com/hamidzr/interactive-mcp/internal/session"
)

// runSingle asks the one question described by the options payload. The
// heartbeat lives exactly as long as the window; removing it on the way out
// tells the coordinator this window is gone on purpose.
func (p *Prompter) runSingle(payload session.PromptPayload) error {
	stop := p.startHeartbeat(payload.HeartbeatFile)
	defer stop()

	title := payload.ProjectName
	if title == "" {
		title = "Input Request"
	}

	model := NewModel(title, payload.Prompt, payload.PredefinedOptions, payload.Timeout, payload.ShowCountdown)
	final, err := p.runProgram(model)
	if err != nil {
		return fmt.Errorf("prompt window: %w", err)
	}

	m := final.(*Model)
	switch {
	case m.Submitted():
		p.logger.Info("answer submitted", "sessionId", payload.SessionID, "answerLength", len(m.Answer()))
		return session.WriteAnswer(payload.OutputFile, m.Answer())
	case m.Expired():
		p.logger.Info("prompt expired without answer", "sessionId", payload.SessionID)
		return ErrExpired
	default:
		p.logger.Info("prompt canceled by user", "sessionId", payload.SessionID)
		return ErrCanceled
	}
}
