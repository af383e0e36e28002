// Package input coordinates one-shot prompt sessions with the user. A
// session launches a detached terminal window running the prompt UI, then
// waits for the first of several competing outcomes: an answer, a dead or
// absent window, a failed launch, or a timeout. Whatever happens, the caller
// gets a string back; an empty string means no answer.
package input

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/hamidzr/interactive-mcp/internal/config"
	"github.com/hamidzr/interactive-mcp/internal/session"
	"github.com/hamidzr/interactive-mcp/internal/terminal"
)

// State is the lifecycle position of a prompt session.
type State int

const (
	// StateIdle is the zero state before a session begins.
	StateIdle State = iota
	// StateLaunching covers target resolution and process start.
	StateLaunching
	// StateArmed means the window is up and all triggers are live.
	StateArmed
	// StateResolved is terminal; the answer is fixed and triggers are dead.
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLaunching:
		return "launching"
	case StateArmed:
		return "armed"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Reason classifies how a session resolved. Exactly one reason applies per
// session; every reason except ReasonAnswered yields an empty answer.
type Reason string

const (
	ReasonAnswered         Reason = "answered"
	ReasonNoTerminal       Reason = "no_terminal_available"
	ReasonSpawnFailed      Reason = "spawn_failure"
	ReasonAbnormalExit     Reason = "abnormal_exit"
	ReasonAnswerUnreadable Reason = "answer_read_failure"
	ReasonHeartbeatLost    Reason = "heartbeat_lost"
	ReasonHeartbeatMissing Reason = "heartbeat_never_appeared"
	ReasonTimeout          Reason = "input_timeout"
	ReasonCanceled         Reason = "canceled"
)

// Request is one question for the user.
type Request struct {
	// Project labels the window and the prompt header.
	Project string
	// Prompt is the question text.
	Prompt string
	// Options are suggested answers the user can pick by number.
	Options []string
	// Timeout overrides the configured answer timeout when positive.
	Timeout time.Duration
	// ShowCountdown displays the remaining time inside the prompt.
	ShowCountdown bool
}

// verdict is the outcome a trigger proposes for its session.
type verdict struct {
	answer string
	reason Reason
}

// Collector runs prompt sessions. A single collector serves any number of
// concurrent sessions; each Collect call works in its own channel namespace
// under a fresh session id.
type Collector struct {
	cfg      config.InputConfig
	logger   *slog.Logger
	prompter string
	tempDir  string

	// Seams for tests. Production wiring is the real resolver and spawner.
	resolve func(title string, argv []string) (terminal.LaunchSpec, error)
	launch  func(terminal.LaunchSpec) (<-chan error, error)
}

// NewCollector returns a collector that runs prompterPath inside a terminal
// window for every request.
func NewCollector(cfg config.InputConfig, prompterPath string, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	resolver := terminal.NewResolver()
	return &Collector{
		cfg:      cfg,
		logger:   logger.With("component", "input"),
		prompter: prompterPath,
		tempDir:  os.TempDir(),
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

// Collect asks the user one question and returns the trimmed answer. It
// never fails: every error path degrades to an empty answer after channel
// cleanup. Resolution happens exactly once no matter how many triggers fire.
func (c *Collector) Collect(ctx context.Context, req Request) string {
	sess := session.New(c.tempDir)
	r := &run{
		sess:   sess,
		state:  StateIdle,
		logger: c.logger.With("sessionId", sess.ID),
	}

	// The janitor runs exactly once on every return path, after the trigger
	// set has been torn down.
	defer session.Cleanup(r.logger, sess.ChannelFiles()...)

	return c.collect(ctx, req, r)
}

func (c *Collector) collect(ctx context.Context, req Request, r *run) string {
	r.to(StateLaunching)

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.cfg.Timeout
	}
	title := req.Project
	if title == "" {
		title = "Input Request"
	}

	spec, err := c.resolve(title, []string{c.prompter, r.sess.ID, r.sess.Dir})
	if err != nil {
		r.logger.Warn("no launch target for prompt window", "error", err)
		return r.finish(verdict{reason: ReasonNoTerminal})
	}

	payload := session.PromptPayload{
		ProjectName:       req.Project,
		Prompt:            req.Prompt,
		Timeout:           int((timeout + time.Second - 1) / time.Second),
		ShowCountdown:     req.ShowCountdown,
		SessionID:         r.sess.ID,
		OutputFile:        r.sess.AnswerFile(),
		HeartbeatFile:     r.sess.HeartbeatFile(),
		PredefinedOptions: req.Options,
	}
	if err := session.WriteOptions(r.sess.OptionsFile(), payload); err != nil {
		r.logger.Warn("failed to write options channel", "error", err)
		return r.finish(verdict{reason: ReasonSpawnFailed})
	}

	exited, err := c.launch(spec)
	if err != nil {
		r.logger.Warn("failed to start terminal", "executable", spec.Executable, "error", err)
		return r.finish(verdict{reason: ReasonSpawnFailed})
	}

	// Reset the answer channel so leftover bytes from an earlier crash can
	// never fire the change watcher.
	if err := session.InitAnswer(r.sess.AnswerFile()); err != nil {
		r.logger.Warn("failed to initialize answer channel", "error", err)
		return r.finish(verdict{reason: ReasonSpawnFailed})
	}

	r.to(StateArmed)

	armedCtx, disarm := context.WithCancel(context.Background())
	defer disarm()
	arb := newArbiter(disarm)

	deadline := r.sess.CreatedAt.Add(timeout + c.cfg.TimeoutBuffer)

	var wg sync.WaitGroup
	wg.Add(4)
	go c.watchTimeout(armedCtx, &wg, arb, deadline)
	go c.watchExit(armedCtx, &wg, arb, exited, r.logger)
	go c.watchAnswer(armedCtx, &wg, arb, r.sess.AnswerFile(), r.logger)
	go c.watchHeartbeat(armedCtx, &wg, arb, r.sess, r.logger)

	var v verdict
	select {
	case v = <-arb.verdicts:
	case <-ctx.Done():
		// The caller gave up. If a trigger already won, its verdict stands.
		arb.resolve(verdict{reason: ReasonCanceled})
		v = <-arb.verdicts
	}

	// Every trigger must be dead before the janitor touches the channels.
	disarm()
	wg.Wait()

	return r.finish(v)
}

// run is the per-session state machine.
type run struct {
	sess   session.Session
	state  State
	logger *slog.Logger
}

func (r *run) to(next State) {
	r.logger.Debug("state transition", "from", r.state.String(), "to", next.String())
	r.state = next
}

func (r *run) finish(v verdict) string {
	r.to(StateResolved)
	if v.reason == ReasonAnswered {
		r.logger.Info("session resolved", "reason", v.reason, "answerLength", len(v.answer))
	} else {
		r.logger.Info("session resolved without answer", "reason", v.reason)
	}
	return v.answer
}

// arbiter is the single resolution point of an armed session. The first
// verdict wins and disarms the whole trigger set; later verdicts are no-ops.
type arbiter struct {
	mu       sync.Mutex
	resolved bool
	verdicts chan verdict
	disarm   context.CancelFunc
}

func newArbiter(disarm context.CancelFunc) *arbiter {
	return &arbiter{
		verdicts: make(chan verdict, 1),
		disarm:   disarm,
	}
}

// resolve submits a verdict and reports whether it won. The winning call
// cancels the armed context before returning, so no new trigger work starts
// after resolution.
func (a *arbiter) resolve(v verdict) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.resolved {
		return false
	}
	a.resolved = true
	a.verdicts <- v
	a.disarm()
	return true
}
