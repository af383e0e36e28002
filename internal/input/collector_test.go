package input

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/hamidzr/interactive-mcp/internal/config"
	"github.com/hamidzr/interactive-mcp/internal/session"
	"github.com/hamidzr/interactive-mcp/internal/terminal"
)

// testConfig shrinks the production timing so a full session fits in a
// second while keeping the same ordering between the knobs.
func testConfig() config.InputConfig {
	return config.InputConfig{
		Timeout:       600 * time.Millisecond,
		TimeoutBuffer: 300 * time.Millisecond,
		PollInterval:  25 * time.Millisecond,
		StaleAfter:    150 * time.Millisecond,
		Grace:         300 * time.Millisecond,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testCollector(t *testing.T, cfg config.InputConfig) *Collector {
	t.Helper()
	c := NewCollector(cfg, "/usr/bin/prompter", testLogger())
	c.tempDir = t.TempDir()
	return c
}

// captured records the session identity handed to the fake prompt window.
type captured struct {
	id    string
	dir   string
	title string
}

// stubUI replaces the resolver and spawner with a fake prompt window. The ui
// callback runs in its own goroutine, like the real detached process would.
func stubUI(c *Collector, ui func(id, dir string, exited chan<- error)) *captured {
	cs := &captured{}
	c.resolve = func(title string, argv []string) (terminal.LaunchSpec, error) {
		cs.title = title
		cs.id, cs.dir = argv[1], argv[2]
		return terminal.LaunchSpec{Executable: argv[0], Args: argv}, nil
	}
	c.launch = func(terminal.LaunchSpec) (<-chan error, error) {
		exited := make(chan error, 1)
		if ui != nil {
			go ui(cs.id, cs.dir, exited)
		}
		return exited, nil
	}
	return cs
}

// beatUntil refreshes the heartbeat channel every interval until done closes.
func beatUntil(path string, interval time.Duration, done <-chan struct{}) {
	_ = session.TouchHeartbeat(path)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = session.TouchHeartbeat(path)
		case <-done:
			return
		}
	}
}

func assertCleaned(t *testing.T, cs *captured) {
	t.Helper()
	files := []string{
		session.OptionsPath(cs.dir, cs.id),
		session.AnswerPath(cs.dir, cs.id),
		session.HeartbeatPath(cs.dir, cs.id),
	}
	for _, f := range files {
		if _, err := os.Stat(f); !os.IsNotExist(err) {
			t.Errorf("Expected channel file %s removed, stat err %v", f, err)
		}
	}
}

func TestCollectDeliversTrimmedAnswer(t *testing.T) {
	c := testCollector(t, testConfig())
	done := make(chan struct{})
	defer close(done)

	cs := stubUI(c, func(id, dir string, exited chan<- error) {
		go beatUntil(session.HeartbeatPath(dir, id), 25*time.Millisecond, done)
		time.Sleep(80 * time.Millisecond)
		_ = session.WriteAnswer(session.AnswerPath(dir, id), "  yes \n")
	})

	got := c.Collect(context.Background(), Request{Project: "demo", Prompt: "Continue?"})
	if got != "yes" {
		t.Errorf("Expected answer %q, got %q", "yes", got)
	}
	assertCleaned(t, cs)
}

func TestCollectWhitespaceAnswerKeepsWaiting(t *testing.T) {
	c := testCollector(t, testConfig())
	done := make(chan struct{})
	defer close(done)

	stubUI(c, func(id, dir string, exited chan<- error) {
		go beatUntil(session.HeartbeatPath(dir, id), 25*time.Millisecond, done)
		time.Sleep(60 * time.Millisecond)
		// Whitespace only must not resolve the session.
		_ = session.WriteAnswer(session.AnswerPath(dir, id), " \n\t")
		time.Sleep(120 * time.Millisecond)
		_ = session.WriteAnswer(session.AnswerPath(dir, id), "real answer")
	})

	got := c.Collect(context.Background(), Request{Project: "demo", Prompt: "Q"})
	if got != "real answer" {
		t.Errorf("Expected %q, got %q", "real answer", got)
	}
}

func TestCollectResolverFailure(t *testing.T) {
	c := testCollector(t, testConfig())
	launched := false
	c.resolve = func(string, []string) (terminal.LaunchSpec, error) {
		return terminal.LaunchSpec{}, terminal.ErrNoTerminal
	}
	c.launch = func(terminal.LaunchSpec) (<-chan error, error) {
		launched = true
		return nil, nil
	}

	start := time.Now()
	got := c.Collect(context.Background(), Request{Project: "demo", Prompt: "Q"})

	if got != "" {
		t.Errorf("Expected empty answer, got %q", got)
	}
	if launched {
		t.Error("Expected no launch after resolver failure")
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("Expected immediate resolution, took %v", elapsed)
	}

	// Cleanup ran even though no channel was ever created.
	entries, err := os.ReadDir(c.tempDir)
	if err != nil {
		t.Fatalf("Failed to read session dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty session dir, found %d entries", len(entries))
	}
}

func TestCollectSpawnFailure(t *testing.T) {
	c := testCollector(t, testConfig())
	cs := stubUI(c, nil)
	c.launch = func(terminal.LaunchSpec) (<-chan error, error) {
		return nil, errors.New("exec: not found")
	}

	got := c.Collect(context.Background(), Request{Project: "demo", Prompt: "Q"})
	if got != "" {
		t.Errorf("Expected empty answer, got %q", got)
	}
	// The options channel was written before the spawn attempt; the janitor
	// must still have removed it.
	assertCleaned(t, cs)
}

func TestCollectAbnormalExit(t *testing.T) {
	cfg := testConfig()
	c := testCollector(t, cfg)

	cs := stubUI(c, func(id, dir string, exited chan<- error) {
		time.Sleep(50 * time.Millisecond)
		exited <- errors.New("exit status 127")
	})

	start := time.Now()
	got := c.Collect(context.Background(), Request{Project: "demo", Prompt: "Q"})
	elapsed := time.Since(start)

	if got != "" {
		t.Errorf("Expected empty answer, got %q", got)
	}
	if elapsed >= cfg.Grace {
		t.Errorf("Expected exit trigger before the heartbeat grace %v, took %v", cfg.Grace, elapsed)
	}
	assertCleaned(t, cs)
}

func TestCollectCleanExitIsNotATrigger(t *testing.T) {
	c := testCollector(t, testConfig())
	done := make(chan struct{})
	defer close(done)

	stubUI(c, func(id, dir string, exited chan<- error) {
		// Emulators fork the window and return immediately.
		exited <- nil
		go beatUntil(session.HeartbeatPath(dir, id), 25*time.Millisecond, done)
		time.Sleep(150 * time.Millisecond)
		_ = session.WriteAnswer(session.AnswerPath(dir, id), "still here")
	})

	got := c.Collect(context.Background(), Request{Project: "demo", Prompt: "Q"})
	if got != "still here" {
		t.Errorf("Expected answer after clean launcher exit, got %q", got)
	}
}

func TestCollectHeartbeatNeverAppears(t *testing.T) {
	cfg := testConfig()
	c := testCollector(t, cfg)

	cs := stubUI(c, nil)

	start := time.Now()
	got := c.Collect(context.Background(), Request{Project: "demo", Prompt: "Q", Timeout: 2 * time.Second})
	elapsed := time.Since(start)

	if got != "" {
		t.Errorf("Expected empty answer, got %q", got)
	}
	if elapsed < cfg.Grace-20*time.Millisecond {
		t.Errorf("Expected resolution after grace %v, took %v", cfg.Grace, elapsed)
	}
	if elapsed > cfg.Grace+300*time.Millisecond {
		t.Errorf("Expected resolution shortly after grace %v, took %v", cfg.Grace, elapsed)
	}
	assertCleaned(t, cs)
}

func TestCollectHeartbeatLost(t *testing.T) {
	cfg := testConfig()
	c := testCollector(t, cfg)

	beatFor := 150 * time.Millisecond
	stubUI(c, func(id, dir string, exited chan<- error) {
		stop := make(chan struct{})
		go beatUntil(session.HeartbeatPath(dir, id), 25*time.Millisecond, stop)
		time.Sleep(beatFor)
		close(stop)
	})

	start := time.Now()
	got := c.Collect(context.Background(), Request{Project: "demo", Prompt: "Q", Timeout: 2 * time.Second})
	elapsed := time.Since(start)

	if got != "" {
		t.Errorf("Expected empty answer, got %q", got)
	}
	if elapsed < beatFor+cfg.StaleAfter-50*time.Millisecond {
		t.Errorf("Expected resolution only after staleness window, took %v", elapsed)
	}
	if elapsed > beatFor+cfg.StaleAfter+300*time.Millisecond {
		t.Errorf("Expected resolution shortly after staleness window, took %v", elapsed)
	}
}

func TestCollectTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 300 * time.Millisecond
	c := testCollector(t, cfg)
	done := make(chan struct{})
	defer close(done)

	stubUI(c, func(id, dir string, exited chan<- error) {
		// Alive forever, never answers.
		go beatUntil(session.HeartbeatPath(dir, id), 25*time.Millisecond, done)
	})

	start := time.Now()
	got := c.Collect(context.Background(), Request{Project: "demo", Prompt: "Q"})
	elapsed := time.Since(start)

	if got != "" {
		t.Errorf("Expected empty answer, got %q", got)
	}
	want := cfg.Timeout + cfg.TimeoutBuffer
	if elapsed < want-20*time.Millisecond {
		t.Errorf("Expected resolution no earlier than %v, took %v", want, elapsed)
	}
	if elapsed > want+350*time.Millisecond {
		t.Errorf("Expected resolution around %v, took %v", want, elapsed)
	}
}

func TestCollectRequestTimeoutOverride(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 10 * time.Second
	c := testCollector(t, cfg)
	done := make(chan struct{})
	defer close(done)

	stubUI(c, func(id, dir string, exited chan<- error) {
		go beatUntil(session.HeartbeatPath(dir, id), 25*time.Millisecond, done)
	})

	start := time.Now()
	got := c.Collect(context.Background(), Request{Project: "demo", Prompt: "Q", Timeout: 150 * time.Millisecond})
	elapsed := time.Since(start)

	if got != "" {
		t.Errorf("Expected empty answer, got %q", got)
	}
	if elapsed > time.Second {
		t.Errorf("Expected per-request timeout to apply, took %v", elapsed)
	}
}

func TestCollectContextCanceled(t *testing.T) {
	c := testCollector(t, testConfig())
	done := make(chan struct{})
	defer close(done)

	cs := stubUI(c, func(id, dir string, exited chan<- error) {
		go beatUntil(session.HeartbeatPath(dir, id), 25*time.Millisecond, done)
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	got := c.Collect(ctx, Request{Project: "demo", Prompt: "Q", Timeout: 5 * time.Second})

	if got != "" {
		t.Errorf("Expected empty answer on cancellation, got %q", got)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Expected prompt cancellation, took %v", elapsed)
	}
	assertCleaned(t, cs)
}

func TestCollectAnswerChannelUnreadable(t *testing.T) {
	c := testCollector(t, testConfig())
	done := make(chan struct{})
	defer close(done)

	stubUI(c, func(id, dir string, exited chan<- error) {
		go beatUntil(session.HeartbeatPath(dir, id), 25*time.Millisecond, done)
		time.Sleep(80 * time.Millisecond)
		// Turn the answer channel into something unreadable.
		answer := session.AnswerPath(dir, id)
		_ = os.Remove(answer)
		_ = os.Mkdir(answer, 0o700)
	})

	start := time.Now()
	got := c.Collect(context.Background(), Request{Project: "demo", Prompt: "Q", Timeout: 2 * time.Second})

	if got != "" {
		t.Errorf("Expected empty answer, got %q", got)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Expected read failure to resolve promptly, took %v", elapsed)
	}
}

func TestCollectSimultaneousTriggers(t *testing.T) {
	c := testCollector(t, testConfig())

	stubUI(c, func(id, dir string, exited chan<- error) {
		time.Sleep(60 * time.Millisecond)
		// Fire an answer and a process failure at the same instant.
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = session.WriteAnswer(session.AnswerPath(dir, id), "racer")
		}()
		go func() {
			defer wg.Done()
			exited <- errors.New("exit status 1")
		}()
		wg.Wait()
	})

	got := c.Collect(context.Background(), Request{Project: "demo", Prompt: "Q"})
	if got != "" && got != "racer" {
		t.Errorf("Expected a single coherent outcome, got %q", got)
	}
}

func TestCollectWritesOptionsBeforeLaunch(t *testing.T) {
	cfg := testConfig()
	c := testCollector(t, cfg)

	var payload session.PromptPayload
	cs := stubUI(c, nil)
	baseLaunch := c.launch
	c.launch = func(spec terminal.LaunchSpec) (<-chan error, error) {
		// The options channel must be complete before the process starts.
		var err error
		payload, err = session.ReadOptions(session.OptionsPath(cs.dir, cs.id))
		if err != nil {
			t.Errorf("Expected readable options at launch time: %v", err)
		}
		return baseLaunch(spec)
	}

	req := Request{
		Project:       "demo",
		Prompt:        "Pick one",
		Options:       []string{"a", "b"},
		Timeout:       90 * time.Second,
		ShowCountdown: true,
	}
	c.Collect(context.Background(), req)

	if payload.SessionID != cs.id {
		t.Errorf("Expected sessionId %s, got %s", cs.id, payload.SessionID)
	}
	if payload.OutputFile != session.AnswerPath(cs.dir, cs.id) {
		t.Errorf("Expected outputFile %s, got %s", session.AnswerPath(cs.dir, cs.id), payload.OutputFile)
	}
	if payload.HeartbeatFile != session.HeartbeatPath(cs.dir, cs.id) {
		t.Errorf("Expected heartbeatFile %s, got %s", session.HeartbeatPath(cs.dir, cs.id), payload.HeartbeatFile)
	}
	if payload.Timeout != 90 {
		t.Errorf("Expected timeout 90 seconds, got %d", payload.Timeout)
	}
	if !payload.ShowCountdown {
		t.Error("Expected showCountdown true")
	}
	if payload.ProjectName != "demo" || payload.Prompt != "Pick one" {
		t.Errorf("Expected prompt fields, got %+v", payload)
	}
	if len(payload.PredefinedOptions) != 2 {
		t.Errorf("Expected 2 predefined options, got %d", len(payload.PredefinedOptions))
	}
	if cs.title != "demo" {
		t.Errorf("Expected window title demo, got %s", cs.title)
	}
}

func TestArbiterExactlyOnce(t *testing.T) {
	_, disarm := context.WithCancel(context.Background())
	arb := newArbiter(disarm)

	const racers = 32
	var wins int
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func(i int) {
			defer wg.Done()
			if arb.resolve(verdict{answer: fmt.Sprintf("racer-%d", i), reason: ReasonAnswered}) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("Expected exactly one winning resolution, got %d", wins)
	}

	select {
	case v := <-arb.verdicts:
		if v.answer == "" {
			t.Error("Expected the winning verdict to carry its answer")
		}
	default:
		t.Error("Expected exactly one verdict in the channel")
	}

	select {
	case v := <-arb.verdicts:
		t.Errorf("Expected no second verdict, got %+v", v)
	default:
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateLaunching, "launching"},
		{StateArmed, "armed"},
		{StateResolved, "resolved"},
		{State(99), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			if got := test.state.String(); got != test.want {
				t.Errorf("Expected %s, got %s", test.want, got)
			}
		})
	}
}
