package coordinator

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/hamidzr/interactive-mcp/internal/chat"
	"github.com/hamidzr/interactive-mcp/internal/config"
	"github.com/hamidzr/interactive-mcp/internal/input"
)

// fakeCollector returns a canned answer and records the request it was given.
type fakeCollector struct {
	answer  string
	calls   int
	lastReq input.Request
}

func (f *fakeCollector) Collect(ctx context.Context, req input.Request) string {
	f.calls++
	f.lastReq = req
	return f.answer
}

// fakeChats is a scripted ChatManager.
type fakeChats struct {
	session  *chat.Session
	startErr error
	answer   string
	askErr   error
	stopErr  error

	started []string
	asked   []string
	stopped []string
}

func (f *fakeChats) Start(ctx context.Context, title string) (*chat.Session, error) {
	f.started = append(f.started, title)
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.session, nil
}

func (f *fakeChats) Ask(ctx context.Context, id, question string, options []string) (string, error) {
	f.asked = append(f.asked, question)
	return f.answer, f.askErr
}

func (f *fakeChats) Stop(id string) error {
	f.stopped = append(f.stopped, id)
	return f.stopErr
}

// fakeNotifier records deliveries.
type fakeNotifier struct {
	titles   []string
	messages []string
}

func (f *fakeNotifier) Send(title, message string) {
	f.titles = append(f.titles, title)
	f.messages = append(f.messages, message)
}

type testDeps struct {
	collector *fakeCollector
	chats     *fakeChats
	notifier  *fakeNotifier
}

// Helper to create a test MCPServer
func createTestMCPServer(t *testing.T, cfg Config) (*MCPServer, *testDeps) {
	t.Helper()

	deps := &testDeps{
		collector: &fakeCollector{},
		chats:     &fakeChats{},
		notifier:  &fakeNotifier{},
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	audit := NewAuditLogger(logger)

	server := NewMCPServer(cfg, deps.collector, deps.chats, deps.notifier, audit)
	return server, deps
}

func defaultTestConfig() Config {
	return Config{
		Name:    "test-server",
		Version: "1.0.0",
	}
}

func TestNewMCPServer(t *testing.T) {
	server, _ := createTestMCPServer(t, defaultTestConfig())

	if server == nil {
		t.Fatal("Expected non-nil MCPServer")
	}

	// Verify all components are properly initialized
	if server.server == nil {
		t.Error("Expected non-nil underlying server")
	}

	if server.collector == nil {
		t.Error("Expected non-nil collector")
	}

	if server.chats == nil {
		t.Error("Expected non-nil chat manager")
	}

	if server.notifier == nil {
		t.Error("Expected non-nil notifier")
	}

	if server.audit == nil {
		t.Error("Expected non-nil audit logger")
	}
}

func TestNewMCPServerDefaultsAuditLogger(t *testing.T) {
	deps := &testDeps{
		collector: &fakeCollector{},
		chats:     &fakeChats{},
		notifier:  &fakeNotifier{},
	}

	server := NewMCPServer(defaultTestConfig(), deps.collector, deps.chats, deps.notifier, nil)

	if server.audit == nil {
		t.Error("Expected audit logger to default when nil is passed")
	}
}

func TestServer(t *testing.T) {
	server, _ := createTestMCPServer(t, defaultTestConfig())

	underlyingServer := server.Server()
	if underlyingServer == nil {
		t.Error("Expected non-nil underlying server")
	}

	if underlyingServer != server.server {
		t.Error("Expected returned server to match internal server")
	}
}

// listTools drives the underlying server through a raw tools/list request and
// returns the response serialized back to JSON.
func listTools(t *testing.T, server *MCPServer) string {
	t.Helper()

	request := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	response := server.server.HandleMessage(context.Background(), json.RawMessage(request))
	if response == nil {
		t.Fatal("Expected a tools/list response, got nil")
	}

	raw, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("Failed to marshal tools/list response: %v", err)
	}
	return string(raw)
}

func TestRegisterTools(t *testing.T) {
	server, _ := createTestMCPServer(t, defaultTestConfig())

	listing := listTools(t, server)

	for _, toolName := range config.AllTools() {
		if !strings.Contains(listing, toolName) {
			t.Errorf("Expected tool %s to be registered, listing: %s", toolName, listing)
		}
	}
}

func TestRegisterToolsDisabled(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.DisabledTools = []string{config.ToolStartIntensiveChat, config.ToolAskIntensiveChat, config.ToolStopIntensiveChat}

	server, _ := createTestMCPServer(t, cfg)

	listing := listTools(t, server)

	for _, toolName := range cfg.DisabledTools {
		if strings.Contains(listing, toolName) {
			t.Errorf("Expected tool %s to be disabled, listing: %s", toolName, listing)
		}
	}

	// The rest of the surface stays registered
	for _, toolName := range []string{config.ToolRequestUserInput, config.ToolMessageComplete} {
		if !strings.Contains(listing, toolName) {
			t.Errorf("Expected tool %s to remain registered, listing: %s", toolName, listing)
		}
	}
}
