package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hamidzr/interactive-mcp/internal/chat"
	"github.com/hamidzr/interactive-mcp/internal/config"
	"github.com/hamidzr/interactive-mcp/internal/coordinator"
	"github.com/hamidzr/interactive-mcp/internal/input"
	"github.com/hamidzr/interactive-mcp/internal/notify"
)

const (
	serverName    = "interactive-mcp"
	serverVersion = "0.1.0"

	timeoutEnv  = "INTERACTIVE_MCP_TIMEOUT"
	prompterEnv = "INTERACTIVE_MCP_PROMPTER"
	httpPortEnv = "HTTP_PORT"

	defaultHTTPPort = "8080"
	prompterBinary  = "prompter"
)

var (
	version      = flag.Bool("version", false, "Print version and exit")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	httpMode     = flag.Bool("http", false, "Enable HTTP/SSE transport instead of stdio")
	timeoutFlag  = flag.Int("timeout", 0, "Seconds to wait for each user answer (0 uses "+timeoutEnv+" or the default)")
	disableTools = flag.String("disable-tools", "", "Comma-separated tool names to leave unregistered")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", serverName, serverVersion)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}

	// stdout carries the MCP transport, so every log line goes to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	timeout := resolveTimeout(*timeoutFlag, logger)
	prompterPath := resolvePrompterPath()
	disabled := splitToolList(*disableTools)
	for _, name := range disabled {
		if !knownTool(name) {
			logger.Warn("Unknown tool in -disable-tools", "tool", name)
		}
	}

	logger.Info("Starting interactive-mcp server",
		"version", serverVersion,
		"debug", *debug,
		"http_mode", *httpMode,
		"timeout", timeout.String(),
		"prompter", prompterPath,
		"disabled_tools", disabled,
	)

	inputCfg := config.DefaultInputConfig()
	inputCfg.Timeout = timeout
	chatCfg := config.DefaultChatConfig()
	chatCfg.QuestionTimeout = timeout

	collector := input.NewCollector(inputCfg, prompterPath, logger)
	chats := chat.NewManager(chatCfg, prompterPath, logger)
	notifier := notify.NewNotifier(logger)
	auditLogger := coordinator.NewAuditLogger(logger)

	cfg := coordinator.Config{
		Name:          serverName,
		Version:       serverVersion,
		DisabledTools: disabled,
	}
	mcpServer := coordinator.NewMCPServer(cfg, collector, chats, notifier, auditLogger)

	logger.Info("MCP Server initialized",
		"name", cfg.Name,
		"version", cfg.Version,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Serve MCP in a goroutine so the main goroutine owns shutdown.
	go func() {
		if *httpMode {
			httpPort := getEnv(httpPortEnv, defaultHTTPPort)
			if err := mcpServer.ServeHTTPWithLogger(":"+httpPort, logger); err != nil {
				logger.Error("MCP server error", "error", err)
				cancel()
			}
		} else {
			if err := mcpServer.ServeWithLogger(logger); err != nil {
				logger.Error("MCP server error", "error", err)
				cancel()
			}
		}
	}()

	// Reclaim chat sessions whose windows died without a close handshake.
	go func() {
		ticker := time.NewTicker(config.DefaultChatSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if reclaimed := chats.CleanupStale(); reclaimed > 0 {
					logger.Info("Cleaned up stale chat sessions", "count", reclaimed)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	select {
	case <-sigChan:
		logger.Info("Received shutdown signal")
	case <-ctx.Done():
		logger.Info("Context canceled")
	}

	logger.Info("Shutting down gracefully")
	cancel()

	// Close every open chat window so no orphaned terminal lingers.
	chats.StopAll()

	logger.Info("Server shutdown complete")
}

// resolveTimeout picks the per-answer timeout: flag first, then the
// environment override, then the built-in default.
func resolveTimeout(flagSeconds int, logger *slog.Logger) time.Duration {
	if flagSeconds > 0 {
		return time.Duration(flagSeconds) * time.Second
	}
	if raw := os.Getenv(timeoutEnv); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
		logger.Warn("Ignoring invalid timeout override", "env", timeoutEnv, "value", raw)
	}
	return config.DefaultInputTimeout
}

// resolvePrompterPath locates the prompt window binary: environment override
// first, then a sibling of this executable, then a bare PATH lookup.
func resolvePrompterPath() string {
	if path := os.Getenv(prompterEnv); path != "" {
		return path
	}
	if exe, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exe), prompterBinary)
		if _, err := os.Stat(sibling); err == nil {
			return sibling
		}
	}
	return prompterBinary
}

func splitToolList(raw string) []string {
	if raw == "" {
		return nil
	}
	var tools []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			tools = append(tools, name)
		}
	}
	return tools
}

func knownTool(name string) bool {
	for _, tool := range config.AllTools() {
		if tool == name {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
