// The prompter binary is launched by the coordinator inside a fresh terminal
// window. It receives exactly two positional arguments, the session id and
// the channel directory, and learns everything else from the options file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hamidzr/interactive-mcp/internal/prompter"
)

const (
	prompterVersion = "0.1.0"

	logEnv = "INTERACTIVE_MCP_PROMPTER_LOG"
)

var version = flag.Bool("version", false, "Print version and exit")

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("interactive-mcp prompter v%s\n", prompterVersion)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: prompter <session-id> <directory>")
		os.Exit(2)
	}
	sessionID, dir := args[0], args[1]

	// The terminal belongs to the prompt UI, so logs go to a file or nowhere.
	logger, closeLog := newLogger()

	if err := prompter.New(logger).Run(sessionID, dir); err != nil {
		switch {
		case errors.Is(err, prompter.ErrExpired):
			logger.Info("prompt expired without an answer", "sessionId", sessionID)
		case errors.Is(err, prompter.ErrCanceled):
			logger.Info("prompt canceled by user", "sessionId", sessionID)
		default:
			logger.Error("prompt failed", "sessionId", sessionID, "error", err)
		}
		closeLog()
		os.Exit(1)
	}
	closeLog()
}

// newLogger writes to the file named by INTERACTIVE_MCP_PROMPTER_LOG, or
// discards everything when the variable is unset or the file cannot open.
func newLogger() (*slog.Logger, func()) {
	path := os.Getenv(logEnv)
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	return slog.New(slog.NewJSONHandler(f, nil)), func() { _ = f.Close() }
}
