// Package notify delivers desktop notifications when the agent finishes a
// task or needs attention.
package notify

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Notifier sends notifications through the platform notifier command.
// Delivery is best-effort: failures are logged and absorbed.
type Notifier struct {
	goos   string
	logger *slog.Logger
	run    func(name string, args ...string) error
}

// NewNotifier returns a notifier bound to the current platform.
func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		goos:   runtime.GOOS,
		logger: logger.With("component", "notify"),
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Send shows one notification. It never fails; platforms without a known
// notifier get a debug log instead.
func (n *Notifier) Send(title, message string) {
	name, args, ok := notifyCommand(n.goos, title, message)
	if !ok {
		n.logger.Debug("no notifier on this platform", "goos", n.goos)
		return
	}
	if err := n.run(name, args...); err != nil {
		n.logger.Warn("failed to deliver notification", "notifier", name, "error", err)
	}
}

// notifyCommand maps a platform to its notification command line.
func notifyCommand(goos, title, message string) (string, []string, bool) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", message, title)
		return "osascript", []string{"-e", script}, true
	case "linux":
		return "notify-send", []string{title, message}, true
	default:
		return "", nil, false
	}
}
