// Package terminal picks and launches a terminal emulator window to host the
// prompt UI.
package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// EnvTerminal names the user's preferred terminal executable. A value set
// here wins over platform detection and is trusted without a PATH probe;
// a bogus value surfaces as a launch failure instead.
const EnvTerminal = "INTERACTIVE_MCP_TERMINAL"

// ErrNoTerminal reports that no terminal emulator is available for the
// current platform.
var ErrNoTerminal = errors.New("no terminal emulator available")

// linuxTerminals is the PATH probe order, GPU-accelerated emulators first
// and xterm as the fallback of last resort.
var linuxTerminals = []string{"kitty", "alacritty", "gnome-terminal", "konsole", "xfce4-terminal", "xterm"}

// LaunchSpec describes how to start the prompt window.
type LaunchSpec struct {
	// Executable is the program to start, or a full shell command line when
	// UseShellInterpreter is set.
	Executable string
	// Args are passed to Executable.
	Args []string
	// UseShellInterpreter runs Executable through a shell instead of as a
	// direct argv. The macOS window automation string needs shell parsing.
	UseShellInterpreter bool
}

// Resolver decides which terminal emulator hosts the prompt window. The
// function fields exist so tests can substitute platform state.
type Resolver struct {
	GOOS     string
	Getenv   func(string) string
	LookPath func(string) (string, error)
}

// NewResolver returns a resolver bound to the real platform.
func NewResolver() *Resolver {
	return &Resolver{
		GOOS:     runtime.GOOS,
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
	}
}

// Resolve picks a terminal for the current platform and returns the spec
// that runs argv inside a new window. title labels the window where the
// emulator supports it.
func (r *Resolver) Resolve(title string, argv []string) (LaunchSpec, error) {
	if preferred := r.Getenv(EnvTerminal); preferred != "" {
		return r.resolvePreferred(preferred, title, argv)
	}

	switch r.GOOS {
	case "darwin":
		return appleTerminalSpec(argv), nil
	case "linux":
		return r.probeLinux(title, argv)
	case "windows":
		return windowsSpec(title, argv), nil
	default:
		return LaunchSpec{}, fmt.Errorf("%w on %s", ErrNoTerminal, r.GOOS)
	}
}

// resolvePreferred maps the user's stated terminal onto a launch template.
// Matching is on the lowercased base name with any .exe suffix stripped, so
// absolute paths and Windows spellings behave the same.
func (r *Resolver) resolvePreferred(preferred, title string, argv []string) (LaunchSpec, error) {
	base := strings.TrimSuffix(strings.ToLower(filepath.Base(preferred)), ".exe")

	if base == "terminal" || base == "terminal.app" {
		if r.GOOS != "darwin" {
			return LaunchSpec{}, fmt.Errorf("%w: Apple Terminal requested on %s", ErrNoTerminal, r.GOOS)
		}
		return appleTerminalSpec(argv), nil
	}

	return LaunchSpec{Executable: preferred, Args: emulatorArgs(base, title, argv)}, nil
}

func (r *Resolver) probeLinux(title string, argv []string) (LaunchSpec, error) {
	for _, name := range linuxTerminals {
		path, err := r.LookPath(name)
		if err != nil {
			continue
		}
		return LaunchSpec{Executable: path, Args: emulatorArgs(name, title, argv)}, nil
	}
	return LaunchSpec{}, fmt.Errorf("%w: no known emulator on PATH", ErrNoTerminal)
}

// emulatorArgs builds the argument template for an emulator. kitty takes a
// window title and an explicit argv terminator; everything else gets the
// conventional -e form.
func emulatorArgs(base, title string, argv []string) []string {
	if base == "kitty" {
		return append([]string{"--title", title, "--"}, argv...)
	}
	return append([]string{"-e"}, argv...)
}

// appleTerminalSpec scripts Terminal.app into running the command in a new
// window and bringing itself to the front.
func appleTerminalSpec(argv []string) LaunchSpec {
	inner := escapeAppleScript(shellJoin(argv))
	script := fmt.Sprintf(
		`osascript -e 'tell application "Terminal" to do script "%s"' -e 'tell application "Terminal" to activate'`,
		inner,
	)
	return LaunchSpec{Executable: script, UseShellInterpreter: true}
}

// windowsSpec opens a new console window through cmd's start builtin, which
// treats its first argument as the window title.
func windowsSpec(title string, argv []string) LaunchSpec {
	return LaunchSpec{Executable: "cmd", Args: append([]string{"/c", "start", title}, argv...)}
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// shellQuote makes a single token safe for the shell. Double quotes are used
// rather than single quotes so the result can sit inside the single-quoted
// osascript arguments.
func shellQuote(s string) string {
	if s != "" && shellSafe.MatchString(s) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\', '$', '`':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func shellJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = shellQuote(a)
	}
	return strings.Join(quoted, " ")
}

// escapeAppleScript escapes a string for inclusion in an AppleScript
// double-quoted literal. Backslashes first, then quotes.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
