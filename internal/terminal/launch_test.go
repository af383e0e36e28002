package terminal

import (
	"runtime"
	"testing"
	"time"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("launch tests need a POSIX shell")
	}
}

func waitExit(t *testing.T, h *Handle) error {
	t.Helper()
	select {
	case err := <-h.Exited():
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for process exit")
		return nil
	}
}

func TestLaunchCleanExit(t *testing.T) {
	requireUnix(t)

	h, err := Launch(LaunchSpec{Executable: "sh", Args: []string{"-c", "exit 0"}})
	if err != nil {
		t.Fatalf("Failed to launch: %v", err)
	}

	if err := waitExit(t, h); err != nil {
		t.Errorf("Expected clean exit, got %v", err)
	}
}

func TestLaunchNonZeroExit(t *testing.T) {
	requireUnix(t)

	h, err := Launch(LaunchSpec{Executable: "sh", Args: []string{"-c", "exit 3"}})
	if err != nil {
		t.Fatalf("Failed to launch: %v", err)
	}

	if err := waitExit(t, h); err == nil {
		t.Error("Expected non-zero exit to surface as an error")
	}
}

func TestLaunchShellInterpreter(t *testing.T) {
	requireUnix(t)

	h, err := Launch(LaunchSpec{Executable: "true", UseShellInterpreter: true})
	if err != nil {
		t.Fatalf("Failed to launch: %v", err)
	}

	if err := waitExit(t, h); err != nil {
		t.Errorf("Expected clean exit, got %v", err)
	}
}

func TestLaunchStartFailure(t *testing.T) {
	_, err := Launch(LaunchSpec{Executable: "/nonexistent/not-a-terminal"})
	if err == nil {
		t.Fatal("Expected start failure for missing executable")
	}
}
