package terminal

import (
	"fmt"
	"os/exec"
)

// Handle observes a launched terminal process. It exposes exit observation
// only; the process cannot be signaled or killed through it. Once the window
// is open it belongs to the user.
type Handle struct {
	done chan error
}

// Exited returns a channel that receives the process outcome exactly once:
// nil for a clean exit, an error for a non-zero exit or a wait failure.
func (h *Handle) Exited() <-chan error {
	return h.done
}

// Launch starts the resolved terminal fully detached. None of the child's
// stdio is connected to this process, so the prompt window can never write
// into the MCP transport.
func Launch(spec LaunchSpec) (*Handle, error) {
	var cmd *exec.Cmd
	if spec.UseShellInterpreter {
		cmd = exec.Command("/bin/sh", "-c", spec.Executable)
	} else {
		cmd = exec.Command(spec.Executable, spec.Args...)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start terminal %s: %w", spec.Executable, err)
	}

	h := &Handle{done: make(chan error, 1)}
	go func() {
		// Sole Wait caller; reaps the child and reports its outcome.
		h.done <- cmd.Wait()
	}()
	return h, nil
}
