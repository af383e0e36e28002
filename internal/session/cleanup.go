package session

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
)

// Cleanup removes channel files best-effort. Each deletion is independent, a
// file that is already gone counts as success, and failures are logged rather
// than returned. Teardown can never fail a session, and running it twice is
// harmless.
func Cleanup(logger *slog.Logger, files ...string) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, path := range files {
		err := os.Remove(path)
		switch {
		case err == nil:
		case errors.Is(err, fs.ErrNotExist):
		default:
			logger.Warn("failed to remove channel file", "path", path, "error", err)
		}
	}
}
