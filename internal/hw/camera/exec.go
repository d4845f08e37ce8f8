package camera

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/catnap-watch/catnap/internal/debug"
)

// runCapture executes a capture command expected to write a JPEG to outPath
// and returns the file contents. The temp file is always cleaned up.
// Command failures and missing output both map to ErrDeviceUnavailable so
// the watch loop treats them as transient.
func runCapture(ctx context.Context, timeout time.Duration, name string, args []string, outPath string) ([]byte, error) {
	defer os.Remove(outPath)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	debug.Command(name, args)
	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v (%s)", ErrDeviceUnavailable, name, err, firstLine(out))
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s produced no output file: %v", ErrDeviceUnavailable, name, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s wrote an empty file", ErrDeviceUnavailable, name)
	}
	return data, nil
}

// tempJPEG reserves a temp file path for a capture command to write to.
func tempJPEG() (string, error) {
	f, err := os.CreateTemp("", "catnap-*.jpg")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

func firstLine(out []byte) string {
	for i, b := range out {
		if b == '\n' {
			return string(out[:i])
		}
	}
	return string(out)
}
