package camera

import (
	"context"
	"errors"
	"time"

	"github.com/catnap-watch/catnap/internal/frame"
)

// ErrDeviceUnavailable means the camera hardware could not produce a frame.
// This is transient: the watch loop logs it and retries on the next tick.
var ErrDeviceUnavailable = errors.New("camera device unavailable")

// Camera is the high-level interface used by the rest of the application.
// It represents an abstract camera, regardless of how frames are produced
// (capture command, V4L2 device, mock).
//
// Two-stage capture: Detect returns a cheap low-resolution grayscale frame
// for change detection; Still returns the full-resolution JPEG that becomes
// the stored photo and email attachment.
type Camera interface {
	Detect(ctx context.Context) (*frame.Frame, error)
	Still(ctx context.Context) ([]byte, error)
	Close() error
}

// Options configure the command-based camera implementations.
type Options struct {
	Command      string        // capture binary; empty uses the implementation default
	Device       string        // V4L2 device path (usb_command only)
	DetectWidth  int           // detection frame width
	DetectHeight int           // detection frame height
	PhotoWidth   int           // still photo width
	PhotoHeight  int           // still photo height
	Quality      int           // JPEG quality 1-100
	Warmup       time.Duration // sensor warmup before the first capture
	Timeout      time.Duration // hard limit on one capture command
	BlurSigma    float32       // Gaussian blur for detection frames; 0 = off
}
