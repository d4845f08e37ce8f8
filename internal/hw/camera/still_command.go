package camera

import (
	"context"
	"strconv"
	"time"

	"github.com/catnap-watch/catnap/internal/debug"
	"github.com/catnap-watch/catnap/internal/frame"
)

const defaultStillCommand = "raspistill"

// StillCommand is a Camera implementation for the Raspberry Pi CSI camera,
// shelling out to raspistill (or a compatible binary such as
// libcamera-still configured for raspistill flags). This avoids holding a
// video pipeline open between captures, which matters on a Pi Zero.
type StillCommand struct {
	opts   Options
	warmed bool
}

// NewStillCommand creates a still-command camera from options.
func NewStillCommand(opts Options) *StillCommand {
	if opts.Command == "" {
		opts.Command = defaultStillCommand
	}
	return &StillCommand{opts: opts}
}

// Detect captures a low-resolution frame and converts it to grayscale.
func (s *StillCommand) Detect(ctx context.Context) (*frame.Frame, error) {
	data, err := s.capture(ctx, s.opts.DetectWidth, s.opts.DetectHeight, 50)
	if err != nil {
		return nil, err
	}
	return frame.DecodeJPEG(data, s.opts.DetectWidth, s.opts.DetectHeight, s.opts.BlurSigma)
}

// Still captures a full-resolution JPEG.
func (s *StillCommand) Still(ctx context.Context) ([]byte, error) {
	return s.capture(ctx, s.opts.PhotoWidth, s.opts.PhotoHeight, s.opts.Quality)
}

func (s *StillCommand) Close() error { return nil }

func (s *StillCommand) capture(ctx context.Context, width, height, quality int) ([]byte, error) {
	if !s.warmed {
		debug.Verbose("Camera warming up for %v...", s.opts.Warmup)
		time.Sleep(s.opts.Warmup)
		s.warmed = true
	}

	out, err := tempJPEG()
	if err != nil {
		return nil, err
	}

	args := []string{
		"-o", out,
		"-w", strconv.Itoa(width),
		"-h", strconv.Itoa(height),
		"-q", strconv.Itoa(quality),
		"-t", "1000",
		"--nopreview",
	}
	return runCapture(ctx, s.opts.Timeout, s.opts.Command, args, out)
}
