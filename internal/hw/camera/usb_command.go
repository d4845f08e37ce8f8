package camera

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/catnap-watch/catnap/internal/debug"
	"github.com/catnap-watch/catnap/internal/frame"
)

const defaultUSBCommand = "fswebcam"

// USBCommand is a Camera implementation for USB webcams, shelling out to
// fswebcam against a V4L2 device. Each capture opens and closes the device,
// trading latency for not keeping a buffered stream around.
type USBCommand struct {
	opts   Options
	warmed bool
}

// NewUSBCommand creates a USB-command camera from options.
// Device defaults to /dev/video0.
func NewUSBCommand(opts Options) *USBCommand {
	if opts.Command == "" {
		opts.Command = defaultUSBCommand
	}
	if opts.Device == "" {
		opts.Device = "/dev/video0"
	}
	return &USBCommand{opts: opts}
}

// Detect captures a low-resolution frame and converts it to grayscale.
func (u *USBCommand) Detect(ctx context.Context) (*frame.Frame, error) {
	data, err := u.capture(ctx, u.opts.DetectWidth, u.opts.DetectHeight, 50)
	if err != nil {
		return nil, err
	}
	return frame.DecodeJPEG(data, u.opts.DetectWidth, u.opts.DetectHeight, u.opts.BlurSigma)
}

// Still captures a full-resolution JPEG.
func (u *USBCommand) Still(ctx context.Context) ([]byte, error) {
	return u.capture(ctx, u.opts.PhotoWidth, u.opts.PhotoHeight, u.opts.Quality)
}

func (u *USBCommand) Close() error { return nil }

func (u *USBCommand) capture(ctx context.Context, width, height, quality int) ([]byte, error) {
	if !u.warmed {
		debug.Verbose("Camera warming up for %v...", u.opts.Warmup)
		time.Sleep(u.opts.Warmup)
		u.warmed = true
	}

	out, err := tempJPEG()
	if err != nil {
		return nil, err
	}

	args := []string{
		"-d", u.opts.Device,
		"-r", fmt.Sprintf("%dx%d", width, height),
		"--jpeg", strconv.Itoa(quality),
		"--no-banner",
		"-S", "2", // skip a couple of frames so auto-exposure settles
		"-q",
		out,
	}
	return runCapture(ctx, u.opts.Timeout, u.opts.Command, args, out)
}
