// catnap-tune helps pick detection thresholds before leaving the watcher
// unattended. In interval mode it samples consecutive detection frames and
// reports the changed-pixel scalar so diff_threshold can be set above the
// ambient noise. In pir mode it prints PIR rising edges with rolling counts
// so the sensor potentiometers can be adjusted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/catnap-watch/catnap/internal/config"
	"github.com/catnap-watch/catnap/internal/debug"
	"github.com/catnap-watch/catnap/internal/frame"
	"github.com/catnap-watch/catnap/internal/hw/camera"
	"github.com/catnap-watch/catnap/internal/hw/gpio"
	"github.com/catnap-watch/catnap/internal/hw/pir"
	"github.com/catnap-watch/catnap/internal/logic/detect"
)

func main() {
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	samples := flag.Int("samples", 10, "number of frame pairs to sample (interval mode)")
	interval := flag.Duration("interval", 2*time.Second, "delay between samples (interval mode)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	debug.Init(cfg.Defaults.DebugLevel)

	if cfg.Trigger.Type == "pir" {
		if err := tunePIR(ctx, cfg); err != nil && ctx.Err() == nil {
			log.Fatalf("PIR tuning failed: %v", err)
		}
		return
	}
	if err := tuneDiff(ctx, cfg, *samples, *interval); err != nil && ctx.Err() == nil {
		log.Fatalf("diff tuning failed: %v", err)
	}
}

// tuneDiff samples changed-pixel counts between consecutive frames.
// Keep the scene quiet first to measure noise, then walk through it to
// measure signal; pick diff_threshold between the two.
func tuneDiff(ctx context.Context, cfg *config.Config, samples int, interval time.Duration) error {
	cam := newCamera(cfg)
	defer cam.Close()

	det := detect.Detector{
		PixelThreshold: cfg.Detection.PixelThreshold,
		DiffThreshold:  cfg.Detection.DiffThreshold,
	}

	fmt.Printf("Sampling %d frame pairs every %v (pixel threshold %d)...\n",
		samples, interval, det.PixelThreshold)
	fmt.Printf("Current diff_threshold: %d\n\n", det.DiffThreshold)

	var prev *frame.Frame
	var taken, min, max, sum int
	for taken < samples {
		if ctx.Err() != nil {
			break
		}

		cur, err := cam.Detect(ctx)
		if err != nil {
			fmt.Printf("  capture failed (%v), retrying...\n", err)
			sleepCtx(ctx, interval)
			continue
		}
		if prev == nil {
			prev = cur
			sleepCtx(ctx, interval)
			continue
		}

		changed, err := det.ChangedPixels(prev, cur)
		if err != nil {
			return err
		}
		taken++
		sum += changed
		if taken == 1 || changed < min {
			min = changed
		}
		if changed > max {
			max = changed
		}
		marker := ""
		if changed > det.DiffThreshold {
			marker = "  <- would trigger"
		}
		fmt.Printf("  [%2d/%d] changed pixels: %6d%s\n", taken, samples, changed, marker)

		prev = cur
		sleepCtx(ctx, interval)
	}

	if taken == 0 {
		return fmt.Errorf("no samples collected")
	}
	fmt.Printf("\nmin=%d max=%d avg=%d\n", min, max, sum/taken)
	fmt.Printf("Suggestion: with a quiet scene, set diff_threshold comfortably above max (e.g. %d).\n", max*3)
	return nil
}

// tunePIR prints rising edges with timestamps and a rolling per-minute
// count so sensitivity can be adjusted until motion registers without
// noise.
func tunePIR(ctx context.Context, cfg *config.Config) error {
	driver, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
	if err != nil {
		return err
	}
	defer driver.Close()

	sensor, err := pir.NewSensor(driver, cfg.Trigger.PIRPin)
	if err != nil {
		return err
	}

	fmt.Printf("Watching PIR on pin %d (Ctrl+C to stop)\n", cfg.Trigger.PIRPin)
	fmt.Println("Tip: sensitivity pot controls range; time pot controls output high duration.")

	var events []time.Time
	for {
		if err := sensor.WaitForMotion(ctx, cfg.PollInterval()); err != nil {
			return err
		}
		now := time.Now()
		events = append(events, now)

		// Rolling one-minute window
		cutoff := now.Add(-time.Minute)
		kept := events[:0]
		for _, t := range events {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		events = kept

		fmt.Printf("  %s  motion  (%d events in the last minute)\n",
			now.Format("15:04:05.000"), len(events))
	}
}

func newCamera(cfg *config.Config) camera.Camera {
	opts := camera.Options{
		Command:      cfg.Camera.Command,
		Device:       cfg.Camera.Device,
		DetectWidth:  cfg.Camera.DetectWidthPx,
		DetectHeight: cfg.Camera.DetectHeightPx,
		PhotoWidth:   cfg.Camera.PhotoWidthPx,
		PhotoHeight:  cfg.Camera.PhotoHeightPx,
		Quality:      cfg.Camera.JPEGQuality,
		Warmup:       cfg.Warmup(),
		Timeout:      cfg.CaptureTimeout(),
		BlurSigma:    cfg.Detection.BlurSigma,
	}
	if cfg.Camera.Type == "usb_command" {
		return camera.NewUSBCommand(opts)
	}
	return camera.NewStillCommand(opts)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
