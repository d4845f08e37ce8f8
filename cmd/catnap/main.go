package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/catnap-watch/catnap/internal/config"
	"github.com/catnap-watch/catnap/internal/debug"
	"github.com/catnap-watch/catnap/internal/diaries"
	"github.com/catnap-watch/catnap/internal/hw/camera"
	"github.com/catnap-watch/catnap/internal/hw/gpio"
	"github.com/catnap-watch/catnap/internal/hw/pir"
	"github.com/catnap-watch/catnap/internal/logic/classify"
	"github.com/catnap-watch/catnap/internal/logic/detect"
	"github.com/catnap-watch/catnap/internal/logic/watch"
	"github.com/catnap-watch/catnap/internal/photos"
)

func main() {
	// CLI flags
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	once := flag.Bool("once", false, "run a single capture tick and exit (for testing wiring)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	secrets := config.LoadSecrets()

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)
	debug.Value("Camera type", cfg.Camera.Type)
	debug.Value("Trigger type", cfg.Trigger.Type)
	debug.Value("Photos dir", cfg.Photos.Dir)

	// Initialize camera
	debug.Step(1, "Initializing camera")
	cam := newCameraFromConfig(cfg)
	defer func() {
		if err := cam.Close(); err != nil {
			log.Printf("closing camera failed: %v", err)
		}
	}()

	// Initialize trigger (GPIO only needed in PIR mode)
	debug.Step(2, "Initializing trigger")
	trigger, gpioCleanup, err := newTriggerFromConfig(cfg)
	if err != nil {
		log.Fatalf("init trigger failed: %v", err)
	}
	defer gpioCleanup()

	// Initialize photo store
	debug.Step(3, "Initializing photo store")
	store, err := photos.NewStore(cfg.Photos.Dir)
	if err != nil {
		log.Fatalf("init photo store failed: %v", err)
	}

	// Initialize notifier
	debug.Step(4, "Initializing notifier")
	notifier := newNotifier(cfg, secrets)

	watcher := watch.New(watch.Params{
		Camera: cam,
		Detector: detect.Detector{
			PixelThreshold: cfg.Detection.PixelThreshold,
			DiffThreshold:  cfg.Detection.DiffThreshold,
		},
		Classifier: classify.Classifier{
			PresenceThreshold: cfg.Classify.PresenceThreshold,
			LightThreshold:    cfg.Classify.LightThreshold,
		},
		Store:           store,
		Notifier:        notifier,
		Trigger:         trigger,
		MaxPhotos:       cfg.Photos.MaxStored,
		CleanupInterval: cfg.CleanupInterval(),
	})

	debug.Summary("CatNap Watch")
	debug.Value("Capture interval", cfg.CaptureInterval())
	debug.Value("Diff threshold", cfg.Detection.DiffThreshold)
	debug.Value("Max stored photos", cfg.Photos.MaxStored)

	if *once {
		if err := watcher.Tick(ctx); err != nil {
			log.Fatalf("tick failed: %v", err)
		}
		return
	}

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("watch loop failed: %v", err)
	}
}

// newCameraFromConfig selects a camera implementation based on configuration.
func newCameraFromConfig(cfg *config.Config) camera.Camera {
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
	switch cfg.Camera.Type {
	case "usb_command":
		return camera.NewUSBCommand(opts)
	case "mock":
		return &camera.Mock{}
	default:
		// config.Load already rejected unknown types.
		return camera.NewStillCommand(opts)
	}
}

// newTriggerFromConfig builds the capture trigger. In PIR mode this also
// opens the GPIO driver; the returned cleanup closes it.
func newTriggerFromConfig(cfg *config.Config) (watch.Trigger, func(), error) {
	if cfg.Trigger.Type != "pir" {
		return watch.IntervalTrigger{Interval: cfg.CaptureInterval()}, func() {}, nil
	}

	debug.Value("Mock GPIO", cfg.Defaults.MockGPIO)
	driver, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
	if err != nil {
		return nil, nil, fmt.Errorf("init GPIO: %w", err)
	}
	sensor, err := pir.NewSensor(driver, cfg.Trigger.PIRPin)
	if err != nil {
		_ = driver.Close()
		return nil, nil, fmt.Errorf("init PIR sensor: %w", err)
	}

	cleanup := func() {
		if err := driver.Close(); err != nil {
			log.Printf("closing GPIO driver failed: %v", err)
		}
	}
	return &watch.PIRTrigger{
		Sensor:       sensor,
		Poll:         cfg.PollInterval(),
		Cooldown:     cfg.Cooldown(),
		CaptureDelay: cfg.CaptureDelay(),
	}, cleanup, nil
}

// newNotifier wires the diaries notifier from config and secrets:
// OpenAI generation when a key is present (static fallback otherwise),
// SMTP delivery when email credentials are present (console otherwise).
func newNotifier(cfg *config.Config, secrets config.Secrets) watch.Notifier {
	if !cfg.Diaries.Enabled {
		debug.Info("Diaries disabled; sightings will only be logged")
		return nil
	}

	var gen diaries.Generator
	if secrets.OpenAIKey != "" {
		gen = diaries.NewOpenAIClient(secrets.OpenAIKey, cfg.Diaries.Model, cfg.Diaries.MaxTokens)
	} else {
		debug.Info("OPENAI_API_KEY not set; using the fallback diary email")
	}

	console := diaries.ConsoleSender{Out: os.Stdout}
	var sender diaries.Sender = console
	if secrets.EmailConfigured() {
		sender = diaries.SMTPSender{
			Host:     cfg.Diaries.SMTPHost,
			Port:     cfg.Diaries.SMTPPort,
			From:     secrets.EmailFrom,
			Password: secrets.EmailPassword,
			To:       secrets.EmailTo,
		}
	} else {
		debug.Info("Email credentials not configured; diaries go to the console")
	}

	return diaries.New(gen, sender, console)
}
