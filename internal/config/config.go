package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CameraConfig describes how frames are acquired.
// Type selects a concrete implementation (e.g., "still_command", "usb_command").
type CameraConfig struct {
	Type            string `yaml:"type"`              // "still_command", "usb_command" or "mock"
	Command         string `yaml:"command"`           // capture binary override (defaults per type)
	Device          string `yaml:"device"`            // V4L2 device for usb_command (e.g., /dev/video0)
	DetectWidthPx   int    `yaml:"detect_width_px"`   // low-res detection frame width
	DetectHeightPx  int    `yaml:"detect_height_px"`  // low-res detection frame height
	PhotoWidthPx    int    `yaml:"photo_width_px"`    // saved photo width
	PhotoHeightPx   int    `yaml:"photo_height_px"`   // saved photo height
	JPEGQuality     int    `yaml:"jpeg_quality"`      // 1-100
	WarmupMs        int    `yaml:"warmup_ms"`         // sensor warmup before the baseline frame
	CaptureTimeoutS int    `yaml:"capture_timeout_s"` // hard limit on one capture command
}

// TriggerConfig selects what starts a capture tick.
type TriggerConfig struct {
	Type           string `yaml:"type"`              // "interval" or "pir"
	IntervalS      int    `yaml:"interval_s"`        // seconds between captures (interval mode)
	PIRPin         int    `yaml:"pir_pin"`           // BCM pin of the PIR sensor (pir mode)
	CooldownS      int    `yaml:"cooldown_s"`        // minimum seconds between PIR-triggered captures
	CaptureDelayMs int    `yaml:"capture_delay_ms"`  // delay between PIR edge and capture
	PollIntervalMs int    `yaml:"poll_interval_ms"`  // PIR polling cadence
}

// DetectionConfig holds the change-detector thresholds.
type DetectionConfig struct {
	PixelThreshold int     `yaml:"pixel_threshold"` // per-pixel absdiff above which a pixel counts as changed
	DiffThreshold  int     `yaml:"diff_threshold"`  // changed-pixel count above which a frame is interesting
	BlurSigma      float32 `yaml:"blur_sigma"`      // Gaussian blur before diffing; 0 = off
}

// ClassifyConfig holds the brightness-heuristic thresholds.
// This is a coarse heuristic, not a trained classifier.
type ClassifyConfig struct {
	PresenceThreshold float64 `yaml:"presence_threshold"` // minimum mean brightness to assume cat presence
	LightThreshold    float64 `yaml:"light_threshold"`    // mean brightness separating light from dark cats
}

// PhotosConfig controls the photo directory and its retention.
type PhotosConfig struct {
	Dir              string `yaml:"dir"`
	MaxStored        int    `yaml:"max_stored"`
	CleanupIntervalH int    `yaml:"cleanup_interval_h"`
}

// DiariesConfig controls the email notifier.
type DiariesConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Model     string `yaml:"model"` // OpenAI chat model for the diary text
	MaxTokens int    `yaml:"max_tokens"`
	SMTPHost  string `yaml:"smtp_host"`
	SMTPPort  int    `yaml:"smtp_port"`
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel int  `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO   bool `yaml:"mock_gpio"`   // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// Config aggregates all application configuration.
// It is read once at startup and treated as read-only afterwards.
type Config struct {
	Camera    CameraConfig    `yaml:"camera"`
	Trigger   TriggerConfig   `yaml:"trigger"`
	Detection DetectionConfig `yaml:"detection"`
	Classify  ClassifyConfig  `yaml:"classify"`
	Photos    PhotosConfig    `yaml:"photos"`
	Diaries   DiariesConfig   `yaml:"diaries"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// Basic validation
	if cfg.Camera.Type == "" {
		return nil, fmt.Errorf("camera.type is required")
	}
	switch cfg.Camera.Type {
	case "still_command", "usb_command", "mock":
	default:
		return nil, fmt.Errorf("unsupported camera type: %s", cfg.Camera.Type)
	}
	if cfg.Camera.DetectWidthPx <= 0 {
		cfg.Camera.DetectWidthPx = 320
	}
	if cfg.Camera.DetectHeightPx <= 0 {
		cfg.Camera.DetectHeightPx = 240
	}
	if cfg.Camera.PhotoWidthPx <= 0 {
		cfg.Camera.PhotoWidthPx = 1280
	}
	if cfg.Camera.PhotoHeightPx <= 0 {
		cfg.Camera.PhotoHeightPx = 720
	}
	if cfg.Camera.JPEGQuality < 0 || cfg.Camera.JPEGQuality > 100 {
		return nil, fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", cfg.Camera.JPEGQuality)
	}
	if cfg.Camera.JPEGQuality == 0 {
		cfg.Camera.JPEGQuality = 85
	}
	if cfg.Camera.WarmupMs <= 0 {
		cfg.Camera.WarmupMs = 2000 // 2s sensor warmup
	}
	if cfg.Camera.CaptureTimeoutS <= 0 {
		cfg.Camera.CaptureTimeoutS = 15
	}

	switch cfg.Trigger.Type {
	case "":
		cfg.Trigger.Type = "interval"
	case "interval", "pir":
	default:
		return nil, fmt.Errorf("unsupported trigger type: %s", cfg.Trigger.Type)
	}
	if cfg.Trigger.IntervalS <= 0 {
		cfg.Trigger.IntervalS = 60
	}
	if cfg.Trigger.Type == "pir" && cfg.Trigger.PIRPin <= 0 {
		return nil, fmt.Errorf("trigger.pir_pin is required in pir mode")
	}
	if cfg.Trigger.CooldownS <= 0 {
		cfg.Trigger.CooldownS = 30
	}
	if cfg.Trigger.CaptureDelayMs < 0 {
		return nil, fmt.Errorf("capture_delay_ms must be >= 0, got %d", cfg.Trigger.CaptureDelayMs)
	}
	if cfg.Trigger.PollIntervalMs <= 0 {
		cfg.Trigger.PollIntervalMs = 100
	}

	if cfg.Detection.PixelThreshold < 0 || cfg.Detection.PixelThreshold > 255 {
		return nil, fmt.Errorf("pixel_threshold must be between 0 and 255, got %d", cfg.Detection.PixelThreshold)
	}
	if cfg.Detection.PixelThreshold == 0 {
		cfg.Detection.PixelThreshold = 50
	}
	if cfg.Detection.DiffThreshold < 0 {
		return nil, fmt.Errorf("diff_threshold must be >= 0, got %d", cfg.Detection.DiffThreshold)
	}
	if cfg.Detection.DiffThreshold == 0 {
		cfg.Detection.DiffThreshold = 5000
	}
	if cfg.Detection.BlurSigma < 0 {
		return nil, fmt.Errorf("blur_sigma must be >= 0, got %g", cfg.Detection.BlurSigma)
	}

	if cfg.Classify.PresenceThreshold < 0 || cfg.Classify.PresenceThreshold > 255 {
		return nil, fmt.Errorf("presence_threshold must be between 0 and 255, got %g", cfg.Classify.PresenceThreshold)
	}
	if cfg.Classify.PresenceThreshold == 0 {
		cfg.Classify.PresenceThreshold = 50
	}
	if cfg.Classify.LightThreshold < 0 || cfg.Classify.LightThreshold > 255 {
		return nil, fmt.Errorf("light_threshold must be between 0 and 255, got %g", cfg.Classify.LightThreshold)
	}
	if cfg.Classify.LightThreshold == 0 {
		cfg.Classify.LightThreshold = 100
	}

	if cfg.Photos.Dir == "" {
		cfg.Photos.Dir = "photos"
	}
	if cfg.Photos.MaxStored < 0 {
		return nil, fmt.Errorf("max_stored must be >= 0, got %d", cfg.Photos.MaxStored)
	}
	if cfg.Photos.MaxStored == 0 {
		cfg.Photos.MaxStored = 50
	}
	if cfg.Photos.CleanupIntervalH <= 0 {
		cfg.Photos.CleanupIntervalH = 6
	}

	if cfg.Diaries.Model == "" {
		cfg.Diaries.Model = "gpt-4o-mini"
	}
	if cfg.Diaries.MaxTokens <= 0 {
		cfg.Diaries.MaxTokens = 300
	}
	if cfg.Diaries.SMTPHost == "" {
		cfg.Diaries.SMTPHost = "smtp.gmail.com"
	}
	if cfg.Diaries.SMTPPort <= 0 {
		cfg.Diaries.SMTPPort = 587
	}

	return &cfg, nil
}

// CaptureInterval returns the duration between two capture ticks.
func (c *Config) CaptureInterval() time.Duration {
	return time.Duration(c.Trigger.IntervalS) * time.Second
}

// Warmup returns the camera warmup duration.
func (c *Config) Warmup() time.Duration {
	return time.Duration(c.Camera.WarmupMs) * time.Millisecond
}

// CaptureTimeout returns the hard limit for one capture command.
func (c *Config) CaptureTimeout() time.Duration {
	return time.Duration(c.Camera.CaptureTimeoutS) * time.Second
}

// Cooldown returns the minimum duration between PIR-triggered captures.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Trigger.CooldownS) * time.Second
}

// CaptureDelay returns the delay between a PIR edge and the capture.
func (c *Config) CaptureDelay() time.Duration {
	return time.Duration(c.Trigger.CaptureDelayMs) * time.Millisecond
}

// PollInterval returns the PIR polling cadence.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Trigger.PollIntervalMs) * time.Millisecond
}

// CleanupInterval returns the duration between periodic retention passes.
func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.Photos.CleanupIntervalH) * time.Hour
}
