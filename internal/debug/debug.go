package debug

import (
	"fmt"
	"log"
	"os"
)

// Debug levels
const (
	LevelOff     = 0 // No output
	LevelInfo    = 1 // Important info (startup, photos saved, emails sent)
	LevelLive    = 2 // Live info (ticks, detections, cleanups)
	LevelVerbose = 3 // Verbose (diff scalars, brightness values, decisions)
	LevelTrace   = 4 // Trace (GPIO, camera commands, very low level)
)

var (
	level  int
	logger *log.Logger
)

// Init initializes the debug system with a level (0-4).
// 0 = no output
// 1 = important info (photos, emails, errors)
// 2 = live info (ticks, motion detected, cleanups)
// 3 = verbose (diff counts, mean brightness, threshold decisions)
// 4 = trace (GPIO reads, capture commands)
func Init(debugLevel int) {
	level = debugLevel
	if level > LevelOff {
		logger = log.New(os.Stdout, "[CatNap] ", log.LstdFlags|log.Lmicroseconds)
	}
}

// Level returns the current debug level.
func Level() int {
	return level
}

// IsEnabled returns true if debug level is >= the requested level.
func IsEnabled(minLevel int) bool {
	return level >= minLevel
}

// --- Level 1 functions (Info): important info ---

// Info prints a level 1 message (important info).
func Info(format string, args ...interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO] "+format, args...)
	}
}

// Summary prints an important summary (level 1).
func Summary(title string) {
	if level >= LevelOff && logger != nil {
		logger.Printf("═══════════════════════════════════════")
		logger.Printf("  %s", title)
		logger.Printf("═══════════════════════════════════════")
	}
}

// Photo prints a saved-photo notice (level 1).
func Photo(path string, sizeBytes int64) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO] Photo saved: %s (%.1f KB)", path, float64(sizeBytes)/1024)
	}
}

// Value prints a named value in formatted form (level 1).
func Value(name string, value interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO]   %s = %v", name, value)
	}
}

// --- Level 2 functions (Live): real-time info ---

// Live prints a level 2 message (live info).
func Live(format string, args ...interface{}) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] "+format, args...)
	}
}

// Motion prints a motion decision (level 2).
func Motion(changed, threshold int, interesting bool) {
	if level >= LevelLive && logger != nil {
		verdict := "quiet"
		if interesting {
			verdict = "interesting"
		}
		logger.Printf("[LIVE] Diff: %d changed pixels (threshold %d) -> %s", changed, threshold, verdict)
	}
}

// Classified prints a classification result (level 2).
func Classified(present bool, color string, brightness float64) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] Classified: present=%v color=%s (mean brightness %.1f)", present, color, brightness)
	}
}

// Cleanup prints a retention pass result (level 2).
func Cleanup(deleted, kept int) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] Cleanup: deleted %d old photos, kept %d", deleted, kept)
	}
}

// --- Level 3 functions (Verbose): everything ---

// Verbose prints a level 3 message (verbose).
func Verbose(format string, args ...interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] "+format, args...)
	}
}

// Section prints a section separator (level 3).
func Section(name string) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		logger.Printf("  %s", name)
		logger.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	}
}

// Step prints a numbered step (level 3).
func Step(num int, description string) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] Step %d: %s", num, description)
	}
}

// PrintStruct prints a struct in formatted form (level 3).
func PrintStruct(name string, v interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] %s: %+v", name, v)
	}
}

// --- Level 4 functions (Trace): very low level ---

// Trace prints a level 4 message (trace).
func Trace(format string, args ...interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[TRACE] "+format, args...)
	}
}

// GPIO prints a GPIO operation (level 4).
func GPIO(operation string, pin int, value interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[GPIO] %s pin=%d value=%v", operation, pin, value)
	}
}

// Command prints an external capture command (level 4).
func Command(name string, args []string) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[TRACE] exec: %s %v", name, args)
	}
}

// --- General functions ---

// Error prints a debug error (level 1+).
func Error(err error) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[ERROR] %v", err)
	}
}

// Fmt is a helper function that returns a formatted string
// only if debug is enabled (to avoid unnecessary allocations).
func Fmt(format string, args ...interface{}) string {
	if level > 0 {
		return fmt.Sprintf(format, args...)
	}
	return ""
}
