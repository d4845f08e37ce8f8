package watch

import (
	"context"
	"time"

	"github.com/catnap-watch/catnap/internal/debug"
	"github.com/catnap-watch/catnap/internal/frame"
	"github.com/catnap-watch/catnap/internal/hw/camera"
	"github.com/catnap-watch/catnap/internal/logic/classify"
	"github.com/catnap-watch/catnap/internal/logic/detect"
	"github.com/catnap-watch/catnap/internal/photos"
)

// State is the watcher's position in the capture cycle.
type State int

const (
	Idle State = iota
	Capturing
	Evaluating
	Notifying
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Capturing:
		return "capturing"
	case Evaluating:
		return "evaluating"
	case Notifying:
		return "notifying"
	default:
		return "unknown"
	}
}

// Event is the result of one interesting tick: the moment, the
// classification verdict, and the saved photo if persisting succeeded.
// It is immutable once produced and handed to the Notifier.
type Event struct {
	Time           time.Time
	ChangedPixels  int
	Present        bool
	Color          classify.ColorClass
	MeanBrightness float64
	Photo          *photos.Photo
}

// Notifier dispatches an Event somewhere a human will see it.
// Notifier failures are non-fatal to the loop.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Params wires a Watcher.
type Params struct {
	Camera     camera.Camera
	Detector   detect.Detector
	Classifier classify.Classifier
	Store      *photos.Store
	Notifier   Notifier // optional
	Trigger    Trigger

	MaxPhotos       int
	CleanupInterval time.Duration // 0 disables periodic retention passes
}

// Watcher runs the capture cycle: wait for a trigger, acquire a frame,
// diff it against the previous one, classify, persist and notify. One
// goroutine, one camera; the previous frame is an explicit field so
// tests can drive ticks without a real device.
type Watcher struct {
	cam      camera.Camera
	det      detect.Detector
	cls      classify.Classifier
	store    *photos.Store
	notifier Notifier
	trigger  Trigger

	maxPhotos    int
	cleanupEvery time.Duration

	state       State
	prev        *frame.Frame
	lastCleanup time.Time

	now func() time.Time
}

// New creates a Watcher from params.
func New(p Params) *Watcher {
	return &Watcher{
		cam:          p.Camera,
		det:          p.Detector,
		cls:          p.Classifier,
		store:        p.Store,
		notifier:     p.Notifier,
		trigger:      p.Trigger,
		maxPhotos:    p.MaxPhotos,
		cleanupEvery: p.CleanupInterval,
		state:        Idle,
		now:          time.Now,
	}
}

// State returns the watcher's current state.
func (w *Watcher) State() State { return w.state }

// Run executes the capture loop until the context is cancelled or a fatal
// configuration error (frame shape mismatch) surfaces. Transient camera
// and notifier failures are logged and never stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	debug.Info("Monitoring started")
	w.lastCleanup = w.now()

	for {
		if err := w.trigger.Wait(ctx); err != nil {
			debug.Info("Monitoring stopped: %v", err)
			return ctx.Err()
		}
		if err := w.Tick(ctx); err != nil {
			return err
		}
	}
}

// Tick runs one full capture cycle. It returns an error only for fatal
// conditions; everything transient is handled in place.
func (w *Watcher) Tick(ctx context.Context) error {
	w.state = Capturing
	defer func() { w.state = Idle }()

	cur, err := w.cam.Detect(ctx)
	if err != nil {
		// Camera trouble is transient: log and retry on the next tick.
		debug.Error(err)
		return nil
	}

	w.state = Evaluating
	if w.prev == nil {
		// Cold start: no event on the very first frame.
		debug.Live("Baseline frame captured (%dx%d)", cur.Width, cur.Height)
		w.prev = cur
		return nil
	}

	changed, err := w.det.ChangedPixels(w.prev, cur)
	if err != nil {
		// Shape mismatch means miswired resolutions; abort the loop.
		return err
	}
	interesting := changed > w.det.DiffThreshold
	debug.Motion(changed, w.det.DiffThreshold, interesting)

	if !interesting {
		w.prev = cur
		w.maybeCleanup()
		return nil
	}

	cl := w.cls.Classify(cur)
	debug.Classified(cl.Present, string(cl.Color), cl.MeanBrightness)

	w.state = Notifying
	now := w.now()
	ev := Event{
		Time:           now,
		ChangedPixels:  changed,
		Present:        cl.Present,
		Color:          cl.Color,
		MeanBrightness: cl.MeanBrightness,
	}

	if jpegData, err := w.cam.Still(ctx); err != nil {
		debug.Error(err)
	} else if photo, err := w.store.Save(now, jpegData); err != nil {
		debug.Error(err)
	} else {
		ev.Photo = &photo
	}

	if _, err := w.store.Enforce(w.maxPhotos, false); err != nil {
		debug.Error(err)
	}
	w.lastCleanup = now

	if w.notifier != nil {
		// Notification failures never roll back the saved photo.
		if err := w.notifier.Notify(ctx, ev); err != nil {
			debug.Error(err)
		}
	}

	w.prev = cur
	return nil
}

// maybeCleanup runs a retention pass when the cleanup interval elapsed,
// so long quiet stretches still keep the directory bounded.
func (w *Watcher) maybeCleanup() {
	if w.cleanupEvery <= 0 {
		return
	}
	now := w.now()
	if now.Sub(w.lastCleanup) < w.cleanupEvery {
		return
	}
	if _, err := w.store.Enforce(w.maxPhotos, false); err != nil {
		debug.Error(err)
	}
	w.lastCleanup = now
}
