package watch

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/catnap-watch/catnap/internal/frame"
	"github.com/catnap-watch/catnap/internal/hw/camera"
	"github.com/catnap-watch/catnap/internal/logic/classify"
	"github.com/catnap-watch/catnap/internal/logic/detect"
	"github.com/catnap-watch/catnap/internal/photos"
)

// recordingNotifier records Notify calls.
type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (n *recordingNotifier) Notify(ctx context.Context, ev Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

func uniform(width, height int, value uint8) *frame.Frame {
	f := frame.New(width, height)
	for i := range f.Pix {
		f.Pix[i] = value
	}
	return f
}

func newTestWatcher(t *testing.T, cam *camera.Mock, notifier Notifier) (*Watcher, *photos.Store) {
	t.Helper()
	store, err := photos.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	w := New(Params{
		Camera:     cam,
		Detector:   detect.Detector{PixelThreshold: 0, DiffThreshold: 100},
		Classifier: classify.Classifier{PresenceThreshold: 100, LightThreshold: 150},
		Store:      store,
		Notifier:   notifier,
		Trigger:    IntervalTrigger{Interval: time.Microsecond},
		MaxPhotos:  50,
	})
	return w, store
}

func photoCount(t *testing.T, store *photos.Store) int {
	t.Helper()
	list, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return len(list)
}

func TestTick_ColdStart(t *testing.T) {
	cam := &camera.Mock{Frames: []*frame.Frame{uniform(32, 32, 255)}}
	notifier := &recordingNotifier{}
	w, store := newTestWatcher(t, cam, notifier)

	// First frame only establishes the baseline, no matter how bright.
	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if notifier.count() != 0 {
		t.Errorf("cold start must not notify, got %d events", notifier.count())
	}
	if photoCount(t, store) != 0 {
		t.Error("cold start must not save a photo")
	}
	if w.prev == nil {
		t.Error("cold start must store the baseline frame")
	}
}

func TestTick_NotInteresting(t *testing.T) {
	a := uniform(32, 32, 10)
	b := uniform(32, 32, 10)
	cam := &camera.Mock{Frames: []*frame.Frame{a, b}}
	notifier := &recordingNotifier{}
	w, store := newTestWatcher(t, cam, notifier)

	for i := 0; i < 2; i++ {
		if err := w.Tick(context.Background()); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}
	if notifier.count() != 0 {
		t.Errorf("identical frames must not notify, got %d events", notifier.count())
	}
	if photoCount(t, store) != 0 {
		t.Error("identical frames must not save a photo")
	}
	if w.prev != b {
		t.Error("previous frame must advance to the latest frame")
	}
}

func TestTick_InterestingLightCat(t *testing.T) {
	a := uniform(32, 32, 0)
	c := uniform(32, 32, 180) // all 1024 pixels changed, mean 180
	cam := &camera.Mock{Frames: []*frame.Frame{a, c}, StillData: []byte("highres")}
	notifier := &recordingNotifier{}
	w, store := newTestWatcher(t, cam, notifier)

	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("baseline Tick: %v", err)
	}
	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("interesting Tick: %v", err)
	}

	if notifier.count() != 1 {
		t.Fatalf("Notifier invoked %d times, want 1", notifier.count())
	}
	ev := notifier.events[0]
	if !ev.Present {
		t.Error("Present = false, want true (mean 180 >= presence 100)")
	}
	if ev.Color != classify.ColorLight {
		t.Errorf("Color = %v, want light (mean 180 >= light 150)", ev.Color)
	}
	if ev.ChangedPixels != 32*32 {
		t.Errorf("ChangedPixels = %d, want %d", ev.ChangedPixels, 32*32)
	}
	if ev.Photo == nil {
		t.Fatal("event should carry the saved photo")
	}
	if photoCount(t, store) != 1 {
		t.Errorf("photo count = %d, want 1", photoCount(t, store))
	}
	if cam.StillCalls != 1 {
		t.Errorf("Still called %d times, want 1", cam.StillCalls)
	}
}

func TestTick_CameraFailureIsTransient(t *testing.T) {
	a := uniform(32, 32, 0)
	cam := &camera.Mock{Frames: []*frame.Frame{a}, DetectErr: camera.ErrDeviceUnavailable}
	notifier := &recordingNotifier{}
	w, _ := newTestWatcher(t, cam, notifier)

	// Failed acquisition: logged, no crash, no baseline.
	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("Tick with camera failure should not error, got: %v", err)
	}
	if w.prev != nil {
		t.Error("failed acquisition must not set a baseline")
	}

	// Next tick succeeds (mock clears the error).
	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("Tick after recovery: %v", err)
	}
	if w.prev == nil {
		t.Error("recovered tick should set the baseline")
	}
}

func TestTick_ShapeMismatchIsFatal(t *testing.T) {
	a := uniform(32, 32, 0)
	b := uniform(64, 48, 0)
	cam := &camera.Mock{Frames: []*frame.Frame{a, b}}
	w, _ := newTestWatcher(t, cam, &recordingNotifier{})

	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("baseline Tick: %v", err)
	}
	err := w.Tick(context.Background())
	if err == nil {
		t.Fatal("expected error for mismatched resolutions, got nil")
	}
	if !errors.Is(err, frame.ErrShapeMismatch) {
		t.Errorf("error should wrap ErrShapeMismatch, got: %v", err)
	}
}

func TestTick_NotifierFailureKeepsPhoto(t *testing.T) {
	a := uniform(32, 32, 0)
	c := uniform(32, 32, 200)
	cam := &camera.Mock{Frames: []*frame.Frame{a, c}}
	notifier := &recordingNotifier{err: errors.New("delivery failed")}
	w, store := newTestWatcher(t, cam, notifier)

	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("baseline Tick: %v", err)
	}
	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("notifier failure must not fail the tick, got: %v", err)
	}
	if photoCount(t, store) != 1 {
		t.Error("photo must remain on disk after a notification failure")
	}
	if w.prev != c {
		t.Error("previous frame must still advance after a notification failure")
	}
}

func TestTick_StillFailureStillNotifies(t *testing.T) {
	a := uniform(32, 32, 0)
	c := uniform(32, 32, 200)
	cam := &camera.Mock{Frames: []*frame.Frame{a, c}, StillErr: camera.ErrDeviceUnavailable}
	notifier := &recordingNotifier{}
	w, store := newTestWatcher(t, cam, notifier)

	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("baseline Tick: %v", err)
	}
	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if notifier.count() != 1 {
		t.Fatalf("Notifier invoked %d times, want 1", notifier.count())
	}
	if notifier.events[0].Photo != nil {
		t.Error("event photo should be nil when the still capture failed")
	}
	if photoCount(t, store) != 0 {
		t.Error("no photo should be stored when the still capture failed")
	}
}

func TestTick_RetentionEnforcedAfterSave(t *testing.T) {
	a := uniform(32, 32, 0)
	c := uniform(32, 32, 200)
	cam := &camera.Mock{Frames: []*frame.Frame{a, c}}
	store, err := photos.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	// Pre-populate an old photo that must be evicted by the cap of 1.
	if _, err := store.Save(time.Now().Add(-time.Hour), []byte("old")); err != nil {
		t.Fatalf("seed photo: %v", err)
	}

	w := New(Params{
		Camera:     cam,
		Detector:   detect.Detector{PixelThreshold: 0, DiffThreshold: 100},
		Classifier: classify.Classifier{PresenceThreshold: 100, LightThreshold: 150},
		Store:      store,
		Trigger:    IntervalTrigger{Interval: time.Microsecond},
		MaxPhotos:  1,
	})

	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("baseline Tick: %v", err)
	}
	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("interesting Tick: %v", err)
	}

	list, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("photo count = %d, want 1 after retention", len(list))
	}
	if string(mustRead(t, list[0].Path)) == "old" {
		t.Error("retention should have evicted the oldest photo, not the new one")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	cam := &camera.Mock{Frames: []*frame.Frame{uniform(8, 8, 0)}}
	w, _ := newTestWatcher(t, cam, &recordingNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run should return context.Canceled, got: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestState_String(t *testing.T) {
	cases := []struct {
		state State
		want  string
	}{
		{Idle, "idle"},
		{Capturing, "capturing"},
		{Evaluating, "evaluating"},
		{Notifying, "notifying"},
		{State(99), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("State(%d).String() = %q, want %q", tc.state, got, tc.want)
		}
	}
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}
