package watch

import (
	"context"
	"time"

	"github.com/catnap-watch/catnap/internal/debug"
	"github.com/catnap-watch/catnap/internal/hw/pir"
)

// Trigger blocks until the next capture tick is due.
type Trigger interface {
	Wait(ctx context.Context) error
}

// IntervalTrigger fires on a fixed cadence (cooperative sleep between
// ticks, the default polling mode).
type IntervalTrigger struct {
	Interval time.Duration
}

func (t IntervalTrigger) Wait(ctx context.Context) error {
	timer := time.NewTimer(t.Interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PIRTrigger fires when a PIR motion sensor reports a rising edge, with a
// cooldown between firings and a short settle delay before the capture so
// the subject has reached the perch.
type PIRTrigger struct {
	Sensor       *pir.Sensor
	Poll         time.Duration
	Cooldown     time.Duration
	CaptureDelay time.Duration

	lastFire time.Time
}

func (t *PIRTrigger) Wait(ctx context.Context) error {
	for {
		if err := t.Sensor.WaitForMotion(ctx, t.Poll); err != nil {
			return err
		}
		if since := time.Since(t.lastFire); !t.lastFire.IsZero() && since < t.Cooldown {
			debug.Verbose("PIR edge within cooldown (%v < %v), ignoring", since, t.Cooldown)
			continue
		}
		t.lastFire = time.Now()

		if t.CaptureDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(t.CaptureDelay):
			}
		}
		return nil
	}
}
