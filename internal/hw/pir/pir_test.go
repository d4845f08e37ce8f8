package pir

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/catnap-watch/catnap/internal/hw/gpio"
)

func TestRead(t *testing.T) {
	drv := &gpio.MockDriver{}
	sensor, err := NewSensor(drv, 17)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}

	high, err := sensor.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if high {
		t.Error("pulled-down pin should read LOW initially")
	}

	drv.SetLevel(17, gpio.High)
	high, err = sensor.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !high {
		t.Error("pin should read HIGH after being driven high")
	}
}

func TestWaitForMotion_RisingEdge(t *testing.T) {
	drv := &gpio.MockDriver{}
	sensor, err := NewSensor(drv, 17)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}

	go func() {
		time.Sleep(5 * time.Millisecond)
		drv.SetLevel(17, gpio.High)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sensor.WaitForMotion(ctx, time.Millisecond); err != nil {
		t.Fatalf("WaitForMotion: %v", err)
	}
}

func TestWaitForMotion_StuckHighDoesNotFire(t *testing.T) {
	drv := &gpio.MockDriver{}
	sensor, err := NewSensor(drv, 17)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	// HIGH before the first poll: no LOW was ever observed, so no edge.
	drv.SetLevel(17, gpio.High)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := sensor.WaitForMotion(ctx, time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForMotion = %v, want deadline exceeded for a stuck-high pin", err)
	}
}

func TestWaitForMotion_Cancelled(t *testing.T) {
	drv := &gpio.MockDriver{}
	sensor, err := NewSensor(drv, 17)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sensor.WaitForMotion(ctx, time.Millisecond); !errors.Is(err, context.Canceled) {
		t.Errorf("WaitForMotion = %v, want context.Canceled", err)
	}
}
