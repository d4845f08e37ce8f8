package pir

import (
	"context"
	"time"

	"github.com/catnap-watch/catnap/internal/debug"
	"github.com/catnap-watch/catnap/internal/hw/gpio"
)

// Sensor reads a PIR motion module (BISS0001-style, e.g. HC-SR501) on a
// single GPIO pin. The module idles LOW and pulses HIGH on motion, so the
// pin is configured with an internal pull-down to keep it stable.
type Sensor struct {
	gpio gpio.Driver
	pin  int
}

// NewSensor configures the given pin as a pulled-down input and returns
// a Sensor reading it.
func NewSensor(g gpio.Driver, pin int) (*Sensor, error) {
	if err := g.SetupPin(pin, gpio.InputPullDown); err != nil {
		return nil, err
	}
	return &Sensor{gpio: g, pin: pin}, nil
}

// Read reports whether the sensor output is currently HIGH.
func (s *Sensor) Read() (bool, error) {
	level, err := s.gpio.ReadPin(s.pin)
	if err != nil {
		return false, err
	}
	return level == gpio.High, nil
}

// WaitForMotion polls the pin at the given cadence and returns on the next
// rising edge (LOW then HIGH), or when the context is cancelled.
func (s *Sensor) WaitForMotion(ctx context.Context, poll time.Duration) error {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	prev := true // require an observed LOW first so a stuck-HIGH pin doesn't retrigger
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		cur, err := s.Read()
		if err != nil {
			debug.Error(err)
			continue
		}
		if cur && !prev {
			debug.Live("PIR: rising edge on pin %d", s.pin)
			return nil
		}
		prev = cur
	}
}
