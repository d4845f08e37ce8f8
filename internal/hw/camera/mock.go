package camera

import (
	"context"

	"github.com/catnap-watch/catnap/internal/frame"
)

// Mock is a scriptable Camera for development on PC and for tests.
// Detect pops frames from Frames (repeating the last one when exhausted);
// Still returns the configured JPEG bytes. Errors, when set, are returned
// once and then cleared so transient-failure paths can be exercised.
type Mock struct {
	Frames    []*frame.Frame
	StillData []byte

	DetectErr error
	StillErr  error

	DetectCalls int
	StillCalls  int

	idx int
}

func (m *Mock) Detect(ctx context.Context) (*frame.Frame, error) {
	m.DetectCalls++
	if err := m.DetectErr; err != nil {
		m.DetectErr = nil
		return nil, err
	}
	if len(m.Frames) == 0 {
		return nil, ErrDeviceUnavailable
	}
	f := m.Frames[m.idx]
	if m.idx < len(m.Frames)-1 {
		m.idx++
	}
	return f, nil
}

func (m *Mock) Still(ctx context.Context) ([]byte, error) {
	m.StillCalls++
	if err := m.StillErr; err != nil {
		m.StillErr = nil
		return nil, err
	}
	if m.StillData == nil {
		return []byte("jpeg"), nil
	}
	return m.StillData, nil
}

func (m *Mock) Close() error { return nil }
