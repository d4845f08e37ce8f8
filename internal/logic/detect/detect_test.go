package detect

import (
	"errors"
	"math"
	"testing"

	"github.com/catnap-watch/catnap/internal/frame"
)

func uniform(width, height int, value uint8) *frame.Frame {
	f := frame.New(width, height)
	for i := range f.Pix {
		f.Pix[i] = value
	}
	return f
}

// withChanged returns a copy of f where the first n pixels are flipped to 255.
func withChanged(f *frame.Frame, n int) *frame.Frame {
	out := frame.New(f.Width, f.Height)
	copy(out.Pix, f.Pix)
	for i := 0; i < n; i++ {
		out.Pix[i] = 255
	}
	return out
}

func TestChangedPixels_Identical(t *testing.T) {
	d := Detector{PixelThreshold: 0, DiffThreshold: 0}
	a := uniform(100, 100, 50)
	b := uniform(100, 100, 50)

	changed, err := d.ChangedPixels(a, b)
	if err != nil {
		t.Fatalf("ChangedPixels: %v", err)
	}
	if changed != 0 {
		t.Errorf("changed = %d, want 0 for identical frames", changed)
	}
}

func TestChangedPixels_CountsExactly(t *testing.T) {
	d := Detector{PixelThreshold: 0}
	a := uniform(100, 100, 0)
	b := withChanged(a, 3000)

	changed, err := d.ChangedPixels(a, b)
	if err != nil {
		t.Fatalf("ChangedPixels: %v", err)
	}
	if changed != 3000 {
		t.Errorf("changed = %d, want 3000", changed)
	}
}

func TestChangedPixels_Symmetric(t *testing.T) {
	d := Detector{PixelThreshold: 10}
	a := uniform(64, 64, 30)
	b := withChanged(a, 500)

	ab, err := d.ChangedPixels(a, b)
	if err != nil {
		t.Fatalf("ChangedPixels(a, b): %v", err)
	}
	ba, err := d.ChangedPixels(b, a)
	if err != nil {
		t.Fatalf("ChangedPixels(b, a): %v", err)
	}
	if ab != ba {
		t.Errorf("absolute difference should be commutative: ab=%d ba=%d", ab, ba)
	}
}

func TestChangedPixels_PixelThresholdGates(t *testing.T) {
	a := uniform(10, 10, 100)
	b := uniform(10, 10, 120) // every pixel differs by 20

	cases := []struct {
		name           string
		pixelThreshold int
		want           int
	}{
		{"below_diff", 19, 100},
		{"at_diff", 20, 0}, // strict >: a diff of exactly 20 does not count
		{"above_diff", 30, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Detector{PixelThreshold: tc.pixelThreshold}
			changed, err := d.ChangedPixels(a, b)
			if err != nil {
				t.Fatalf("ChangedPixels: %v", err)
			}
			if changed != tc.want {
				t.Errorf("changed = %d, want %d", changed, tc.want)
			}
		})
	}
}

func TestInteresting_ThresholdExtremes(t *testing.T) {
	a := uniform(64, 64, 0)
	b := withChanged(a, 1) // minimally different

	// An unreachable threshold makes everything boring.
	d := Detector{PixelThreshold: 0, DiffThreshold: math.MaxInt}
	got, err := d.Interesting(a, b)
	if err != nil {
		t.Fatalf("Interesting: %v", err)
	}
	if got {
		t.Error("nothing should be interesting with an unreachable threshold")
	}

	// Threshold zero makes any non-identical pair interesting.
	d = Detector{PixelThreshold: 0, DiffThreshold: 0}
	got, err = d.Interesting(a, b)
	if err != nil {
		t.Fatalf("Interesting: %v", err)
	}
	if !got {
		t.Error("non-identical frames should be interesting at threshold 0")
	}
}

func TestInteresting_Scenarios(t *testing.T) {
	a := uniform(100, 100, 0)

	cases := []struct {
		name    string
		changed int
		want    bool
	}{
		{"below_threshold", 3000, false},
		{"above_threshold", 8000, true},
	}
	d := Detector{PixelThreshold: 0, DiffThreshold: 5000}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := withChanged(a, tc.changed)
			got, err := d.Interesting(a, b)
			if err != nil {
				t.Fatalf("Interesting: %v", err)
			}
			if got != tc.want {
				t.Errorf("Interesting = %v, want %v (changed=%d, threshold=5000)", got, tc.want, tc.changed)
			}
		})
	}
}

func TestChangedPixels_ShapeMismatch(t *testing.T) {
	d := Detector{}
	a := uniform(320, 240, 0)
	b := uniform(640, 480, 0)

	_, err := d.ChangedPixels(a, b)
	if err == nil {
		t.Fatal("expected error for mismatched shapes, got nil")
	}
	if !errors.Is(err, frame.ErrShapeMismatch) {
		t.Errorf("error should wrap ErrShapeMismatch, got: %v", err)
	}

	if _, err := d.Interesting(a, b); !errors.Is(err, frame.ErrShapeMismatch) {
		t.Errorf("Interesting should propagate ErrShapeMismatch, got: %v", err)
	}
}
