package detect

import (
	"fmt"

	"github.com/catnap-watch/catnap/internal/frame"
)

// Detector decides whether two successive frames differ enough to be
// "interesting". The scalar is the count of pixels whose absolute
// difference exceeds PixelThreshold; a frame is interesting when that
// count exceeds DiffThreshold. The comparison is symmetric in its
// arguments since the absolute difference is commutative.
type Detector struct {
	PixelThreshold int // per-pixel absolute difference counted as changed (0-255)
	DiffThreshold  int // changed-pixel count above which a frame is interesting
}

// ChangedPixels returns the number of pixels whose absolute difference
// between the two frames exceeds PixelThreshold. The frames must share
// identical dimensions; a mismatch is a fatal configuration error.
func (d Detector) ChangedPixels(prev, cur *frame.Frame) (int, error) {
	if !prev.SameShape(cur) {
		return 0, fmt.Errorf("%w: previous %dx%d vs current %dx%d",
			frame.ErrShapeMismatch, prev.Width, prev.Height, cur.Width, cur.Height)
	}

	changed := 0
	for i := range prev.Pix {
		diff := int(prev.Pix[i]) - int(cur.Pix[i])
		if diff < 0 {
			diff = -diff
		}
		if diff > d.PixelThreshold {
			changed++
		}
	}
	return changed, nil
}

// Interesting reports whether cur differs from prev beyond the configured
// threshold.
func (d Detector) Interesting(prev, cur *frame.Frame) (bool, error) {
	changed, err := d.ChangedPixels(prev, cur)
	if err != nil {
		return false, err
	}
	return changed > d.DiffThreshold, nil
}
