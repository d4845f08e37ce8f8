package classify

import "github.com/catnap-watch/catnap/internal/frame"

// ColorClass is the coarse color bucket assigned to a detected cat.
type ColorClass string

const (
	ColorLight   ColorClass = "light"
	ColorDark    ColorClass = "dark"
	ColorUnknown ColorClass = "unknown"
)

// Classification is the result of the brightness heuristic for one frame.
type Classification struct {
	Present        bool
	Color          ColorClass
	MeanBrightness float64
}

// Classifier guesses cat presence and color from mean frame brightness.
//
// This is a coarse heuristic, not a trained classifier: a cat on the perch
// tends to raise the overall brightness of the (mostly dark) scene, and a
// light-colored cat raises it more. False positives and negatives are
// expected. Partially visible or multiple subjects have no defined
// behavior beyond what the mean happens to say.
type Classifier struct {
	PresenceThreshold float64 // minimum mean brightness to assume presence
	LightThreshold    float64 // mean brightness separating light from dark
}

// Classify computes mean intensity over the frame and applies the two
// thresholds. Color is unknown whenever no cat is presumed present.
// Increasing mean brightness never moves a result from light to dark.
func (c Classifier) Classify(f *frame.Frame) Classification {
	mean := f.Mean()

	result := Classification{
		MeanBrightness: mean,
		Color:          ColorUnknown,
	}
	if mean < c.PresenceThreshold {
		return result
	}

	result.Present = true
	if mean >= c.LightThreshold {
		result.Color = ColorLight
	} else {
		result.Color = ColorDark
	}
	return result
}
