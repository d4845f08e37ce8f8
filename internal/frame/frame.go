package frame

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/disintegration/gift"
)

// ErrShapeMismatch means two frames with different dimensions were compared.
// This indicates miswired capture resolutions and is not recoverable.
var ErrShapeMismatch = errors.New("frame shape mismatch")

// Frame is a grayscale intensity grid, row-major, one byte per pixel.
// The detection pipeline works exclusively on these low-resolution frames;
// the full-resolution color JPEG is kept separately as the saved artifact.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8 // len == Width*Height
}

// New returns a zeroed frame of the given dimensions.
func New(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// SameShape reports whether two frames share identical dimensions.
func (f *Frame) SameShape(other *Frame) bool {
	return f.Width == other.Width && f.Height == other.Height
}

// Mean returns the average intensity over the whole frame.
// An empty frame has mean 0.
func (f *Frame) Mean() float64 {
	if len(f.Pix) == 0 {
		return 0
	}
	var sum uint64
	for _, p := range f.Pix {
		sum += uint64(p)
	}
	return float64(sum) / float64(len(f.Pix))
}

// FromImage converts an image to a grayscale Frame at the given dimensions.
// blurSigma > 0 applies a Gaussian blur before conversion to suppress
// sensor noise; 0 disables it.
func FromImage(img image.Image, width, height int, blurSigma float32) *Frame {
	filters := []gift.Filter{
		gift.Resize(width, height, gift.BoxResampling),
		gift.Grayscale(),
	}
	if blurSigma > 0 {
		filters = append(filters, gift.GaussianBlur(blurSigma))
	}
	g := gift.New(filters...)

	gray := image.NewGray(g.Bounds(img.Bounds()))
	g.Draw(gray, img)

	f := New(width, height)
	for y := 0; y < height; y++ {
		copy(f.Pix[y*width:(y+1)*width], gray.Pix[y*gray.Stride:y*gray.Stride+width])
	}
	return f
}

// DecodeJPEG decodes JPEG data and converts it to a grayscale Frame
// at the given dimensions.
func DecodeJPEG(data []byte, width, height int, blurSigma float32) (*Frame, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode jpeg: %w", err)
	}
	return FromImage(img, width, height, blurSigma), nil
}
