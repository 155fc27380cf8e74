package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/disintegration/imaging"
)

// softenFactor is the weight each of the four direct neighbours contributes
// to a pixel after resizing.
const softenFactor = 0.05

// softenKernel smooths resampling artifacts so that a resized screenshot
// compares cleanly against one captured at the target size.
var softenKernel = &convolution.Kernel{
	Matrix: []float64{
		0, softenFactor, 0,
		softenFactor, 1 - 4*softenFactor, softenFactor,
		0, softenFactor, 0,
	},
	Width:  3,
	Height: 3,
}

// Resize scales img to width x height with a Lanczos filter and softens the
// result with a light 3x3 blur. The alpha channel is left as resampled.
//
// # Errors
//
// Returns an error if either dimension is not positive.
func Resize(img image.Image, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d: width and height must be positive", width, height)
	}

	resized := imaging.Resize(img, width, height, imaging.Lanczos)
	return convolution.Convolve(resized, softenKernel, &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true}), nil
}
