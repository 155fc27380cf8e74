package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-compare-mcp/internal/comparison"
)

// RGBAColor represents an RGBA color with 8-bit, non-premultiplied components.
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in several representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    `json:"x"`               // X coordinate (0-based)
	Y     int    `json:"y"`               // Y coordinate (0-based)
	Label string `json:"label,omitempty"` // Optional descriptive label for this point
}

// PixelSample holds the colors of one coordinate in both images of a
// comparison and how far apart they are.
type PixelSample struct {
	LabeledPoint
	Expected ColorResult `json:"expected"`
	Actual   ColorResult `json:"actual"`

	// Distance is comparison.PixelDistance of the two pixels (0-1020).
	Distance int `json:"distance"`

	// Exceeds reports whether Distance is above the threshold sampled with,
	// meaning the pixel counts as different.
	Exceeds bool `json:"exceeds"`
}

// SamplePixels reads the pixel at every point from both images.
//
// It explains a comparison result at pixel level: why a pixel is inside a
// difference rectangle, or why a visible change stays below threshold.
//
// Parameters:
//   - expected, actual: images of the same size
//   - points: coordinates relative to the image origin
//   - threshold: the pixel threshold used for Exceeds
//
// Returns an error if the images differ in size or any point is outside
// them. On error, no partial results are returned.
func SamplePixels(expected, actual image.Image, points []LabeledPoint, threshold int) ([]PixelSample, error) {
	es, as := expected.Bounds().Size(), actual.Bounds().Size()
	if es != as {
		return nil, fmt.Errorf("image sizes differ: %dx%d vs %dx%d", es.X, es.Y, as.X, as.Y)
	}

	samples := make([]PixelSample, 0, len(points))
	for _, p := range points {
		if p.X < 0 || p.Y < 0 || p.X >= es.X || p.Y >= es.Y {
			return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", p.X, p.Y, es.X, es.Y)
		}

		e := pixelAt(expected, p.X, p.Y)
		a := pixelAt(actual, p.X, p.Y)
		d := comparison.PixelDistance(toPixel(e), toPixel(a))

		samples = append(samples, PixelSample{
			LabeledPoint: p,
			Expected:     newColorResult(e),
			Actual:       newColorResult(a),
			Distance:     d,
			Exceeds:      d > threshold,
		})
	}
	return samples, nil
}

// pixelAt returns the non-premultiplied color at (x, y) relative to the
// image origin.
func pixelAt(img image.Image, x, y int) color.NRGBA {
	origin := img.Bounds().Min
	return color.NRGBAModel.Convert(img.At(origin.X+x, origin.Y+y)).(color.NRGBA)
}

func toPixel(c color.NRGBA) comparison.Pixel {
	return comparison.Pixel{A: c.A, R: c.R, G: c.G, B: c.B}
}

func newColorResult(c color.NRGBA) ColorResult {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, l := cf.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return ColorResult{
		Hex:  fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}
