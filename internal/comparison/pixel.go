package comparison

import (
	"image"
	"sync/atomic"

	"github.com/disintegration/imaging"
)

// maxChannelDistance is the largest PixelDistance two pixels can have.
const maxChannelDistance = 4 * 255

// Pixel is a non-premultiplied 8-bit color sample.
type Pixel struct {
	A uint8 `json:"a"`
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// PixelDistance returns the sum of absolute per-channel differences between
// p1 and p2 across alpha, red, green and blue. The result ranges from 0 to 1020
// and does not depend on argument order.
func PixelDistance(p1, p2 Pixel) int {
	return absDiff(p1.A, p2.A) + absDiff(p1.R, p2.R) + absDiff(p1.G, p2.G) + absDiff(p1.B, p2.B)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// grid gives O(1) access to the pixels of an NRGBA image whose origin is (0,0).
type grid struct {
	pix    []uint8
	stride int
	width  int
	height int
}

// newGrid wraps img, copying it into a zero-origin NRGBA buffer unless it
// already is one.
func newGrid(img image.Image) *grid {
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = imaging.Clone(img)
	}
	return &grid{
		pix:    nrgba.Pix,
		stride: nrgba.Stride,
		width:  nrgba.Rect.Dx(),
		height: nrgba.Rect.Dy(),
	}
}

func (g *grid) at(x, y int) Pixel {
	i := y*g.stride + x*4
	p := g.pix[i : i+4 : i+4]
	return Pixel{R: p[0], G: p[1], B: p[2], A: p[3]}
}

func (g *grid) sameSize(o *grid) bool {
	return g.width == o.width && g.height == o.height
}

// DifferencePercent returns the accumulated PixelDistance of a and b as a
// percentage of the largest possible distance (4 * 255 * width * height).
//
// Both images must have the same dimensions; the caller is responsible for
// checking that. Images without pixels have a difference of 0.
func DifferencePercent(a, b image.Image) float64 {
	return differencePercent(newGrid(a), newGrid(b), 0)
}

func differencePercent(a, b *grid, workers int) float64 {
	total := int64(a.width) * int64(a.height)
	if total == 0 {
		return 0
	}

	var sum atomic.Int64
	forEachStrip(a.height, workers, func(y0, y1 int) {
		var partial int64
		for y := y0; y < y1; y++ {
			for x := 0; x < a.width; x++ {
				partial += int64(PixelDistance(a.at(x, y), b.at(x, y)))
			}
		}
		sum.Add(partial)
	})

	return 100 * float64(sum.Load()) / float64(maxChannelDistance*total)
}
