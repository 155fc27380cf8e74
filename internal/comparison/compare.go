package comparison

import (
	"image"
	"sort"
)

// DefaultAdjacencyRadius is the window, in pixels, within which two differing
// pixels end up in the same region unless configured otherwise.
const DefaultAdjacencyRadius = 5

// sizeMismatchPercent is reported for images whose dimensions differ.
const sizeMismatchPercent = 100

// Options controls how differences are detected and grouped.
type Options struct {
	// PixelThreshold is the PixelDistance a pixel pair must exceed to count
	// as different. 0 counts any difference.
	PixelThreshold int

	// AdjacencyRadius is the Chebyshev distance within which differing
	// pixels join the same region. 0 keeps every differing pixel separate.
	// Radii beyond the larger image side act like that side. Each differing
	// pixel scans a (2r+1)x(2r+1) window, so keep it below about 50 for
	// screenshots with large changed areas.
	AdjacencyRadius int

	// ExcludedAreas are ignored entirely when looking for differences.
	ExcludedAreas ExcludedAreas

	// AllowedDifferentPixelsPercent lets a comparison match while the share
	// of differing pixels stays at or below this percentage. 0 disables it.
	AllowedDifferentPixelsPercent float64

	// MinimalRectangleSize drops merged rectangles covering fewer pixels.
	// 0 keeps all of them.
	MinimalRectangleSize int

	// MaximalRectangleCount keeps only the largest N merged rectangles.
	// 0 keeps all of them.
	MaximalRectangleCount int

	// Workers bounds the goroutines used to scan pixel rows. 0 uses
	// runtime.GOMAXPROCS(0).
	Workers int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{AdjacencyRadius: DefaultAdjacencyRadius}
}

func (o Options) normalized() Options {
	o.PixelThreshold = max(o.PixelThreshold, 0)
	o.AdjacencyRadius = max(o.AdjacencyRadius, 0)
	o.MinimalRectangleSize = max(o.MinimalRectangleSize, 0)
	o.MaximalRectangleCount = max(o.MaximalRectangleCount, 0)
	o.Workers = max(o.Workers, 0)
	if o.AllowedDifferentPixelsPercent < 0 {
		o.AllowedDifferentPixelsPercent = 0
	}
	return o
}

// Renderer draws difference rectangles onto a copy of an image.
type Renderer interface {
	DrawRectangles(img image.Image, rects []Rectangle) image.Image
}

// Comparator compares image pairs with a fixed set of options.
// It holds no per-comparison state and is safe for concurrent use as long as
// its Renderer is.
type Comparator struct {
	opts     Options
	renderer Renderer
}

// New returns a Comparator. renderer may be nil, in which case mismatching
// results carry the unannotated actual image.
func New(opts Options, renderer Renderer) *Comparator {
	return &Comparator{opts: opts.normalized(), renderer: renderer}
}

// Options returns the normalized options of c.
func (c *Comparator) Options() Options {
	return c.opts
}

// Compare compares expected and actual using opts without annotating the
// result image.
func Compare(expected, actual image.Image, opts Options) Result {
	return New(opts, nil).Compare(expected, actual)
}

// Compare classifies the pair as SizeMismatch, Match or Mismatch.
//
// Images of different dimensions are not compared pixel by pixel. Otherwise
// differing pixels are clustered into rectangles, overlapping rectangles are
// merged, and the size and count filters are applied. No surviving rectangle
// means Match.
func (c *Comparator) Compare(expected, actual image.Image) Result {
	if expected.Bounds().Size() != actual.Bounds().Size() {
		return Result{
			Expected:          expected,
			Actual:            actual,
			Annotated:         actual,
			State:             SizeMismatch,
			DifferencePercent: sizeMismatchPercent,
			Rectangles:        []Rectangle{},
		}
	}

	eg, ag := newGrid(expected), newGrid(actual)
	cl := &clusterer{expected: eg, actual: ag, opts: c.opts}
	rects := c.filter(MergeRectangles(cl.regions()))
	percent := differencePercent(eg, ag, c.opts.Workers)

	if len(rects) == 0 {
		return Result{
			Expected:          expected,
			Actual:            actual,
			Annotated:         actual,
			State:             Match,
			DifferencePercent: percent,
			Rectangles:        []Rectangle{},
		}
	}

	annotated := actual
	if c.renderer != nil {
		annotated = c.renderer.DrawRectangles(actual, rects)
	}
	return Result{
		Expected:          expected,
		Actual:            actual,
		Annotated:         annotated,
		State:             Mismatch,
		DifferencePercent: percent,
		Rectangles:        rects,
	}
}

// filter applies MinimalRectangleSize and MaximalRectangleCount, keeping the
// surviving rectangles in their merged order.
func (c *Comparator) filter(rects []Rectangle) []Rectangle {
	if minSize := c.opts.MinimalRectangleSize; minSize > 0 {
		kept := rects[:0]
		for _, r := range rects {
			if r.Size() >= minSize {
				kept = append(kept, r)
			}
		}
		rects = kept
	}

	limit := c.opts.MaximalRectangleCount
	if limit == 0 || len(rects) <= limit {
		return rects
	}

	order := make([]int, len(rects))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return rects[order[i]].Size() > rects[order[j]].Size()
	})
	keep := order[:limit]
	sort.Ints(keep)

	out := make([]Rectangle, 0, limit)
	for _, i := range keep {
		out = append(out, rects[i])
	}
	return out
}
