package comparison

import (
	"image"
	"sync/atomic"
)

// clusterer groups differing pixels of two equally sized grids into regions.
type clusterer struct {
	expected *grid
	actual   *grid
	opts     Options
}

// differingMask marks every pixel whose distance exceeds the pixel threshold
// and which is not excluded. The mask is indexed y*width+x. It also returns
// the number of marked pixels.
func (c *clusterer) differingMask() ([]bool, int) {
	w, h := c.actual.width, c.actual.height
	mask := make([]bool, w*h)

	var count atomic.Int64
	forEachStrip(h, c.opts.Workers, func(y0, y1 int) {
		var n int64
		for y := y0; y < y1; y++ {
			row := mask[y*w : (y+1)*w]
			for x := 0; x < w; x++ {
				if PixelDistance(c.expected.at(x, y), c.actual.at(x, y)) <= c.opts.PixelThreshold {
					continue
				}
				if c.opts.ExcludedAreas.Contains(x, y) {
					continue
				}
				row[x] = true
				n++
			}
		}
		count.Add(n)
	})

	return mask, int(count.Load())
}

// regions scans the grid in row-major order and grows one rectangle per
// unvisited differing pixel with a breadth-first search over the pixels
// reachable within the adjacency radius. Rectangles are returned in the order
// their seeds were found.
func (c *clusterer) regions() []Rectangle {
	w, h := c.actual.width, c.actual.height
	if w == 0 || h == 0 {
		return nil
	}

	mask, count := c.differingMask()
	if count == 0 {
		return nil
	}
	if allowed := c.opts.AllowedDifferentPixelsPercent; allowed > 0 {
		if 100*float64(count)/float64(w*h) <= allowed {
			return nil
		}
	}

	// A window wider than the grid covers the same pixels; clamping keeps
	// p+radius from overflowing.
	radius := min(c.opts.AdjacencyRadius, max(w, h))
	visited := make([]bool, w*h)
	queue := make([]image.Point, 0, 64)

	var rects []Rectangle
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if !mask[i] || visited[i] {
				continue
			}

			visited[i] = true
			rect := EmptyRectangle()
			queue = append(queue[:0], image.Point{X: x, Y: y})

			for head := 0; head < len(queue); head++ {
				p := queue[head]
				rect = rect.extend(p.X, p.Y)

				// Excluded pixels are absent from the mask, so the window
				// skips over them without stopping the search.
				for ny := max(0, p.Y-radius); ny <= min(h-1, p.Y+radius); ny++ {
					for nx := max(0, p.X-radius); nx <= min(w-1, p.X+radius); nx++ {
						j := ny*w + nx
						if mask[j] && !visited[j] {
							visited[j] = true
							queue = append(queue, image.Point{X: nx, Y: ny})
						}
					}
				}
			}

			rects = append(rects, rect)
		}
	}

	return rects
}
