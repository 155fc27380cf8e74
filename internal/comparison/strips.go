package comparison

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minStripRows keeps strips large enough that goroutine overhead stays small
// next to the per-row work.
const minStripRows = 32

// forEachStrip splits the rows [0, height) into contiguous horizontal strips
// and calls fn once per strip, concurrently. fn must only touch state owned
// by its own rows. forEachStrip returns after every strip has finished.
func forEachStrip(height, workers int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rows := (height + workers - 1) / workers
	if rows < minStripRows {
		rows = minStripRows
	}
	if rows >= height {
		fn(0, height)
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < height; y0 += rows {
		y1 := min(y0+rows, height)
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}
