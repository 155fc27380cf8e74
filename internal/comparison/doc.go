// Package comparison detects differences between an expected and an actual
// image for visual regression testing.
//
// A comparison runs in four steps:
//
//  1. Size check: images with different dimensions are reported as
//     SizeMismatch without pixel comparison.
//  2. Clustering: every pixel whose PixelDistance exceeds the threshold, and
//     which lies outside the excluded areas, is a differing pixel. A row-major
//     scan seeds a region at each unvisited differing pixel and grows it
//     breadth-first to all differing pixels within the adjacency radius.
//  3. Merging: overlapping region rectangles are merged until none overlap.
//  4. Classification: no rectangles means Match, otherwise Mismatch, and the
//     actual image is annotated through the configured Renderer.
//
// # Coordinate System
//
// Rectangle uses inclusive corners, matching how regions are grown from
// single pixels. Use Rectangle.Bounds to get the half-open image.Rectangle
// expected by image/draw and friends.
//
// # Concurrency
//
// Pixel rows are scanned in strips on several goroutines. Region growth always
// runs over the complete mask, so the result does not depend on the number of
// workers.
package comparison
