// Package imaging provides the file and rendering side of image comparison.
//
// The comparison core works on decoded images only. This package supplies
// everything around it: loading and caching images from disk, writing the
// annotated result, drawing difference rectangles, sampling pixel colors and
// cropping a difference for inspection, and resizing a screenshot to a baseline's dimensions.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based and relative to the image
// origin:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Regions are comparison.Rectangle values with inclusive corners
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Overlay, CropRegion and
// Resize never modify their input image and can be called concurrently.
//
// # Error Handling
//
// File operations report typed errors:
//   - ErrImageNotFound (test with errors.Is) when no candidate path exists
//   - *ImageReadError when a file exists but cannot be opened or decoded
//   - *ImageWriteError when an image cannot be encoded or written
//
// Invalid arguments such as out-of-bounds crop regions are plain errors.
//
// # Performance Considerations
//
// For repeated comparisons against the same baseline, use ImageCache to avoid
// redundant disk reads. Large images may consume significant memory when cached.
// Consider using Evict() or Clear() to manage memory for long-running processes.
package imaging
