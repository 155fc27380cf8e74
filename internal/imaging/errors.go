package imaging

import (
	"errors"
	"fmt"
)

// ErrImageNotFound is returned when an image exists neither at the given
// path nor under any configured search directory. Test for it with errors.Is.
var ErrImageNotFound = errors.New("image not found")

// ImageReadError reports an image that exists but could not be read or decoded.
type ImageReadError struct {
	Path string
	Err  error
}

func (e *ImageReadError) Error() string {
	return fmt.Sprintf("cannot read image %s: %v", e.Path, e.Err)
}

func (e *ImageReadError) Unwrap() error { return e.Err }

// ImageWriteError reports an image that could not be encoded or written.
type ImageWriteError struct {
	Path string
	Err  error
}

func (e *ImageWriteError) Error() string {
	return fmt.Sprintf("cannot save image to %s: %v", e.Path, e.Err)
}

func (e *ImageWriteError) Unwrap() error { return e.Err }
