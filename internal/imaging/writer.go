package imaging

import (
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// SaveImage encodes img to path, creating parent directories as needed.
//
// The encoder is chosen from the file extension (PNG, JPEG, GIF, TIFF, BMP).
// A path without an extension gets ".png" appended. The path actually written
// is returned.
//
// Any failure is reported as *ImageWriteError.
func SaveImage(path string, img image.Image) (string, error) {
	if filepath.Ext(path) == "" {
		path += ".png"
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", &ImageWriteError{Path: path, Err: err}
		}
	}

	if err := imaging.Save(img, path); err != nil {
		return "", &ImageWriteError{Path: path, Err: err}
	}
	return path, nil
}
