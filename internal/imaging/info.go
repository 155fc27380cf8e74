package imaging

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

// ImageInfo describes an image file.
type ImageInfo struct {
	// Path is the file the image was resolved to.
	Path          string `json:"path"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	// Format comes from the file extension: "png", "jpeg", "gif", "tiff",
	// "bmp" or "unknown".
	Format        string `json:"format"`
	ColorDepth    string `json:"color_depth"`
	HasAlpha      bool   `json:"has_alpha"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// Dimensions is the pixel size of an image.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

var formatNames = map[imaging.Format]string{
	imaging.JPEG: "jpeg",
	imaging.PNG:  "png",
	imaging.GIF:  "gif",
	imaging.TIFF: "tiff",
	imaging.BMP:  "bmp",
}

// Info loads path through the cache and describes it.
func (c *ImageCache) Info(path string) (*ImageInfo, error) {
	img, resolved, err := c.load(path)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(resolved)
	if err != nil {
		return nil, &ImageReadError{Path: resolved, Err: err}
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(resolved); err == nil {
		format = formatNames[f]
	}
	depth, alpha := pixelModel(img)

	return &ImageInfo{
		Path:          resolved,
		Width:         img.Bounds().Dx(),
		Height:        img.Bounds().Dy(),
		Format:        format,
		ColorDepth:    depth,
		HasAlpha:      alpha,
		FileSizeBytes: stat.Size(),
	}, nil
}

// Dimensions loads path through the cache and returns its size.
func (c *ImageCache) Dimensions(path string) (Dimensions, error) {
	img, err := c.Load(path)
	if err != nil {
		return Dimensions{}, err
	}
	return Dimensions{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}, nil
}

// String formats d as WIDTHxHEIGHT.
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// pixelModel reports the channel depth of the decoded image type and whether
// it carries alpha.
func pixelModel(img image.Image) (depth string, alpha bool) {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		return "8-bit", true
	case *image.RGBA64, *image.NRGBA64:
		return "16-bit", true
	case *image.Gray16:
		return "16-bit", false
	default:
		return "8-bit", false
	}
}
