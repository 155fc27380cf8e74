package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-compare-mcp/internal/comparison"
)

// CropResult contains the cropped image data
type CropResult struct {
	// Region is the area actually cropped, after padding and clamping,
	// in inclusive coordinates of the source image.
	Region      comparison.Rectangle `json:"region"`
	Width       int                  `json:"width"`
	Height      int                  `json:"height"`
	ImageBase64 string               `json:"image_base64"`
	MimeType    string               `json:"mime_type"`
}

// CropRegion extracts a difference rectangle from an image for close inspection.
//
// Parameters:
//   - img: source image
//   - rect: region to extract, inclusive corners relative to the image origin
//   - padding: pixels of context added on every side, clamped to the image
//   - scale: resize factor applied after cropping; 1.0 or non-positive keeps the size
//
// Returns the PNG-encoded crop as base64.
func CropRegion(img image.Image, rect comparison.Rectangle, padding int, scale float64) (*CropResult, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if rect.IsEmpty() {
		return nil, fmt.Errorf("invalid crop region %s: region is empty", rect)
	}
	if rect.MinX < 0 || rect.MinY < 0 || rect.MaxX >= w || rect.MaxY >= h {
		return nil, fmt.Errorf("crop region %s outside image bounds %dx%d", rect, w, h)
	}
	padding = max(padding, 0)

	region := comparison.Rectangle{
		MinX: max(rect.MinX-padding, 0),
		MinY: max(rect.MinY-padding, 0),
		MaxX: min(rect.MaxX+padding, w-1),
		MaxY: min(rect.MaxY+padding, h-1),
	}

	cropped := imaging.Crop(img, region.Bounds().Add(bounds.Min))

	if scale != 1.0 && scale > 0 {
		newWidth := max(int(float64(cropped.Bounds().Dx())*scale), 1)
		newHeight := max(int(float64(cropped.Bounds().Dy())*scale), 1)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Region:      region,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
