package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-compare-mcp/internal/comparison"
)

// Default overlay styling.
const (
	DefaultLineWidth     = 1
	DefaultColor         = "#FF0000"
	DefaultExcludedColor = "#00FF00"
)

// Overlay draws difference rectangles on top of an image. It implements
// comparison.Renderer.
//
// Outlines are drawn inside each rectangle so that a one-pixel difference at
// (x,y) is marked by exactly that pixel, and a rectangle touching the image
// edge stays fully visible.
type Overlay struct {
	// LineWidth is the outline thickness in pixels; values below 1 use 1.
	LineWidth int `json:"line_width" yaml:"line_width"`

	// Color is the outline color as "#RRGGBB" or "#RGB".
	Color string `json:"color" yaml:"color"`

	// FillOpacity between 0 and 1 fills the rectangle interior with Color
	// at that opacity. 0 draws outlines only.
	FillOpacity float64 `json:"fill_opacity" yaml:"fill_opacity"`

	// DrawExcluded also outlines Excluded in ExcludedColor, beneath the
	// difference rectangles.
	DrawExcluded  bool                     `json:"draw_excluded" yaml:"draw_excluded"`
	Excluded      comparison.ExcludedAreas `json:"-" yaml:"-"`
	ExcludedColor string                   `json:"excluded_color" yaml:"excluded_color"`
}

// DefaultOverlay returns a one-pixel red outline renderer.
func DefaultOverlay() *Overlay {
	return &Overlay{
		LineWidth:     DefaultLineWidth,
		Color:         DefaultColor,
		ExcludedColor: DefaultExcludedColor,
	}
}

// Validate reports malformed colors or an out of range fill opacity.
func (o *Overlay) Validate() error {
	if o.Color != "" {
		if _, err := parseHexColor(o.Color); err != nil {
			return fmt.Errorf("invalid color %q: %w", o.Color, err)
		}
	}
	if o.ExcludedColor != "" {
		if _, err := parseHexColor(o.ExcludedColor); err != nil {
			return fmt.Errorf("invalid excluded color %q: %w", o.ExcludedColor, err)
		}
	}
	if o.FillOpacity < 0 || o.FillOpacity > 1 {
		return fmt.Errorf("fill opacity %g outside [0,1]", o.FillOpacity)
	}
	return nil
}

// DrawRectangles returns a copy of img with rects outlined. img itself is
// never modified. Colors that fail to parse fall back to the defaults; call
// Validate beforehand to surface them as errors instead.
func (o *Overlay) DrawRectangles(img image.Image, rects []comparison.Rectangle) image.Image {
	// Clone first so rectangle coordinates, which are relative to the image
	// origin, line up with the context's zero-based space.
	dc := gg.NewContextForImage(imaging.Clone(img))

	lineWidth := max(o.LineWidth, 1)

	if o.DrawExcluded {
		dc.SetColor(colorOrDefault(o.ExcludedColor, DefaultExcludedColor))
		for _, r := range o.Excluded {
			outline(dc, r, lineWidth)
		}
	}

	c := colorOrDefault(o.Color, DefaultColor)
	if o.FillOpacity > 0 {
		dc.SetRGBA(c.R, c.G, c.B, min(o.FillOpacity, 1))
		for _, r := range rects {
			if r.IsEmpty() {
				continue
			}
			dc.DrawRectangle(float64(r.MinX), float64(r.MinY), float64(r.Width()), float64(r.Height()))
			dc.Fill()
		}
	}

	dc.SetColor(c)
	for _, r := range rects {
		outline(dc, r, lineWidth)
	}

	return dc.Image()
}

// outline fills the four edge bars of r, lw pixels thick, on integer
// boundaries so no edge pixel is partially covered.
func outline(dc *gg.Context, r comparison.Rectangle, lw int) {
	if r.IsEmpty() {
		return
	}
	x, y := float64(r.MinX), float64(r.MinY)
	w, h := float64(r.Width()), float64(r.Height())

	if 2*lw >= r.Width() || 2*lw >= r.Height() {
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
		return
	}

	t := float64(lw)
	dc.DrawRectangle(x, y, w, t)
	dc.DrawRectangle(x, y+h-t, w, t)
	dc.DrawRectangle(x, y+t, t, h-2*t)
	dc.DrawRectangle(x+w-t, y+t, t, h-2*t)
	dc.Fill()
}

// parseHexColor parses a hex color string like "#FF0000" or "#F00".
func parseHexColor(hex string) (colorful.Color, error) {
	if len(hex) == 0 {
		return colorful.Color{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}
	return colorful.Hex(hex)
}

func colorOrDefault(hex, fallback string) colorful.Color {
	c, err := parseHexColor(hex)
	if err != nil {
		c, _ = colorful.Hex(fallback)
	}
	return c
}
