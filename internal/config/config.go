// Package config loads comparison profiles.
//
// A profile fixes everything about a comparison except the two images: how
// sensitive pixel matching is, which areas are ignored, how regions are
// grouped and filtered, and how the annotated image is drawn. Keeping these
// in a file lets a test suite check many screenshots against one policy.
//
// Profiles are YAML (.yaml, .yml) or JSON with comments (.json, .jsonc).
// Keys left out of the file keep their Default values:
//
//	# visual.yaml
//	pixel_threshold: 12
//	adjacency_radius: 3
//	excluded_areas:
//	  - {min_x: 0, min_y: 0, max_x: 1279, max_y: 63}  # clock in the header
//	overlay:
//	  color: "#FF00FF"
//	  line_width: 2
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-compare-mcp/internal/comparison"
	"github.com/ironsheep/image-compare-mcp/internal/imaging"
)

// Profile is a comparison configuration as stored on disk.
type Profile struct {
	// PixelThreshold is the per-pixel distance (0-1020) that must be
	// exceeded for a pixel to count as different.
	PixelThreshold int `json:"pixel_threshold" yaml:"pixel_threshold"`

	// AdjacencyRadius groups differing pixels within this many pixels
	// into one region. Large values get slow on big diffs; see
	// comparison.Options.
	AdjacencyRadius int `json:"adjacency_radius" yaml:"adjacency_radius"`

	// ExcludedAreas are ignored when looking for differences. Corners may
	// be given in either order.
	ExcludedAreas []comparison.Rectangle `json:"excluded_areas" yaml:"excluded_areas"`

	// AllowedDifferentPixelsPercent tolerates up to this share of
	// differing pixels before reporting a mismatch.
	AllowedDifferentPixelsPercent float64 `json:"allowed_different_pixels_percent" yaml:"allowed_different_pixels_percent"`

	// MinimalRectangleSize drops reported regions smaller than this many pixels.
	MinimalRectangleSize int `json:"minimal_rectangle_size" yaml:"minimal_rectangle_size"`

	// MaximalRectangleCount reports at most this many regions, largest first.
	MaximalRectangleCount int `json:"maximal_rectangle_count" yaml:"maximal_rectangle_count"`

	// Workers bounds the goroutines scanning each image. 0 means one per CPU.
	Workers int `json:"workers" yaml:"workers"`

	// BaselineDirs are searched, in order, for images given by relative path.
	BaselineDirs []string `json:"baseline_dirs" yaml:"baseline_dirs"`

	// Overlay styles the annotated image.
	Overlay imaging.Overlay `json:"overlay" yaml:"overlay"`
}

// Default returns the profile used when no file is given. Its comparison
// settings equal comparison.DefaultOptions.
func Default() *Profile {
	opts := comparison.DefaultOptions()
	return &Profile{
		PixelThreshold:  opts.PixelThreshold,
		AdjacencyRadius: opts.AdjacencyRadius,
		Overlay:         *imaging.DefaultOverlay(),
	}
}

// Load reads a profile from path, choosing the format from its extension.
// Values missing from the file keep their defaults. The result is validated.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	p, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a profile from data. ext selects the format and is a file
// extension such as ".yaml" or ".jsonc".
func Parse(data []byte, ext string) (*Profile, error) {
	p := Default()

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, err
		}
	case ".json", ".jsonc":
		// Strip comments and trailing commas before handing off to
		// encoding/json.
		if err := json.Unmarshal(jsonc.ToJSON(data), p); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported profile format %q (want .yaml, .yml, .json or .jsonc)", ext)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate reports settings that cannot be applied.
func (p *Profile) Validate() error {
	switch {
	case p.PixelThreshold < 0:
		return fmt.Errorf("pixel_threshold must not be negative, got %d", p.PixelThreshold)
	case p.AdjacencyRadius < 0:
		return fmt.Errorf("adjacency_radius must not be negative, got %d", p.AdjacencyRadius)
	case p.AllowedDifferentPixelsPercent < 0 || p.AllowedDifferentPixelsPercent > 100:
		return fmt.Errorf("allowed_different_pixels_percent must be within [0,100], got %g", p.AllowedDifferentPixelsPercent)
	case p.MinimalRectangleSize < 0:
		return fmt.Errorf("minimal_rectangle_size must not be negative, got %d", p.MinimalRectangleSize)
	case p.MaximalRectangleCount < 0:
		return fmt.Errorf("maximal_rectangle_count must not be negative, got %d", p.MaximalRectangleCount)
	case p.Workers < 0:
		return fmt.Errorf("workers must not be negative, got %d", p.Workers)
	}
	if err := p.Overlay.Validate(); err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	return nil
}

// ComparisonOptions converts the profile into options for the comparator.
func (p *Profile) ComparisonOptions() comparison.Options {
	return comparison.Options{
		PixelThreshold:                p.PixelThreshold,
		AdjacencyRadius:               p.AdjacencyRadius,
		ExcludedAreas:                 p.excluded(),
		AllowedDifferentPixelsPercent: p.AllowedDifferentPixelsPercent,
		MinimalRectangleSize:          p.MinimalRectangleSize,
		MaximalRectangleCount:         p.MaximalRectangleCount,
		Workers:                       p.Workers,
	}
}

// Renderer returns the overlay renderer for the profile, already aware of
// the excluded areas in case they are to be drawn.
func (p *Profile) Renderer() *imaging.Overlay {
	o := p.Overlay
	o.Excluded = p.excluded()
	return &o
}

func (p *Profile) excluded() comparison.ExcludedAreas {
	if len(p.ExcludedAreas) == 0 {
		return nil
	}
	areas := make(comparison.ExcludedAreas, len(p.ExcludedAreas))
	for i, r := range p.ExcludedAreas {
		areas[i] = comparison.NewRectangle(r.MinX, r.MinY, r.MaxX, r.MaxY)
	}
	return areas
}
