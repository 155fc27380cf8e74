package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/image-compare-mcp/internal/comparison"
	"github.com/ironsheep/image-compare-mcp/internal/config"
	"github.com/ironsheep/image-compare-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_compare").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Malformed tool arguments return a JSON-RPC error response with code -32602,
// any other tool failure uses code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return replyError(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		var argErr *argumentError
		if errors.As(err, &argErr) {
			return replyError(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return replyError(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return reply(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": mustMarshalJSON(result)},
		},
	})
}

// argumentError marks tool arguments that could not be decoded or are
// missing required values.
type argumentError struct {
	tool string
	err  error
}

func (e *argumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.tool, e.err)
}

func (e *argumentError) Unwrap() error { return e.err }

// decodeArgs unmarshals tool arguments into v. Empty arguments decode as {}.
func decodeArgs(tool string, args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &argumentError{tool: tool, err: err}
	}
	return nil
}

func missing(tool string, names ...string) error {
	return &argumentError{tool: tool, err: fmt.Errorf("missing required argument(s): %v", names)}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging or comparison function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Comparison
	case "image_compare":
		return s.handleImageCompare(args)
	case "image_difference_percent":
		return s.handleImageDifferencePercent(args)

	// Inspection
	case "image_sample_pixels":
		return s.handleImageSamplePixels(args)
	case "image_crop_region":
		return s.handleImageCropRegion(args)
	case "image_resize":
		return s.handleImageResize(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs("image_load", args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, missing("image_load", "path")
	}
	return s.cache.Info(a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs("image_dimensions", args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, missing("image_dimensions", "path")
	}
	return s.cache.Dimensions(a.Path)
}

// === Comparison Handlers ===

// imageCompareArgs uses pointers for options so that an omitted value falls
// back to the profile while an explicit zero still applies.
type imageCompareArgs struct {
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Output   string `json:"output"`

	PixelThreshold                *int                   `json:"pixel_threshold"`
	AdjacencyRadius               *int                   `json:"adjacency_radius"`
	ExcludedAreas                 []comparison.Rectangle `json:"excluded_areas"`
	AllowedDifferentPixelsPercent *float64               `json:"allowed_different_pixels_percent"`
	MinimalRectangleSize          *int                   `json:"minimal_rectangle_size"`
	MaximalRectangleCount         *int                   `json:"maximal_rectangle_count"`

	LineWidth    *int     `json:"line_width"`
	Color        *string  `json:"color"`
	FillOpacity  *float64 `json:"fill_opacity"`
	DrawExcluded *bool    `json:"draw_excluded"`
}

// profile returns a copy of base with the call's overrides applied.
func (a *imageCompareArgs) profile(base *config.Profile) *config.Profile {
	p := *base
	if a.PixelThreshold != nil {
		p.PixelThreshold = *a.PixelThreshold
	}
	if a.AdjacencyRadius != nil {
		p.AdjacencyRadius = *a.AdjacencyRadius
	}
	if a.ExcludedAreas != nil {
		p.ExcludedAreas = a.ExcludedAreas
	}
	if a.AllowedDifferentPixelsPercent != nil {
		p.AllowedDifferentPixelsPercent = *a.AllowedDifferentPixelsPercent
	}
	if a.MinimalRectangleSize != nil {
		p.MinimalRectangleSize = *a.MinimalRectangleSize
	}
	if a.MaximalRectangleCount != nil {
		p.MaximalRectangleCount = *a.MaximalRectangleCount
	}
	if a.LineWidth != nil {
		p.Overlay.LineWidth = *a.LineWidth
	}
	if a.Color != nil {
		p.Overlay.Color = *a.Color
	}
	if a.FillOpacity != nil {
		p.Overlay.FillOpacity = *a.FillOpacity
	}
	if a.DrawExcluded != nil {
		p.Overlay.DrawExcluded = *a.DrawExcluded
	}
	return &p
}

// CompareResult is the image_compare tool output.
type CompareResult struct {
	State             comparison.State       `json:"state"`
	Match             bool                   `json:"match"`
	DifferencePercent float64                `json:"difference_percent"`
	Rectangles        []comparison.Rectangle `json:"rectangles"`
	ExpectedSize      [2]int                 `json:"expected_size"`
	ActualSize        [2]int                 `json:"actual_size"`
	Output            string                 `json:"output,omitempty"`
}

func (s *Server) handleImageCompare(args json.RawMessage) (interface{}, error) {
	var a imageCompareArgs
	if err := decodeArgs("image_compare", args, &a); err != nil {
		return nil, err
	}
	if a.Expected == "" || a.Actual == "" {
		return nil, missing("image_compare", "expected", "actual")
	}

	p := a.profile(s.profile)
	if err := p.Validate(); err != nil {
		return nil, &argumentError{tool: "image_compare", err: err}
	}

	expected, err := s.cache.Load(a.Expected)
	if err != nil {
		return nil, fmt.Errorf("expected image: %w", err)
	}
	// The actual image is usually a fresh capture written to the same path
	// on every run, so it is always read from disk.
	s.cache.Evict(a.Actual)
	actual, err := s.cache.Load(a.Actual)
	if err != nil {
		return nil, fmt.Errorf("actual image: %w", err)
	}

	res := comparison.New(p.ComparisonOptions(), p.Renderer()).Compare(expected, actual)

	out := &CompareResult{
		State:             res.State,
		Match:             res.State == comparison.Match,
		DifferencePercent: res.DifferencePercent,
		Rectangles:        res.Rectangles,
		ExpectedSize:      [2]int{expected.Bounds().Dx(), expected.Bounds().Dy()},
		ActualSize:        [2]int{actual.Bounds().Dx(), actual.Bounds().Dy()},
	}

	if a.Output != "" {
		written, err := imaging.SaveImage(a.Output, res.Annotated)
		if err != nil {
			return nil, err
		}
		out.Output = written
	}
	return out, nil
}

type imagePairArgs struct {
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// DifferencePercentResult is the image_difference_percent tool output.
type DifferencePercentResult struct {
	DifferencePercent float64 `json:"difference_percent"`
}

func (s *Server) handleImageDifferencePercent(args json.RawMessage) (interface{}, error) {
	var a imagePairArgs
	if err := decodeArgs("image_difference_percent", args, &a); err != nil {
		return nil, err
	}
	if a.Expected == "" || a.Actual == "" {
		return nil, missing("image_difference_percent", "expected", "actual")
	}

	expected, err := s.cache.Load(a.Expected)
	if err != nil {
		return nil, fmt.Errorf("expected image: %w", err)
	}
	actual, err := s.cache.Load(a.Actual)
	if err != nil {
		return nil, fmt.Errorf("actual image: %w", err)
	}

	es, as := expected.Bounds().Size(), actual.Bounds().Size()
	if es != as {
		return nil, fmt.Errorf("image sizes differ: %dx%d vs %dx%d", es.X, es.Y, as.X, as.Y)
	}
	return &DifferencePercentResult{DifferencePercent: comparison.DifferencePercent(expected, actual)}, nil
}

// === Inspection Handlers ===

type imageSamplePixelsArgs struct {
	Expected       string                 `json:"expected"`
	Actual         string                 `json:"actual"`
	Points         []imaging.LabeledPoint `json:"points"`
	PixelThreshold *int                   `json:"pixel_threshold"`
}

// SamplePixelsResult is the image_sample_pixels tool output.
type SamplePixelsResult struct {
	PixelThreshold int                   `json:"pixel_threshold"`
	Samples        []imaging.PixelSample `json:"samples"`
}

func (s *Server) handleImageSamplePixels(args json.RawMessage) (interface{}, error) {
	var a imageSamplePixelsArgs
	if err := decodeArgs("image_sample_pixels", args, &a); err != nil {
		return nil, err
	}
	if a.Expected == "" || a.Actual == "" || len(a.Points) == 0 {
		return nil, missing("image_sample_pixels", "expected", "actual", "points")
	}
	threshold := s.profile.PixelThreshold
	if a.PixelThreshold != nil {
		threshold = *a.PixelThreshold
	}

	expected, err := s.cache.Load(a.Expected)
	if err != nil {
		return nil, fmt.Errorf("expected image: %w", err)
	}
	actual, err := s.cache.Load(a.Actual)
	if err != nil {
		return nil, fmt.Errorf("actual image: %w", err)
	}

	samples, err := imaging.SamplePixels(expected, actual, a.Points, threshold)
	if err != nil {
		return nil, err
	}
	return &SamplePixelsResult{PixelThreshold: threshold, Samples: samples}, nil
}

type imageCropRegionArgs struct {
	Path    string                `json:"path"`
	Region  *comparison.Rectangle `json:"region"`
	Padding int                   `json:"padding"`
	Scale   float64               `json:"scale"`
}

func (s *Server) handleImageCropRegion(args json.RawMessage) (interface{}, error) {
	var a imageCropRegionArgs
	if err := decodeArgs("image_crop_region", args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" || a.Region == nil {
		return nil, missing("image_crop_region", "path", "region")
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.CropRegion(img, *a.Region, a.Padding, a.Scale)
}

type imageResizeArgs struct {
	Path   string `json:"path"`
	Output string `json:"output"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ResizeResult is the image_resize tool output.
type ResizeResult struct {
	Output string `json:"output"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleImageResize(args json.RawMessage) (interface{}, error) {
	var a imageResizeArgs
	if err := decodeArgs("image_resize", args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" || a.Output == "" {
		return nil, missing("image_resize", "path", "output")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	resized, err := imaging.Resize(img, a.Width, a.Height)
	if err != nil {
		return nil, &argumentError{tool: "image_resize", err: err}
	}

	written, err := imaging.SaveImage(a.Output, resized)
	if err != nil {
		return nil, err
	}
	// A later image_compare of the output must see the new pixels.
	s.cache.Evict(a.Output)
	s.cache.Evict(written)

	return &ResizeResult{Output: written, Width: a.Width, Height: a.Height}, nil
}
