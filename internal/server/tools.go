package server

import "github.com/ironsheep/image-compare-mcp/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// rectangleSchema describes a comparison.Rectangle argument.
func rectangleSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"min_x": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (inclusive)"},
			"min_y": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (inclusive)"},
			"max_x": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (inclusive)"},
			"max_y": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (inclusive)"},
		},
		"required": []string{"min_x", "min_y", "max_x", "max_y"},
	}
}

func pathSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and file size. Relative paths are also looked up in the configured baseline directories.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathSchema("Path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathSchema("Path to the image file"),
				},
				"required": []string{"path"},
			},
		},

		// Comparison
		{
			Name: "image_compare",
			Description: "Compare an actual image against an expected baseline. Returns match, mismatch or size-mismatch, " +
				"the overall difference percentage, and the non-overlapping rectangles (inclusive corners) that contain " +
				"every differing pixel. Optionally writes the actual image with the rectangles drawn on it. " +
				"Options left out use the server's profile.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"expected": pathSchema("Path to the baseline image"),
					"actual":   pathSchema("Path to the image under test"),
					"output":   pathSchema("Optional path to write the annotated image; .png is appended when there is no extension"),
					"pixel_threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Sum of absolute ARGB channel differences (0-1020) a pixel must exceed to count as different. Default 0",
						"minimum":     0,
					},
					"adjacency_radius": map[string]interface{}{
						"type":        "integer",
						"description": "Differing pixels within this many pixels of each other join one rectangle. Default 5",
						"minimum":     0,
					},
					"excluded_areas": map[string]interface{}{
						"type":        "array",
						"description": "Areas ignored entirely, such as clocks or animated content",
						"items":       rectangleSchema("Excluded area"),
					},
					"allowed_different_pixels_percent": map[string]interface{}{
						"type":        "number",
						"description": "Report a match while at most this percentage of pixels differ. Default 0",
						"minimum":     0,
						"maximum":     100,
					},
					"minimal_rectangle_size": map[string]interface{}{
						"type":        "integer",
						"description": "Drop rectangles covering fewer pixels than this. Default 0 (keep all)",
						"minimum":     0,
					},
					"maximal_rectangle_count": map[string]interface{}{
						"type":        "integer",
						"description": "Report only the largest N rectangles. Default 0 (no limit)",
						"minimum":     0,
					},
					"line_width": map[string]interface{}{
						"type":        "integer",
						"description": "Outline width in pixels for the annotated image",
						"default":     imaging.DefaultLineWidth,
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as hex, e.g. #FF0000",
						"default":     imaging.DefaultColor,
					},
					"fill_opacity": map[string]interface{}{
						"type":        "number",
						"description": "Fill rectangles with the outline color at this opacity (0-1). Default 0",
						"minimum":     0,
						"maximum":     1,
					},
					"draw_excluded": map[string]interface{}{
						"type":        "boolean",
						"description": "Also outline the excluded areas in the annotated image",
						"default":     false,
					},
				},
				"required": []string{"expected", "actual"},
			},
		},
		{
			Name:        "image_difference_percent",
			Description: "Compute the overall difference between two same-sized images as a percentage (0 identical, 100 maximally different).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"expected": pathSchema("Path to the first image"),
					"actual":   pathSchema("Path to the second image"),
				},
				"required": []string{"expected", "actual"},
			},
		},

		// Inspection
		{
			Name:        "image_sample_pixels",
			Description: "Read the same pixels from both images of a comparison and report their colors and distance, to explain why a pixel does or does not count as different.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"expected": pathSchema("Path to the baseline image"),
					"actual":   pathSchema("Path to the image under test"),
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Pixels to sample",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer", "description": "X coordinate (0-based)"},
								"y":     map[string]interface{}{"type": "integer", "description": "Y coordinate (0-based)"},
								"label": map[string]interface{}{"type": "string", "description": "Optional label echoed in the result"},
							},
							"required": []string{"x", "y"},
						},
					},
					"pixel_threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Threshold to test the distances against. Defaults to the server profile's",
						"minimum":     0,
					},
				},
				"required": []string{"expected", "actual", "points"},
			},
		},
		{
			Name:        "image_crop_region",
			Description: "Crop a rectangle (for example one reported by image_compare) from an image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathSchema("Path to the image file"),
					"region": rectangleSchema("Region to crop"),
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels of surrounding context to include on each side. Default 0",
						"minimum":     0,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "region"},
			},
		},
		{
			Name:        "image_resize",
			Description: "Resize an image to the given dimensions with light softening, so a screenshot can be compared against a baseline of another size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathSchema("Path to the image file"),
					"output": pathSchema("Path to write the resized image"),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Target width in pixels",
						"minimum":     1,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Target height in pixels",
						"minimum":     1,
					},
				},
				"required": []string{"path", "output", "width", "height"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return reply(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
}
