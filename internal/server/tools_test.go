package server

import (
	"encoding/json"
	"reflect"
	"testing"
)

// wireTool is a tool definition as the client decodes it.
type wireTool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema struct {
		Type       string                     `json:"type"`
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	} `json:"inputSchema"`
}

type wireProperty struct {
	Type    string      `json:"type"`
	Default interface{} `json:"default"`
	Items   *struct {
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	} `json:"items"`
}

func wireTools(t *testing.T) map[string]wireTool {
	t.Helper()
	b, err := json.Marshal(GetToolDefinitions())
	if err != nil {
		t.Fatalf("tool definitions do not marshal: %v", err)
	}
	var tools []wireTool
	if err := json.Unmarshal(b, &tools); err != nil {
		t.Fatalf("tool definitions do not decode: %v", err)
	}
	byName := make(map[string]wireTool, len(tools))
	for _, tool := range tools {
		if _, dup := byName[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		byName[tool.Name] = tool
	}
	return byName
}

func property(t *testing.T, tool wireTool, name string) wireProperty {
	t.Helper()
	raw, ok := tool.InputSchema.Properties[name]
	if !ok {
		t.Fatalf("%s has no property %s", tool.Name, name)
	}
	var p wireProperty
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("%s.%s: %v", tool.Name, name, err)
	}
	return p
}

func TestGetToolDefinitions_Order(t *testing.T) {
	var names []string
	for _, tool := range GetToolDefinitions() {
		names = append(names, tool.Name)
	}
	want := []string{
		"image_load",
		"image_dimensions",
		"image_compare",
		"image_difference_percent",
		"image_sample_pixels",
		"image_crop_region",
		"image_resize",
	}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("tools: got %v, want %v", names, want)
	}
}

func TestToolDefinitions_Schemas(t *testing.T) {
	wantRequired := map[string][]string{
		"image_load":               {"path"},
		"image_dimensions":         {"path"},
		"image_compare":            {"expected", "actual"},
		"image_difference_percent": {"expected", "actual"},
		"image_sample_pixels":      {"expected", "actual", "points"},
		"image_crop_region":        {"path", "region"},
		"image_resize":             {"path", "output", "width", "height"},
	}

	tools := wireTools(t)
	if len(tools) != len(wantRequired) {
		t.Errorf("got %d tools, want %d", len(tools), len(wantRequired))
	}

	for name, required := range wantRequired {
		t.Run(name, func(t *testing.T) {
			tool, ok := tools[name]
			if !ok {
				t.Fatalf("tool %s not defined", name)
			}
			if tool.Description == "" {
				t.Error("description is empty")
			}
			if tool.InputSchema.Type != "object" {
				t.Errorf("schema type: got %q, want object", tool.InputSchema.Type)
			}
			if !reflect.DeepEqual(tool.InputSchema.Required, required) {
				t.Errorf("required: got %v, want %v", tool.InputSchema.Required, required)
			}
			for _, r := range required {
				if _, ok := tool.InputSchema.Properties[r]; !ok {
					t.Errorf("required parameter %s has no property schema", r)
				}
			}
		})
	}
}

func TestToolDefinitions_CompareOptions(t *testing.T) {
	compare := wireTools(t)["image_compare"]

	// Every option the handler reads is advertised.
	for _, name := range []string{
		"output", "pixel_threshold", "adjacency_radius", "excluded_areas",
		"allowed_different_pixels_percent", "minimal_rectangle_size", "maximal_rectangle_count",
		"line_width", "color", "fill_opacity", "draw_excluded",
	} {
		if _, ok := compare.InputSchema.Properties[name]; !ok {
			t.Errorf("image_compare is missing option %s", name)
		}
	}

	excluded := property(t, compare, "excluded_areas")
	if excluded.Type != "array" || excluded.Items == nil {
		t.Fatalf("excluded_areas should be an array of rectangles, got %+v", excluded)
	}
	for _, corner := range []string{"min_x", "min_y", "max_x", "max_y"} {
		if _, ok := excluded.Items.Properties[corner]; !ok {
			t.Errorf("excluded area is missing %s", corner)
		}
	}
}

func TestToolDefinitions_SamplePoints(t *testing.T) {
	points := property(t, wireTools(t)["image_sample_pixels"], "points")
	if points.Type != "array" || points.Items == nil {
		t.Fatalf("points should be an array, got %+v", points)
	}
	if !reflect.DeepEqual(points.Items.Required, []string{"x", "y"}) {
		t.Errorf("point required: got %v, want [x y]", points.Items.Required)
	}
}

func TestToolDefinitions_Defaults(t *testing.T) {
	tests := []struct {
		tool  string
		param string
		want  interface{}
	}{
		{"image_compare", "line_width", float64(1)},
		{"image_compare", "color", "#FF0000"},
		{"image_compare", "draw_excluded", false},
		{"image_crop_region", "scale", 1.0},
	}

	tools := wireTools(t)
	for _, tt := range tests {
		t.Run(tt.tool+"."+tt.param, func(t *testing.T) {
			got := property(t, tools[tt.tool], tt.param).Default
			if got != tt.want {
				t.Errorf("default: got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(nil, "test")
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result should be a map")
	}
	tools, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(tools) != len(GetToolDefinitions()) {
		t.Errorf("expected %d tools, got %d", len(GetToolDefinitions()), len(tools))
	}
}
