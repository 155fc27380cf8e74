package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestSamplePixels(t *testing.T) {
	expected := createPatternImage(10, 10)
	actual := createPatternImage(10, 10)
	actual.Set(2, 2, color.RGBA{250, 0, 0, 255})
	actual.Set(7, 7, color.RGBA{0, 0, 0, 255})

	samples, err := SamplePixels(expected, actual, []LabeledPoint{
		{X: 2, Y: 2, Label: "antialiased"},
		{X: 7, Y: 7, Label: "changed"},
		{X: 0, Y: 9},
	}, 10)
	if err != nil {
		t.Fatalf("SamplePixels failed: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}

	tests := []struct {
		label       string
		distance    int
		exceeds     bool
		expectedHex string
		actualHex   string
	}{
		{"antialiased", 5, false, "#FF0000", "#FA0000"},
		{"changed", 765, true, "#FFFFFF", "#000000"},
		{"", 0, false, "#0000FF", "#0000FF"},
	}

	// Results come back in input order.
	for i, tt := range tests {
		s := samples[i]
		if s.Label != tt.label {
			t.Errorf("sample %d label: got %q, want %q", i, s.Label, tt.label)
		}
		if s.Distance != tt.distance {
			t.Errorf("sample %d distance: got %d, want %d", i, s.Distance, tt.distance)
		}
		if s.Exceeds != tt.exceeds {
			t.Errorf("sample %d exceeds: got %v, want %v", i, s.Exceeds, tt.exceeds)
		}
		if s.Expected.Hex != tt.expectedHex || s.Actual.Hex != tt.actualHex {
			t.Errorf("sample %d hex: got %s/%s, want %s/%s", i, s.Expected.Hex, s.Actual.Hex, tt.expectedHex, tt.actualHex)
		}
	}
}

func TestSamplePixels_Errors(t *testing.T) {
	img := createPatternImage(10, 10)

	if _, err := SamplePixels(img, createPatternImage(10, 11), []LabeledPoint{{X: 0, Y: 0}}, 0); err == nil {
		t.Error("SamplePixels should fail for differently sized images")
	}

	for _, p := range []LabeledPoint{{X: -1, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}} {
		if _, err := SamplePixels(img, img, []LabeledPoint{{X: 1, Y: 1}, p}, 0); err == nil {
			t.Errorf("SamplePixels should fail for (%d,%d)", p.X, p.Y)
		}
	}
}

func TestSamplePixels_Alpha(t *testing.T) {
	opaque := createInMemoryImage(2, 2, color.NRGBA{0, 0, 0, 255})
	transparent := image.NewNRGBA(image.Rect(0, 0, 2, 2))

	samples, err := SamplePixels(opaque, transparent, []LabeledPoint{{X: 1, Y: 1}}, 0)
	if err != nil {
		t.Fatalf("SamplePixels failed: %v", err)
	}
	if samples[0].Distance != 255 {
		t.Errorf("distance: got %d, want 255 (alpha only)", samples[0].Distance)
	}
	if samples[0].Actual.RGBA.A != 0 || samples[0].Expected.RGBA.A != 255 {
		t.Errorf("alpha: got %d/%d, want 255/0", samples[0].Expected.RGBA.A, samples[0].Actual.RGBA.A)
	}
}

func TestSamplePixels_NonZeroOrigin(t *testing.T) {
	src := createPatternImage(20, 20)
	// Bottom-right quadrant is white.
	sub := src.SubImage(image.Rect(10, 10, 20, 20))
	white := createInMemoryImage(10, 10, color.White)

	samples, err := SamplePixels(sub, white, []LabeledPoint{{X: 0, Y: 0}}, 0)
	if err != nil {
		t.Fatalf("SamplePixels failed: %v", err)
	}
	if samples[0].Distance != 0 {
		t.Errorf("distance: got %d, want 0", samples[0].Distance)
	}
}

func TestNewColorResult_HSL(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		wantH   int
		wantS   int
		wantL   int
	}{
		{"red", 255, 0, 0, 0, 100, 50},
		{"green", 0, 255, 0, 120, 100, 50},
		{"blue", 0, 0, 255, 240, 100, 50},
		{"white", 255, 255, 255, 0, 0, 100},
		{"black", 0, 0, 0, 0, 0, 0},
		{"gray", 128, 128, 128, 0, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hsl := newColorResult(color.NRGBA{tt.r, tt.g, tt.b, 255}).HSL

			// Allow some tolerance for rounding
			if abs(hsl.H-tt.wantH) > 1 {
				t.Errorf("H: got %d, want %d", hsl.H, tt.wantH)
			}
			if abs(hsl.S-tt.wantS) > 1 {
				t.Errorf("S: got %d, want %d", hsl.S, tt.wantS)
			}
			if abs(hsl.L-tt.wantL) > 1 {
				t.Errorf("L: got %d, want %d", hsl.L, tt.wantL)
			}
		})
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
