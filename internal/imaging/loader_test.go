package imaging

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// solidFile writes a width x height image of one color into a temp dir and
// returns its path.
func solidFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "solid.png")
	writePNG(t, path, createInMemoryImage(width, height, c))
	return path
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := solidFile(t, 100, 60, color.RGBA{255, 0, 0, 255})

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := img.Bounds().Size(); got.X != 100 || got.Y != 60 {
		t.Errorf("dimensions: got %v, want 100x60", got)
	}
	if r, g, b, _ := rgb8(img, 10, 10); r != 255 || g != 0 || b != 0 {
		t.Errorf("pixel: got (%d,%d,%d), want red", r, g, b)
	}

	again, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if again != img {
		t.Error("second Load did not return the cached image")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_Load_SharedEntry(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "home.png"), createInMemoryImage(4, 4, color.White))

	cache := NewImageCache(dir)
	byName, err := cache.Load("home.png")
	if err != nil {
		t.Fatalf("Load by name failed: %v", err)
	}
	byPath, err := cache.Load(filepath.Join(dir, "home.png"))
	if err != nil {
		t.Fatalf("Load by path failed: %v", err)
	}
	if byName != byPath || cache.Len() != 1 {
		t.Errorf("both requests should share one entry, Len=%d", cache.Len())
	}
}

func TestImageCache_Load_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name         string
		path         string
		wantNotFound bool
	}{
		{"missing absolute", filepath.Join(dir, "nope.png"), true},
		{"missing relative", "nope.png", true},
		{"undecodable", garbage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewImageCache(dir).Load(tt.path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, ErrImageNotFound); got != tt.wantNotFound {
				t.Errorf("errors.Is(err, ErrImageNotFound) = %v, want %v (err: %v)", got, tt.wantNotFound, err)
			}
			var readErr *ImageReadError
			if !tt.wantNotFound {
				if !errors.As(err, &readErr) {
					t.Fatalf("got %v, want *ImageReadError", err)
				}
				if readErr.Path != tt.path {
					t.Errorf("ImageReadError.Path: got %s, want %s", readErr.Path, tt.path)
				}
			}
		})
	}
}

func TestImageCache_Resolve(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writePNG(t, filepath.Join(second, "home.png"), createInMemoryImage(2, 2, color.Black))
	writePNG(t, filepath.Join(first, "nested", "card.png"), createInMemoryImage(2, 2, color.Black))
	writePNG(t, filepath.Join(second, "nested", "card.png"), createInMemoryImage(2, 2, color.Black))
	if err := os.Mkdir(filepath.Join(first, "shot.png"), 0o755); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(second, "shot.png"), createInMemoryImage(2, 2, color.Black))

	cache := NewImageCache(first, second)
	tests := []struct {
		path string
		want string
	}{
		{"home.png", filepath.Join(second, "home.png")},
		{filepath.Join("nested", "card.png"), filepath.Join(first, "nested", "card.png")},
		{"shot.png", filepath.Join(second, "shot.png")},
		{filepath.Join(second, "home.png"), filepath.Join(second, "home.png")},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := cache.Resolve(tt.path)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve: got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestImageCache_Resolve_PrefersGivenPath(t *testing.T) {
	given := filepath.Join(t.TempDir(), "a.png")
	other := t.TempDir()
	writePNG(t, given, createInMemoryImage(2, 2, color.Black))
	writePNG(t, filepath.Join(other, given), createInMemoryImage(3, 3, color.Black))

	resolved, err := NewImageCache(other).Resolve(given)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved != given {
		t.Errorf("Resolve: got %s, want %s", resolved, given)
	}
}

func TestImageCache_Resolve_OnlyDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "shot.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := NewImageCache(dir).Resolve("shot.png")
	if !errors.Is(err, ErrImageNotFound) {
		t.Errorf("Resolve error: got %v, want ErrImageNotFound", err)
	}
}

func TestImageCache_Evict(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.png")
	writePNG(t, path, createInMemoryImage(5, 5, color.Black))

	cache := NewImageCache(dir)
	before, err := cache.Load("shot.png")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Rewrite the file; only an evicted entry sees the new pixels.
	writePNG(t, path, createInMemoryImage(5, 5, color.White))
	if cached, _ := cache.Load("shot.png"); cached != before {
		t.Fatal("Load should serve the cached image until evicted")
	}

	cache.Evict(path)
	if cache.Len() != 0 {
		t.Fatalf("Evict by resolved path left %d entries", cache.Len())
	}
	after, err := cache.Load("shot.png")
	if err != nil {
		t.Fatalf("Load after Evict failed: %v", err)
	}
	if r, _, _, _ := rgb8(after, 0, 0); r != 255 {
		t.Errorf("Load after Evict returned stale pixels (r=%d)", r)
	}

	// Evicting an unknown path is a no-op.
	cache.Evict("/nonexistent/path.png")
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_Clear(t *testing.T) {
	cache := NewImageCache()
	for _, c := range []color.Color{color.Black, color.White} {
		if _, err := cache.Load(solidFile(t, 3, 3, c)); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}
	if cache.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Clear left %d images", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	path := solidFile(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%8 == 0 {
				cache.Evict(path)
			}
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}
