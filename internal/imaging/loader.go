package imaging

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache loads images from disk and keeps the decoded result, keyed by
// the file each request resolved to.
//
// Relative paths that do not exist as given are looked up under each search
// directory in order, so baseline images can live in a fixed location while
// callers refer to them by name. Two requests that resolve to the same file
// share one cache entry.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
//	cache := imaging.NewImageCache("testdata/baselines")
//	img, err := cache.Load("login-page.png")
//	if errors.Is(err, imaging.ErrImageNotFound) {
//	    // no baseline recorded yet
//	}
type ImageCache struct {
	mu         sync.RWMutex
	images     map[string]image.Image
	searchDirs []string
}

// NewImageCache creates an empty image cache that resolves relative paths
// against searchDirs after trying them as given.
func NewImageCache(searchDirs ...string) *ImageCache {
	return &ImageCache{
		images:     make(map[string]image.Image),
		searchDirs: searchDirs,
	}
}

// Resolve returns the file that path refers to.
//
// The path is tried as given first. Relative paths are then tried under each
// search directory. Directories never match. If no candidate exists the
// error wraps ErrImageNotFound.
func (c *ImageCache) Resolve(path string) (string, error) {
	candidates := []string{path}
	if !filepath.IsAbs(path) {
		for _, dir := range c.searchDirs {
			candidates = append(candidates, filepath.Join(dir, path))
		}
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return candidate, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", &ImageReadError{Path: candidate, Err: err}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrImageNotFound, path)
}

// Load returns the decoded image for path, reading it from disk on first use.
//
// Supported formats are those of github.com/disintegration/imaging (PNG, JPEG,
// GIF, TIFF, BMP). JPEG images are rotated according to their EXIF orientation.
//
// # Errors
//
//   - wraps ErrImageNotFound if the file does not exist in any location
//   - returns *ImageReadError if the file cannot be opened or decoded
func (c *ImageCache) Load(path string) (image.Image, error) {
	img, _, err := c.load(path)
	return img, err
}

// load is Load that also reports the resolved file.
func (c *ImageCache) load(path string) (image.Image, string, error) {
	resolved, err := c.Resolve(path)
	if err != nil {
		return nil, "", err
	}

	c.mu.RLock()
	img, ok := c.images[resolved]
	c.mu.RUnlock()
	if ok {
		return img, resolved, nil
	}

	img, err = imaging.Open(resolved, imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", &ImageReadError{Path: resolved, Err: err}
	}

	c.mu.Lock()
	if cached, ok := c.images[resolved]; ok {
		img = cached
	} else {
		c.images[resolved] = img
	}
	c.mu.Unlock()
	return img, resolved, nil
}

// Evict drops the cached image for path, so the next Load reads the file
// again. Callers comparing against a file they just rewrote must evict it.
func (c *ImageCache) Evict(path string) {
	key := path
	if resolved, err := c.Resolve(path); err == nil {
		key = resolved
	}
	c.mu.Lock()
	delete(c.images, key)
	c.mu.Unlock()
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Len reports the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}
