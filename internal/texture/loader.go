package texture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
)

// TextureCache provides thread-safe caching of loaded textures to avoid
// redundant disk reads.
//
// Textures are keyed by the exact path string passed to Load. Since textures
// are immutable, a cached texture may be handed to any number of callers.
//
// # Memory Management
//
// Cached textures remain in memory until explicitly removed via Evict() or
// Clear().
type TextureCache struct {
	mu       sync.RWMutex
	textures map[string]*Texture
}

// NewTextureCache creates an empty texture cache.
func NewTextureCache() *TextureCache {
	return &TextureCache{
		textures: make(map[string]*Texture),
	}
}

// Load retrieves a texture from the cache or decodes it from disk.
//
// Supported formats are PNG, JPEG, and GIF.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a valid PNG, JPEG, or GIF image
func (c *TextureCache) Load(path string) (*Texture, error) {
	c.mu.RLock()
	if t, ok := c.textures[path]; ok {
		c.mu.RUnlock()
		return t, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.textures[path] = t
	c.mu.Unlock()

	return t, nil
}

// Clear removes all textures from the cache.
func (c *TextureCache) Clear() {
	c.mu.Lock()
	c.textures = make(map[string]*Texture)
	c.mu.Unlock()
}

// Evict removes a specific texture from the cache by its path.
func (c *TextureCache) Evict(path string) {
	c.mu.Lock()
	delete(c.textures, path)
	c.mu.Unlock()
}

// Len returns the number of cached textures.
func (c *TextureCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.textures)
}

// Decode reads an encoded image and returns it as a Texture.
func Decode(r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture: %w", err)
	}
	return FromImage(img), nil
}

// EncodePNG writes t to w as PNG.
func EncodePNG(w io.Writer, t *Texture) error {
	if err := imaging.Encode(w, t.img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode texture: %w", err)
	}
	return nil
}

// Save writes t as a PNG file, creating parent directories as needed.
func Save(t *Texture, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := EncodePNG(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Result is a generated texture encoded for transport.
type Result struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	OutputPath  string `json:"output_path,omitempty"`
}

// EncodeResult encodes t as a base64 PNG. If outputPath is non-empty the PNG
// is also written there.
func EncodeResult(t *Texture, outputPath string) (*Result, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, t); err != nil {
		return nil, err
	}
	if outputPath != "" {
		if err := Save(t, outputPath); err != nil {
			return nil, err
		}
	}
	return &Result{
		Width:       t.Width(),
		Height:      t.Height(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		OutputPath:  outputPath,
	}, nil
}

// Info contains metadata about a texture file.
type Info struct {
	// Width is the texture width in pixels.
	Width int `json:"width"`

	// Height is the texture height in pixels.
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif", or "unknown", from the file extension.
	Format string `json:"format"`

	// Translucent reports whether any pixel has alpha below 255.
	Translucent bool `json:"translucent"`

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadInfo loads a texture through cache and returns its metadata.
func LoadInfo(cache *TextureCache, path string) (*Info, error) {
	t, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch filepath.Ext(path) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	translucent := false
	for y := 0; y < t.Height() && !translucent; y++ {
		for x := 0; x < t.Width(); x++ {
			if t.At(x, y).A != 255 {
				translucent = true
				break
			}
		}
	}

	return &Info{
		Width:         t.Width(),
		Height:        t.Height(),
		Format:        format,
		Translucent:   translucent,
		FileSizeBytes: stat.Size(),
	}, nil
}
