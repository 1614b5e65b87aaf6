package texture

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// createTestTextureFile writes tex as a PNG under t.TempDir and returns its path.
func createTestTextureFile(t *testing.T, tex *Texture) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "texture.png")
	if err := Save(tex, path); err != nil {
		t.Fatalf("failed to save texture: %v", err)
	}
	return path
}

func TestNewTextureCache(t *testing.T) {
	cache := NewTextureCache()
	if cache == nil {
		t.Fatal("NewTextureCache returned nil")
	}
	if cache.Len() != 0 {
		t.Errorf("new cache has %d entries, want 0", cache.Len())
	}
}

func TestTextureCacheLoad(t *testing.T) {
	src := createPatternTexture(6, 4)
	path := createTestTextureFile(t, src)

	cache := NewTextureCache()
	tex, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !Equal(tex, src) {
		t.Error("loaded texture differs from saved texture")
	}

	again, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if again != tex {
		t.Error("second Load did not return the cached texture")
	}
	if cache.Len() != 1 {
		t.Errorf("cache.Len() = %d, want 1", cache.Len())
	}
}

func TestTextureCacheLoadErrors(t *testing.T) {
	cache := NewTextureCache()

	if _, err := cache.Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := cache.Load(bad); err == nil {
		t.Error("expected error for invalid image data")
	}
	if cache.Len() != 0 {
		t.Errorf("failed loads were cached: Len() = %d", cache.Len())
	}
}

func TestTextureCacheEvictAndClear(t *testing.T) {
	cache := NewTextureCache()
	p1 := createTestTextureFile(t, Solid(2, 2, color.NRGBA{255, 0, 0, 255}))
	p2 := createTestTextureFile(t, Solid(2, 2, color.NRGBA{0, 255, 0, 255}))

	for _, p := range []string{p1, p2} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load(%s) failed: %v", p, err)
		}
	}

	cache.Evict(p1)
	if cache.Len() != 1 {
		t.Errorf("after Evict, Len() = %d, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear, Len() = %d, want 0", cache.Len())
	}
}

func TestTextureCacheConcurrentAccess(t *testing.T) {
	path := createTestTextureFile(t, createPatternTexture(8, 8))
	cache := NewTextureCache()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				t.Errorf("concurrent Load failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if cache.Len() != 1 {
		t.Errorf("cache.Len() = %d, want 1", cache.Len())
	}
}

func TestEncodeResult(t *testing.T) {
	src := createPatternTexture(3, 3)
	out := filepath.Join(t.TempDir(), "nested", "out.png")

	res, err := EncodeResult(src, out)
	if err != nil {
		t.Fatalf("EncodeResult failed: %v", err)
	}
	if res.Width != 3 || res.Height != 3 || res.MimeType != "image/png" || res.OutputPath != out {
		t.Errorf("unexpected result metadata: %+v", res)
	}

	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	decoded, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !Equal(decoded, src) {
		t.Error("decoded result differs from source")
	}

	if _, err := os.Stat(out); err != nil {
		t.Errorf("output file not written: %v", err)
	}
}

func TestLoadInfo(t *testing.T) {
	tests := []struct {
		name            string
		tex             *Texture
		wantTranslucent bool
	}{
		{"opaque", Solid(5, 3, color.NRGBA{1, 2, 3, 255}), false},
		{"translucent", Generate(5, 3, func(x, y int) color.NRGBA {
			return color.NRGBA{A: uint8(255 - x)}
		}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createTestTextureFile(t, tt.tex)
			info, err := LoadInfo(NewTextureCache(), path)
			if err != nil {
				t.Fatalf("LoadInfo failed: %v", err)
			}
			if info.Width != 5 || info.Height != 3 {
				t.Errorf("size = %dx%d, want 5x3", info.Width, info.Height)
			}
			if info.Format != "png" {
				t.Errorf("Format = %q, want png", info.Format)
			}
			if info.Translucent != tt.wantTranslucent {
				t.Errorf("Translucent = %v, want %v", info.Translucent, tt.wantTranslucent)
			}
			if info.FileSizeBytes <= 0 {
				t.Errorf("FileSizeBytes = %d, want > 0", info.FileSizeBytes)
			}
		})
	}
}
