package layer

import (
	"errors"
	"image/color"
	"testing"

	"github.com/ironsheep/texture-mcp/internal/texture"
)

func TestOverlay(t *testing.T) {
	gray := color.NRGBA{128, 128, 128, 255}
	red := color.NRGBA{200, 50, 50, 255}
	faint := color.NRGBA{0, 0, 255, 100}

	base := texture.Solid(2, 2, gray)
	top := texture.Generate(2, 2, func(x, y int) color.NRGBA {
		switch {
		case x == 0 && y == 0:
			return red
		case x == 1 && y == 0:
			return faint
		}
		return color.NRGBA{}
	})

	tests := []struct {
		name   string
		layers []*texture.Texture
		x, y   int
		want   color.NRGBA
	}{
		{"single layer", []*texture.Texture{base}, 1, 1, gray},
		{"opaque top", []*texture.Texture{base, top}, 0, 0, red},
		{"translucent top", []*texture.Texture{base, top}, 1, 0, texture.Over(faint, gray)},
		{"transparent top", []*texture.Texture{base, top}, 1, 1, gray},
		{"order matters", []*texture.Texture{top, base}, 0, 0, gray},
		{"nothing below", []*texture.Texture{top}, 1, 0, faint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Overlay(tt.layers...)
			if err != nil {
				t.Fatalf("Overlay failed: %v", err)
			}
			if got := out.At(tt.x, tt.y); got != tt.want {
				t.Errorf("At(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestOverlayScalesLayers(t *testing.T) {
	base := texture.Solid(4, 4, color.NRGBA{10, 10, 10, 255})
	dot := texture.Generate(2, 2, func(x, y int) color.NRGBA {
		if x == 1 && y == 1 {
			return color.NRGBA{255, 0, 0, 255}
		}
		return color.NRGBA{}
	})

	out, err := Overlay(base, dot)
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
	if out.Width() != 4 || out.Height() != 4 {
		t.Fatalf("size = %dx%d, want 4x4", out.Width(), out.Height())
	}
	if got := out.At(3, 3); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("At(3,3) = %v, want red", got)
	}
	if got := out.At(1, 1); got != (color.NRGBA{10, 10, 10, 255}) {
		t.Errorf("At(1,1) = %v, want base", got)
	}
}

func TestOverlayNoLayers(t *testing.T) {
	if _, err := Overlay(); !errors.Is(err, texture.ErrDimensionMismatch) {
		t.Errorf("err = %v, want ErrDimensionMismatch", err)
	}
}
