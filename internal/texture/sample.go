package texture

import (
	"fmt"
	"image/color"
	"math"
)

// RGBAColor represents an RGBA color with 8-bit components.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // "#RRGGBB", or "#RRGGBBAA" when translucent
	RGBA RGBAColor `json:"rgba"` // RGBA components with straight alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation, alpha ignored
}

// DescribeColor returns c in every representation of ColorResult.
func DescribeColor(c color.NRGBA) ColorResult {
	h, s, l := Colorful(c).Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return ColorResult{
		Hex:  Hex(c),
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// SampleColor returns the color at a pixel coordinate.
//
// Coordinates are 0-based with origin at top-left. Returns an error if
// (x, y) is outside the texture.
func SampleColor(t *Texture, x, y int) (*ColorResult, error) {
	if x < 0 || y < 0 || x >= t.Width() || y >= t.Height() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside texture bounds", x, y)
	}
	r := DescribeColor(t.At(x, y))
	return &r, nil
}
