package texture

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// MaxRGBDistance is the RGB Euclidean distance between black and white.
var MaxRGBDistance = math.Sqrt(3 * 255 * 255)

// Over composites src over dst using straight-alpha source-over.
//
// Integer arithmetic keeps the result bit-exact across platforms. A fully
// opaque src replaces dst and a fully transparent src leaves dst unchanged.
func Over(src, dst color.NRGBA) color.NRGBA {
	sa := uint32(src.A)
	if sa == 255 {
		return src
	}
	if sa == 0 {
		return dst
	}
	da := uint32(dst.A)
	outA := sa*255 + da*(255-sa)
	if outA == 0 {
		return color.NRGBA{}
	}
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*sa*255 + uint32(d)*da*(255-sa) + outA/2) / outA)
	}
	return color.NRGBA{
		R: mix(src.R, dst.R),
		G: mix(src.G, dst.G),
		B: mix(src.B, dst.B),
		A: uint8((outA + 127) / 255),
	}
}

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// Opaque returns c with full alpha.
func Opaque(c color.NRGBA) color.NRGBA {
	return WithAlpha(c, 255)
}

// DistanceRGB returns the Euclidean distance between the RGB channels of a
// and b. Alpha is ignored.
func DistanceRGB(a, b color.NRGBA) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Colorful converts the RGB channels of c to a go-colorful color.
func Colorful(c color.NRGBA) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// FromColorful converts a go-colorful color back to an NRGBA with alpha a.
func FromColorful(c colorful.Color, a uint8) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// DistanceLab returns the CIE76 ΔE between a and b, with L* in 0-100.
func DistanceLab(a, b color.NRGBA) float64 {
	return Colorful(a).DistanceLab(Colorful(b)) * 100
}

// Luminance returns the relative luminance of c in linear RGB (0-1).
func Luminance(c color.NRGBA) float64 {
	r, g, b := Colorful(c).LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// Hex formats c as "#RRGGBB", or "#RRGGBBAA" when it is not opaque.
func Hex(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080".
func ParseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
