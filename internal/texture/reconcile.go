package texture

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// MaxDimension bounds the reconciled width and height of a set of textures.
const MaxDimension = 8192

// Reconcile scales every texture to a common size so they can be compared
// pixel by pixel.
//
// The common width is the least common multiple of the input widths, so every
// input is scaled by a whole factor and nearest-neighbor sampling reproduces
// each source pixel as an exact block. Each input keeps its aspect ratio; the
// common height is the tallest scaled height and shorter inputs are padded at
// the bottom with transparent pixels.
//
// Returns:
//   - width, height: the common size.
//   - []*Texture: the scaled textures, in input order. Inputs already at the
//     common size are returned as-is.
//   - error: wraps ErrDimensionMismatch if no textures were given, an input
//     has zero area, or the common size exceeds MaxDimension.
func Reconcile(ts ...*Texture) (int, int, []*Texture, error) {
	if len(ts) == 0 {
		return 0, 0, nil, fmt.Errorf("%w: no textures to reconcile", ErrDimensionMismatch)
	}

	width := 1
	for i, t := range ts {
		if t == nil || t.Empty() {
			return 0, 0, nil, fmt.Errorf("%w: texture %d has zero area", ErrDimensionMismatch, i)
		}
		width = lcm(width, t.Width())
		if width > MaxDimension {
			return 0, 0, nil, fmt.Errorf("%w: common width exceeds %d", ErrDimensionMismatch, MaxDimension)
		}
	}

	height := 0
	for _, t := range ts {
		if h := width / t.Width() * t.Height(); h > height {
			height = h
		}
	}
	if height > MaxDimension {
		return 0, 0, nil, fmt.Errorf("%w: common height exceeds %d", ErrDimensionMismatch, MaxDimension)
	}

	out := make([]*Texture, len(ts))
	for i, t := range ts {
		out[i] = scaleTo(t, width, height)
	}
	return width, height, out, nil
}

// scaleTo scales t by width/t.Width() and pads it to width×height.
func scaleTo(t *Texture, width, height int) *Texture {
	if t.Width() == width && t.Height() == height {
		return t
	}
	sh := width / t.Width() * t.Height()
	scaled := t.img
	if t.Width() != width {
		scaled = imaging.Resize(t.img, width, sh, imaging.NearestNeighbor)
	}
	if sh == height {
		return &Texture{img: scaled}
	}
	canvas := imaging.New(width, height, color.NRGBA{})
	return &Texture{img: imaging.Paste(canvas, scaled, image.Pt(0, 0))}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	return a / gcd(a, b) * b
}
