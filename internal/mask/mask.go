// Package mask builds and combines alpha masks: multiplying, adding,
// inverting, and thresholding textures pixel by pixel.
package mask

import (
	"fmt"
	"image/color"

	"github.com/ironsheep/texture-mcp/internal/texture"
)

// Multiply returns input with each pixel's alpha multiplied by the mask
// pixel's alpha, normalized to [0, 1] and rounded to the nearest integer.
// RGB channels pass through unchanged.
//
// Textures of different sizes are reconciled first, so a smaller mask is
// scaled up to cover the input and vice versa.
func Multiply(mask, input *texture.Texture) (*texture.Texture, error) {
	width, height, ts, err := texture.Reconcile(mask, input)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile mask and input: %w", err)
	}
	m, in := ts[0], ts[1]

	return texture.Generate(width, height, func(x, y int) color.NRGBA {
		c := in.At(x, y)
		c.A = uint8((uint32(c.A)*uint32(m.At(x, y).A) + 127) / 255)
		return c
	}), nil
}

// Add sums the inputs channel by channel, clamping each channel at 255.
// Inputs are reconciled to a common size first.
func Add(inputs ...*texture.Texture) (*texture.Texture, error) {
	width, height, ts, err := texture.Reconcile(inputs...)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile inputs: %w", err)
	}

	return texture.Generate(width, height, func(x, y int) color.NRGBA {
		var r, g, b, a uint32
		for _, t := range ts {
			c := t.At(x, y)
			r += uint32(c.R)
			g += uint32(c.G)
			b += uint32(c.B)
			a += uint32(c.A)
		}
		return color.NRGBA{R: clamp8(r), G: clamp8(g), B: clamp8(b), A: clamp8(a)}
	}), nil
}

// Invert returns input with every channel, alpha included, replaced by
// 255 minus its value.
func Invert(input *texture.Texture) *texture.Texture {
	return texture.Generate(input.Width(), input.Height(), func(x, y int) color.NRGBA {
		c := input.At(x, y)
		return color.NRGBA{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: 255 - c.A}
	})
}

func clamp8(v uint32) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}
