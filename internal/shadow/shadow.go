// Package shadow paints a directional highlight and shadow ring around a
// foreground composited onto a background, using only shades from the
// background's own palette.
package shadow

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/texture-mcp/internal/palette"
	"github.com/ironsheep/texture-mcp/internal/texture"
)

// Spread shades background around the silhouette of foreground and
// composites foreground over the result.
//
// The two textures are reconciled to a common size. Each background pixel
// with a non-zero shade from NewField moves along the background palette's
// ramp: its base sample is blended by Uniformity between its own sample and
// the background's mean sample, the shade is added, and the ramp entry at
// that sample replaces the pixel's color. The pixel keeps its alpha.
func Spread(background, foreground *texture.Texture, opts Options) (*texture.Texture, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	width, height, ts, err := texture.Reconcile(background, foreground)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile background and foreground: %w", err)
	}
	bg, fg := ts[0], ts[1]

	pal, err := palette.Extract(opts.ExtendPaletteSize, bg)
	if err != nil {
		return nil, err
	}
	field := NewField(fg, opts)
	center := meanSample(bg, pal)
	u := opts.Uniformity

	return texture.Generate(width, height, func(x, y int) color.NRGBA {
		c := bg.At(x, y)
		if shade := field.At(x, y); shade != 0 && c.A != 0 {
			base := u*center + (1-u)*pal.Sample(c)
			c = texture.WithAlpha(pal.ColorAtSample(base+shade), c.A)
		}
		return texture.Over(fg.At(x, y), c)
	}), nil
}

// meanSample returns the pixel-weighted mean sample of the visible pixels
// of t, or the middle sample when none are visible.
func meanSample(t *texture.Texture, pal *palette.Palette) float64 {
	index := make(map[color.NRGBA]int)
	var samples, weights []float64
	for y := 0; y < t.Height(); y++ {
		for x := 0; x < t.Width(); x++ {
			c := t.At(x, y)
			if c.A == 0 {
				continue
			}
			c = texture.Opaque(c)
			i, ok := index[c]
			if !ok {
				i = len(samples)
				index[c] = i
				samples = append(samples, pal.Sample(c))
				weights = append(weights, 0)
			}
			weights[i]++
		}
	}
	if len(samples) == 0 {
		return 128
	}
	return stat.Mean(samples, weights)
}
