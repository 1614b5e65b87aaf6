// Package layer stacks textures with source-over compositing.
package layer

import (
	"fmt"
	"image/color"

	"github.com/ironsheep/texture-mcp/internal/texture"
)

// Overlay composites layers bottom to top: the first layer is the base and
// each later layer is drawn over the result with source-over. Layers are
// reconciled to a common size first, so smaller layers are scaled up.
func Overlay(layers ...*texture.Texture) (*texture.Texture, error) {
	width, height, ts, err := texture.Reconcile(layers...)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile layers: %w", err)
	}

	return texture.Generate(width, height, func(x, y int) color.NRGBA {
		var c color.NRGBA
		for _, t := range ts {
			c = texture.Over(t.At(x, y), c)
		}
		return c
	}), nil
}
