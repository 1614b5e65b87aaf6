package shadow

import (
	"github.com/ironsheep/texture-mcp/internal/texture"
)

// solidAlpha is the lowest foreground alpha that casts light or shadow.
const solidAlpha = 128

// Field is a per-pixel signed shade in sample units: positive values
// brighten, negative values darken, zero leaves the pixel alone.
type Field struct {
	width, height int
	values        []float64
}

// At returns the shade at (x, y), or zero outside the field.
func (f *Field) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return 0
	}
	return f.values[y*f.width+x]
}

// NewField computes the shade ring around the silhouette of fg.
//
// A pixel whose left or upper neighbor is solid gets +HighlightStrength. A
// pixel whose right or lower neighbor is solid gets -ShadowStrength. A pixel
// with solid neighbors on both sides gets zero.
func NewField(fg *texture.Texture, opts Options) *Field {
	w, h := fg.Width(), fg.Height()
	solid := func(x, y int) bool { return fg.At(x, y).A >= solidAlpha }

	f := &Field{width: w, height: h, values: make([]float64, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			lit := solid(x-1, y) || solid(x, y-1)
			shaded := solid(x+1, y) || solid(x, y+1)
			switch {
			case lit && !shaded:
				f.values[y*w+x] = opts.HighlightStrength
			case shaded && !lit:
				f.values[y*w+x] = -opts.ShadowStrength
			}
		}
	}
	return f
}
