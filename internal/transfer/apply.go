package transfer

import (
	"fmt"
	"image/color"

	"github.com/ironsheep/texture-mcp/internal/palette"
	"github.com/ironsheep/texture-mcp/internal/texture"
)

// Apply replays d onto newBackground and returns a texture of
// newBackground's size.
//
// When sizes differ, diff positions are sampled nearest-neighbor. For each
// pixel with a mapping entry, the new background color c is substituted:
//   - c equal to the entry's Source becomes its Shade. For an Exact entry
//     that is the final color and the overlay is skipped.
//   - An entry with no ramp shift leaves c unchanged.
//   - c in the diff's palette moves along the ramp by the entry's shift,
//     keeping c's alpha.
//   - Any other c is a hole. With FillHoles it moves by the same fraction of
//     the ramp along a palette extracted from newBackground; without it, c is
//     left unchanged.
//
// The overlay pixel, if any, is then composited over the result.
func Apply(d *Diff, newBackground *texture.Texture, opts ApplyOptions) (*texture.Texture, error) {
	if d == nil {
		return nil, fmt.Errorf("nil diff")
	}
	if newBackground == nil || newBackground.Empty() {
		return nil, fmt.Errorf("%w: new background has zero area", texture.ErrDimensionMismatch)
	}

	var pn *palette.Palette
	if opts.FillHoles {
		var err error
		pn, err = palette.Extract(d.ExtendPaletteSize, newBackground)
		if err != nil {
			return nil, err
		}
	}

	nw, nh := newBackground.Width(), newBackground.Height()
	out := texture.Generate(nw, nh, func(x, y int) color.NRGBA {
		dx, dy := x*d.Width/nw, y*d.Height/nh
		c := newBackground.At(x, y)
		if e, ok := d.Mapping.At(dx, dy); ok {
			if e.Exact && c == e.Source {
				return e.Shade
			}
			c = substitute(e, c, d.Palette, pn)
		}
		if ov, ok := d.Overlay.At(dx, dy); ok {
			c = texture.Over(ov, c)
		}
		return c
	})
	return out, nil
}

// substitute applies one mapping entry to c. pn is nil when holes are not
// filled.
func substitute(e MappingEntry, c color.NRGBA, pb, pn *palette.Palette) color.NRGBA {
	if c == e.Source {
		return e.Shade
	}
	shift := e.Shift()
	if shift == 0 || c.A == 0 {
		return c
	}
	if pb.Contains(c) {
		return texture.WithAlpha(pb.RampColor(pb.Index(c)+shift), c.A)
	}
	if pn == nil || pn.Len() == 0 {
		return c
	}
	s := pn.Sample(c) + float64(shift)*pb.SampleStep()
	return texture.WithAlpha(pn.ColorAtSample(s), c.A)
}
