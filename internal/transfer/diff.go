package transfer

import (
	"fmt"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/texture-mcp/internal/palette"
	"github.com/ironsheep/texture-mcp/internal/texture"
)

// blendAlphas are the overlay alphas tried when explaining a changed pixel
// as a translucent foreground over its background. All are below solidAlpha.
var blendAlphas = []uint8{25, 37, 49, 61}

// Diff is the result of comparing a background with a full image.
type Diff struct {
	// Width and Height are the reconciled size of the compared images.
	Width  int
	Height int

	// Overlay holds the foreground pixels.
	Overlay *Overlay

	// Mapping holds the palette shifts of palette-explained pixels.
	Mapping *Mapping

	// Palette is the extended background palette every index refers to.
	Palette *palette.Palette

	// ExtendPaletteSize is the palette target used to build the diff.
	ExtendPaletteSize int
}

type class uint8

const (
	classNone class = iota
	classMapped
	classSolid
	classPending
)

// BuildDiff separates full into an overlay of foreground pixels and a
// palette mapping describing how the remaining pixels differ from
// background.
//
// Both textures are reconciled to a common size first. Each pixel p is then
// classified as follows:
//   - full[p] equal to background[p], or both transparent: nothing is
//     recorded.
//   - full[p] transparent over a visible background[p]: an Exact entry
//     erases the pixel on the original background only.
//   - background[p] transparent: full[p] is an overlay pixel.
//   - full[p] is a background palette color: a mapping entry records the
//     ramp shift from background[p] to full[p].
//   - full[p] is farther than the threshold from every palette color: full[p]
//     is an overlay pixel. The threshold is CloseCutoff times the mean ΔE
//     between adjacent ramp entries.
//   - Otherwise full[p] is compared both to the palette ramp and to every
//     translucent blend of a foreground color over background[p]. If the ramp
//     is at least as close, a mapping entry is recorded; if not, the best
//     blend's foreground color becomes a translucent overlay pixel.
//
// An overlay pixel that does not composite over background[p] to exactly
// full[p] also gets an Exact mapping entry with no ramp shift, so replaying
// onto the original background restores full[p] while other backgrounds
// receive the overlay.
//
// TrimTrailing and ForceNeighbors are then applied in that order.
func BuildDiff(background, full *texture.Texture, opts DiffOptions) (*Diff, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	width, height, ts, err := texture.Reconcile(background, full)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile background and full: %w", err)
	}
	bg, fg := ts[0], ts[1]

	pb, err := palette.Extract(opts.ExtendPaletteSize, bg)
	if err != nil {
		return nil, err
	}
	threshold := opts.CloseCutoff * pb.Step()

	d := &Diff{
		Width:             width,
		Height:            height,
		Overlay:           newOverlay(width, height),
		Mapping:           newMapping(width, height),
		Palette:           pb,
		ExtendPaletteSize: opts.ExtendPaletteSize,
	}

	classes := make([]class, width*height)
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				i := y*width + x
				b, f := bg.At(x, y), fg.At(x, y)
				switch {
				case f == b || f.A == 0 && b.A == 0:
					classes[i] = classNone
				case f.A == 0:
					classes[i] = classNone
					d.Mapping.set(i, exactEntry(b, f, pb))
				case b.A == 0:
					classes[i] = classSolid
					d.Overlay.pix[i] = f
				case pb.Contains(f):
					classes[i] = classMapped
					d.Mapping.set(i, MappingEntry{Source: b, Shade: f, From: pb.Index(b), To: pb.Index(f)})
				default:
					if _, dist := pb.Nearest(f); dist > threshold {
						classes[i] = classSolid
						d.Overlay.pix[i] = f
						if texture.Over(f, b) != f {
							d.Mapping.set(i, exactEntry(b, f, pb))
						}
					} else {
						classes[i] = classPending
					}
				}
			}
		}
	})

	fronts := frontColors(fg, classes, width)

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				i := y*width + x
				if classes[i] != classPending {
					continue
				}
				b, f := bg.At(x, y), fg.At(x, y)
				front, ok := bestBlend(b, f, fronts, pb.DistanceToRamp(f))
				if ok {
					d.Overlay.pix[i] = front
					d.Mapping.set(i, exactEntry(b, f, pb))
				} else {
					d.Mapping.set(i, MappingEntry{Source: b, Shade: f, From: pb.Index(b), To: pb.Index(f)})
				}
			}
		}
	})

	if opts.TrimTrailing {
		trim(d)
	}
	if opts.ForceNeighbors {
		forceNeighbors(d, bg, fg)
	}
	return d, nil
}

// exactEntry records f as the exact result on b without shifting any other
// background color.
func exactEntry(b, f color.NRGBA, pb *palette.Palette) MappingEntry {
	idx := pb.Index(b)
	return MappingEntry{Source: b, Shade: f, From: idx, To: idx, Exact: true}
}

// frontColors returns the distinct opaque colors of the solid pixels in
// row-major order of first appearance.
func frontColors(fg *texture.Texture, classes []class, width int) []color.NRGBA {
	var fronts []color.NRGBA
	seen := make(map[color.NRGBA]struct{})
	for i, c := range classes {
		if c != classSolid {
			continue
		}
		f := texture.Opaque(fg.At(i%width, i/width))
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		fronts = append(fronts, f)
	}
	return fronts
}

// bestBlend finds the foreground color and alpha whose blend over b is
// closest to f. It reports false unless that blend is strictly closer than
// rampDist.
func bestBlend(b, f color.NRGBA, fronts []color.NRGBA, rampDist float64) (color.NRGBA, bool) {
	best, bestDist := color.NRGBA{}, math.Inf(1)
	for _, front := range fronts {
		for _, a := range blendAlphas {
			candidate := texture.WithAlpha(front, a)
			if dist := texture.DistanceLab(texture.Over(candidate, b), f); dist < bestDist {
				best, bestDist = candidate, dist
			}
		}
	}
	return best, bestDist < rampDist
}
