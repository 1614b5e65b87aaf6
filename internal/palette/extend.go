package palette

import (
	"image/color"
	"math"

	"github.com/ironsheep/texture-mcp/internal/texture"
)

var (
	black = color.NRGBA{A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func validateTarget(target int) error {
	if target < 0 || target > MaxExtendSize {
		return &texture.OptionError{
			Option: "extend_palette_size",
			Value:  target,
			Reason: "must be within [0, 64]",
		}
	}
	return nil
}

// Extend synthesizes entries until the palette holds target entries. It
// never removes entries, so a palette already at or above target is left
// unchanged.
//
// Synthesis runs in two phases:
//  1. The darkest and brightest entries alternately step toward black and
//     white by the natural spacing (the RGB span of the palette divided by
//     its gaps, or the black-to-white distance divided by target-1 for a
//     single color, and never less than twice the cutoff). A step that would
//     reach or pass the endpoint lands on the endpoint instead.
//  2. Once both endpoints are present, the midpoint of the widest ramp gap
//     whose midpoint is distinguishable from every entry is inserted.
//  3. If no gap can be split, the point of a fixed RGB lattice farthest from
//     every entry is inserted.
//
// An empty palette is filled with evenly spaced grays from black to white.
func (p *Palette) Extend(target int) error {
	if err := validateTarget(target); err != nil {
		return err
	}
	if len(p.colors) >= target {
		return nil
	}

	if len(p.colors) == 0 {
		for i := 0; i < target; i++ {
			v := uint8(128)
			if target > 1 {
				v = uint8(math.Round(float64(i) * 255 / float64(target-1)))
			}
			p.addSynthetic(color.NRGBA{R: v, G: v, B: v, A: 255})
		}
		if len(p.colors) >= target {
			return nil
		}
	}

	spacing := p.spacing(target)
	dark := true
	for len(p.colors) < target {
		if p.stepToward(dark, spacing) {
			dark = !dark
			continue
		}
		if !p.stepToward(!dark, spacing) {
			break
		}
	}

	for len(p.colors) < target {
		if p.splitWidestGap() {
			continue
		}
		if !p.addFarthestLatticePoint() {
			break
		}
	}
	return nil
}

func (p *Palette) spacing(target int) float64 {
	var spacing float64
	if n := len(p.ramp); n >= 2 {
		span := texture.DistanceRGB(p.colors[p.ramp[0]], p.colors[p.ramp[n-1]])
		spacing = span / float64(n-1)
	} else {
		spacing = texture.MaxRGBDistance / float64(target-1)
	}
	return max(spacing, 2*p.cutoff)
}

// stepToward adds one entry beyond the darkest (dark) or brightest ramp
// entry, moving toward black or white. It reports whether an entry was added.
func (p *Palette) stepToward(dark bool, spacing float64) bool {
	from, end := p.colors[p.ramp[len(p.ramp)-1]], white
	if dark {
		from, end = p.colors[p.ramp[0]], black
	}

	dist := texture.DistanceRGB(from, end)
	if dist <= p.cutoff {
		return false
	}
	next := end
	if dist > spacing {
		blended := texture.Colorful(from).BlendRgb(texture.Colorful(end), spacing/dist)
		next = texture.FromColorful(blended, 255)
	}
	return p.addSynthetic(next)
}

// splitWidestGap inserts the RGB midpoint of the widest adjacent ramp pair
// whose midpoint is not already represented.
func (p *Palette) splitWidestGap() bool {
	bestGap := 0.0
	var best color.NRGBA
	found := false
	for i := 0; i+1 < len(p.ramp); i++ {
		a, b := p.colors[p.ramp[i]], p.colors[p.ramp[i+1]]
		gap := texture.DistanceRGB(a, b)
		if gap <= bestGap {
			continue
		}
		mid := texture.FromColorful(texture.Colorful(a).BlendRgb(texture.Colorful(b), 0.5), 255)
		if p.Contains(mid) {
			continue
		}
		bestGap, best, found = gap, mid, true
	}
	if !found {
		return false
	}
	return p.addSynthetic(best)
}

// latticeStep spaces the fallback candidates at 9 levels per channel.
const latticeStep = 255.0 / 8

// addFarthestLatticePoint inserts the lattice color whose nearest entry is
// farthest away. Ties resolve to the first candidate in R, G, B order.
func (p *Palette) addFarthestLatticePoint() bool {
	bestDist := p.cutoff
	var best color.NRGBA
	found := false
	for r := 0; r <= 8; r++ {
		for g := 0; g <= 8; g++ {
			for b := 0; b <= 8; b++ {
				c := color.NRGBA{
					R: uint8(math.Round(float64(r) * latticeStep)),
					G: uint8(math.Round(float64(g) * latticeStep)),
					B: uint8(math.Round(float64(b) * latticeStep)),
					A: 255,
				}
				d := math.Inf(1)
				for _, e := range p.colors {
					d = min(d, texture.DistanceRGB(c, e))
				}
				if d > bestDist {
					bestDist, best, found = d, c, true
				}
			}
		}
	}
	if !found {
		return false
	}
	return p.addSynthetic(best)
}
