package palette

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"github.com/ironsheep/texture-mcp/internal/texture"
)

const (
	// DefaultCutoff is the RGB distance within which two colors are the same
	// palette entry.
	DefaultCutoff = 3.5

	// MaxExtendSize is the largest target size Extend accepts.
	MaxExtendSize = 64

	// defaultStep is the ramp step, in ΔE, assumed when the ramp has fewer
	// than two entries.
	defaultStep = 10.0
)

// Palette is an ordered set of distinguishable opaque colors.
//
// A Palette is not safe for concurrent mutation. Once built, read-only
// methods may be called from any number of goroutines.
type Palette struct {
	cutoff  float64
	colors  []color.NRGBA
	natural int
	ramp    []int
}

// New returns an empty palette using cutoff as its fuzzy-equality radius.
// A negative cutoff is treated as zero.
func New(cutoff float64) *Palette {
	if cutoff < 0 || math.IsNaN(cutoff) {
		cutoff = 0
	}
	return &Palette{cutoff: cutoff}
}

// Extract builds the natural palette of ts and extends it to target entries.
//
// Pixels are scanned row-major, texture by texture; fully transparent pixels
// are skipped. An empty input is not an error: the result is empty, or
// entirely synthesized when target > 0.
//
// Returns an error wrapping texture.ErrInvalidOption if target is outside
// [0, MaxExtendSize].
func Extract(target int, ts ...*texture.Texture) (*Palette, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}

	p := New(DefaultCutoff)
	seen := make(map[color.NRGBA]struct{})
	for _, t := range ts {
		if t == nil {
			continue
		}
		for y := 0; y < t.Height(); y++ {
			for x := 0; x < t.Width(); x++ {
				c := t.At(x, y)
				if c.A == 0 {
					continue
				}
				c = texture.Opaque(c)
				if _, ok := seen[c]; ok {
					continue
				}
				seen[c] = struct{}{}
				p.Add(c)
			}
		}
	}

	if err := p.Extend(target); err != nil {
		return nil, err
	}
	return p, nil
}

// Add appends c to the natural portion of the palette unless an existing
// entry already matches it. It reports whether c was added.
func (p *Palette) Add(c color.NRGBA) bool {
	if p.Contains(c) {
		return false
	}
	c = texture.Opaque(c)
	p.colors = slices.Insert(p.colors, p.natural, c)
	p.natural++
	p.rebuildRamp()
	return true
}

// addSynthetic appends c after every existing entry.
func (p *Palette) addSynthetic(c color.NRGBA) bool {
	if p.Contains(c) {
		return false
	}
	p.colors = append(p.colors, texture.Opaque(c))
	p.rebuildRamp()
	return true
}

func (p *Palette) rebuildRamp() {
	p.ramp = p.ramp[:0]
	for i := range p.colors {
		p.ramp = append(p.ramp, i)
	}
	lum := make([]float64, len(p.colors))
	for i, c := range p.colors {
		lum[i] = texture.Luminance(c)
	}
	slices.SortStableFunc(p.ramp, func(a, b int) int {
		return cmp.Compare(lum[a], lum[b])
	})
}

// Cutoff returns the fuzzy-equality radius.
func (p *Palette) Cutoff() float64 { return p.cutoff }

// Len returns the number of entries.
func (p *Palette) Len() int { return len(p.colors) }

// NaturalLen returns the number of entries extracted from pixels.
func (p *Palette) NaturalLen() int { return p.natural }

// Colors returns the entries in insertion order.
func (p *Palette) Colors() []color.NRGBA {
	return slices.Clone(p.colors)
}

// Ramp returns the entries sorted darkest first.
func (p *Palette) Ramp() []color.NRGBA {
	out := make([]color.NRGBA, len(p.ramp))
	for i, ci := range p.ramp {
		out[i] = p.colors[ci]
	}
	return out
}

// RampColor returns ramp entry i, clamping i to the valid range.
// It returns transparent black for an empty palette.
func (p *Palette) RampColor(i int) color.NRGBA {
	if len(p.ramp) == 0 {
		return color.NRGBA{}
	}
	i = max(0, min(i, len(p.ramp)-1))
	return p.colors[p.ramp[i]]
}

// Contains reports whether c is within the cutoff of any entry.
func (p *Palette) Contains(c color.NRGBA) bool {
	for _, e := range p.colors {
		if texture.DistanceRGB(c, e) <= p.cutoff {
			return true
		}
	}
	return false
}

// Index returns the ramp index of the entry nearest to c in RGB, or -1 for
// an empty palette. Ties resolve to the darker entry.
func (p *Palette) Index(c color.NRGBA) int {
	best, bestDist := -1, math.Inf(1)
	for i, ci := range p.ramp {
		if d := texture.DistanceRGB(c, p.colors[ci]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Nearest returns the ramp index of the perceptually nearest entry and its
// ΔE from c. An empty palette yields -1 and +Inf.
func (p *Palette) Nearest(c color.NRGBA) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i, ci := range p.ramp {
		if d := texture.DistanceLab(c, p.colors[ci]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// indexSample returns the sample number at the center of ramp index i.
func (p *Palette) indexSample(i int) float64 {
	return (float64(i) + 0.5) * 256 / float64(len(p.ramp))
}

// Sample returns the sample number of c.
//
// A color within the cutoff of an entry takes that entry's sample. Otherwise
// the sample is interpolated between the two nearest entries, weighted by
// inverse RGB distance, so colors between two shades land between their
// samples. An empty palette maps c by luminance.
func (p *Palette) Sample(c color.NRGBA) float64 {
	n := len(p.ramp)
	if n == 0 {
		return math.Round(texture.Luminance(c) * 255)
	}

	first, second := -1, -1
	d1, d2 := math.Inf(1), math.Inf(1)
	for i, ci := range p.ramp {
		d := texture.DistanceRGB(c, p.colors[ci])
		switch {
		case d < d1:
			second, d2 = first, d1
			first, d1 = i, d
		case d < d2:
			second, d2 = i, d
		}
	}

	if d1 <= p.cutoff || second < 0 {
		return p.indexSample(first)
	}
	w := d1 / (d1 + d2)
	return p.indexSample(first)*(1-w) + p.indexSample(second)*w
}

// ColorAtSample returns the ramp entry addressed by sample s, clamped to
// [0, 255]. An empty palette yields the gray of that level.
func (p *Palette) ColorAtSample(s float64) color.NRGBA {
	if math.IsNaN(s) {
		s = 0
	}
	s = max(0, min(255, s))
	n := len(p.ramp)
	if n == 0 {
		v := uint8(math.Round(s))
		return color.NRGBA{R: v, G: v, B: v, A: 255}
	}
	return p.colors[p.ramp[min(n-1, int(s*float64(n)/256))]]
}

// SampleStep returns the sample distance between adjacent ramp entries.
func (p *Palette) SampleStep() float64 {
	if len(p.ramp) == 0 {
		return 1
	}
	return 256 / float64(len(p.ramp))
}

// DistanceToRamp returns the ΔE from c to the polyline joining consecutive
// ramp entries in Lab space. A single-entry palette measures to that entry;
// an empty palette returns +Inf.
func (p *Palette) DistanceToRamp(c color.NRGBA) float64 {
	n := len(p.ramp)
	if n == 0 {
		return math.Inf(1)
	}
	if n == 1 {
		return texture.DistanceLab(c, p.colors[p.ramp[0]])
	}

	pl, pa, pb := texture.Colorful(c).Lab()
	best := math.Inf(1)
	for i := 0; i+1 < n; i++ {
		al, aa, ab := texture.Colorful(p.colors[p.ramp[i]]).Lab()
		bl, ba, bb := texture.Colorful(p.colors[p.ramp[i+1]]).Lab()
		dl, da, db := bl-al, ba-aa, bb-ab
		t := 0.0
		if lenSq := dl*dl + da*da + db*db; lenSq > 0 {
			t = ((pl-al)*dl + (pa-aa)*da + (pb-ab)*db) / lenSq
			t = max(0, min(1, t))
		}
		ql, qa, qb := al+t*dl-pl, aa+t*da-pa, ab+t*db-pb
		if d := math.Sqrt(ql*ql+qa*qa+qb*qb) * 100; d < best {
			best = d
		}
	}
	return best
}

// Step returns the mean ΔE between adjacent ramp entries, or a fixed default
// of 10 when there are fewer than two entries.
func (p *Palette) Step() float64 {
	n := len(p.ramp)
	if n < 2 {
		return defaultStep
	}
	total := 0.0
	for i := 0; i+1 < n; i++ {
		total += texture.DistanceLab(p.colors[p.ramp[i]], p.colors[p.ramp[i+1]])
	}
	step := total / float64(n-1)
	if step == 0 {
		return defaultStep
	}
	return step
}
