package transfer

import (
	"cmp"
	"image/color"
	"slices"

	"github.com/ironsheep/texture-mcp/internal/texture"
)

// solidAlpha is the lowest alpha of a solid overlay pixel.
const solidAlpha = 128

// OverlayPixel is a foreground pixel and its position.
type OverlayPixel struct {
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color color.NRGBA `json:"color"`
}

// Overlay is a grid of optional foreground colors. An entry is present when
// its alpha is non-zero.
type Overlay struct {
	width, height int
	pix           []color.NRGBA
}

func newOverlay(width, height int) *Overlay {
	return &Overlay{width: width, height: height, pix: make([]color.NRGBA, width*height)}
}

// At returns the overlay color at (x, y) and whether one is present.
func (o *Overlay) At(x, y int) (color.NRGBA, bool) {
	if x < 0 || y < 0 || x >= o.width || y >= o.height {
		return color.NRGBA{}, false
	}
	c := o.pix[y*o.width+x]
	return c, c.A != 0
}

// Solid reports whether (x, y) holds an overlay pixel with alpha of at
// least 128.
func (o *Overlay) Solid(x, y int) bool {
	c, ok := o.At(x, y)
	return ok && c.A >= solidAlpha
}

// Len returns the number of overlay pixels.
func (o *Overlay) Len() int {
	n := 0
	for _, c := range o.pix {
		if c.A != 0 {
			n++
		}
	}
	return n
}

// Pixels lists the overlay pixels in row-major order.
func (o *Overlay) Pixels() []OverlayPixel {
	var out []OverlayPixel
	for i, c := range o.pix {
		if c.A != 0 {
			out = append(out, OverlayPixel{X: i % o.width, Y: i / o.width, Color: c})
		}
	}
	return out
}

// Texture renders the overlay on a transparent canvas.
func (o *Overlay) Texture() *texture.Texture {
	return texture.Generate(o.width, o.height, func(x, y int) color.NRGBA {
		return o.pix[y*o.width+x]
	})
}

// MappingEntry records how the full image altered one background pixel.
type MappingEntry struct {
	// Source is the background color at the pixel.
	Source color.NRGBA `json:"source"`

	// Shade is the full image's color at the pixel.
	Shade color.NRGBA `json:"shade"`

	// From and To are background palette ramp indices of Source and Shade.
	From int `json:"from"`
	To   int `json:"to"`

	// Forced marks an entry recorded only because the pixel borders a solid
	// overlay pixel.
	Forced bool `json:"forced,omitempty"`

	// Exact marks an entry sharing its pixel with an overlay pixel that does
	// not reproduce Shade over Source. On Source, Shade is the final color
	// and the overlay is not composited.
	Exact bool `json:"exact,omitempty"`
}

// Shift returns To - From.
func (e MappingEntry) Shift() int { return e.To - e.From }

// Mapping is a grid of optional palette mapping entries.
type Mapping struct {
	width, height int
	entries       []MappingEntry
	present       []bool
}

func newMapping(width, height int) *Mapping {
	return &Mapping{
		width:   width,
		height:  height,
		entries: make([]MappingEntry, width*height),
		present: make([]bool, width*height),
	}
}

// At returns the entry at (x, y) and whether one is present.
func (m *Mapping) At(x, y int) (MappingEntry, bool) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return MappingEntry{}, false
	}
	i := y*m.width + x
	return m.entries[i], m.present[i]
}

func (m *Mapping) set(i int, e MappingEntry) {
	m.entries[i] = e
	m.present[i] = true
}

func (m *Mapping) clear(i int) {
	m.entries[i] = MappingEntry{}
	m.present[i] = false
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	n := 0
	for _, ok := range m.present {
		if ok {
			n++
		}
	}
	return n
}

// ShiftCount is the number of mapping entries with a given palette shift.
type ShiftCount struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Count int `json:"count"`
}

// Shifts summarizes the mapping as distinct From/To pairs, ordered by From
// then To.
func (m *Mapping) Shifts() []ShiftCount {
	counts := make(map[[2]int]int)
	for i, ok := range m.present {
		if ok {
			counts[[2]int{m.entries[i].From, m.entries[i].To}]++
		}
	}
	out := make([]ShiftCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, ShiftCount{From: k[0], To: k[1], Count: n})
	}
	slices.SortFunc(out, func(a, b ShiftCount) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})
	return out
}
