package transfer

import (
	"image/color"

	"github.com/ironsheep/texture-mcp/internal/texture"
)

// neighbors8 are the offsets of the 8-connected neighborhood.
var neighbors8 = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// eachNeighbor calls fn with the index of every in-bounds 8-neighbor of i.
func eachNeighbor(i, width, height int, fn func(n int)) {
	x, y := i%width, i/width
	for _, off := range neighbors8 {
		nx, ny := x+off[0], y+off[1]
		if nx < 0 || ny < 0 || nx >= width || ny >= height {
			continue
		}
		fn(ny*width + nx)
	}
}

// trim removes overlay components without a solid pixel, then mapping
// entries not connected to a remaining overlay pixel.
//
// Overlay components are 8-connected among overlay pixels. Exact entries go
// with the overlay pixels they belong to, and erasures are always kept. Any
// other mapping entry survives if it shares a position with, or is
// 8-adjacent to, a surviving overlay pixel, or is 8-connected to such an
// entry through other entries.
func trim(d *Diff) {
	width, height := d.Width, d.Height
	ov := d.Overlay.pix

	visited := make([]bool, len(ov))
	var component, queue []int
	for start := range ov {
		if visited[start] || ov[start].A == 0 {
			continue
		}
		component = component[:0]
		queue = append(queue[:0], start)
		visited[start] = true
		solid := false
		for len(queue) > 0 {
			i := queue[0]
			queue = queue[1:]
			component = append(component, i)
			if ov[i].A >= solidAlpha {
				solid = true
			}
			eachNeighbor(i, width, height, func(n int) {
				if !visited[n] && ov[n].A != 0 {
					visited[n] = true
					queue = append(queue, n)
				}
			})
		}
		if !solid {
			for _, i := range component {
				ov[i] = color.NRGBA{}
				if d.Mapping.present[i] && d.Mapping.entries[i].Exact {
					d.Mapping.clear(i)
				}
			}
		}
	}

	m := d.Mapping
	reached := make([]bool, len(ov))
	queue = queue[:0]
	reach := func(n int) {
		if m.present[n] && !reached[n] {
			reached[n] = true
			queue = append(queue, n)
		}
	}
	for i, c := range ov {
		if c.A == 0 {
			continue
		}
		reach(i)
		eachNeighbor(i, width, height, reach)
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		eachNeighbor(i, width, height, reach)
	}
	for i, ok := range m.present {
		if ok && !reached[i] && !m.entries[i].Exact {
			m.clear(i)
		}
	}
}

// forceNeighbors records an unchanged entry for every opaque pixel that is
// 8-adjacent to a solid overlay pixel and has neither an overlay pixel nor a
// mapping entry.
func forceNeighbors(d *Diff, bg, fg *texture.Texture) {
	width, height := d.Width, d.Height
	ov, m, pb := d.Overlay.pix, d.Mapping, d.Palette
	for i, c := range ov {
		if c.A < solidAlpha {
			continue
		}
		eachNeighbor(i, width, height, func(n int) {
			if ov[n].A != 0 || m.present[n] {
				return
			}
			x, y := n%width, n/width
			b, f := bg.At(x, y), fg.At(x, y)
			if b.A != 255 || f.A != 255 {
				return
			}
			m.set(n, MappingEntry{Source: b, Shade: f, From: pb.Index(b), To: pb.Index(f), Forced: true})
		})
	}
}
