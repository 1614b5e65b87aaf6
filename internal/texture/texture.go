package texture

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// Texture is an immutable grid of straight-alpha RGBA pixels.
type Texture struct {
	img *image.NRGBA
}

// FromImage copies img into a new Texture anchored at (0,0).
//
// Any image type is accepted; the pixels are converted to 8-bit
// non-premultiplied RGBA by imaging.Clone.
func FromImage(img image.Image) *Texture {
	return &Texture{img: imaging.Clone(img)}
}

// Generate builds a width×height texture by evaluating fn once per pixel.
//
// Rows are partitioned across goroutines, so fn must be safe for concurrent
// use. Every pixel depends only on fn, which keeps the result deterministic.
func Generate(width, height int, fn func(x, y int) color.NRGBA) *Texture {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				i := img.PixOffset(x, y)
				c := fn(x, y)
				img.Pix[i+0] = c.R
				img.Pix[i+1] = c.G
				img.Pix[i+2] = c.B
				img.Pix[i+3] = c.A
			}
		}
	})
	return &Texture{img: img}
}

// Solid returns a width×height texture filled with c.
func Solid(width, height int, c color.NRGBA) *Texture {
	return Generate(width, height, func(int, int) color.NRGBA { return c })
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.img.Rect.Dx() }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.img.Rect.Dy() }

// Empty reports whether the texture has zero area.
func (t *Texture) Empty() bool { return t.Width() == 0 || t.Height() == 0 }

// At returns the pixel at (x, y), or transparent black outside the bounds.
func (t *Texture) At(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= t.Width() || y >= t.Height() {
		return color.NRGBA{}
	}
	i := t.img.PixOffset(x, y)
	p := t.img.Pix[i : i+4 : i+4]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Image returns a copy of the pixels as an *image.NRGBA.
func (t *Texture) Image() *image.NRGBA {
	return imaging.Clone(t.img)
}

// Bytes returns a copy of the raw row-major RGBA bytes.
func (t *Texture) Bytes() []byte {
	w, h := t.Width(), t.Height()
	out := make([]byte, 0, w*h*4)
	for y := 0; y < h; y++ {
		i := t.img.PixOffset(0, y)
		out = append(out, t.img.Pix[i:i+w*4]...)
	}
	return out
}

// Equal reports whether a and b have the same size and identical pixels.
func Equal(a, b *Texture) bool {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if a.At(x, y) != b.At(x, y) {
				return false
			}
		}
	}
	return true
}
