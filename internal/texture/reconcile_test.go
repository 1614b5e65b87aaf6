package texture

import (
	"errors"
	"image/color"
	"testing"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		sizes      [][2]int
		wantWidth  int
		wantHeight int
	}{
		{"same size", [][2]int{{4, 4}, {4, 4}}, 4, 4},
		{"mask upscaled", [][2]int{{2, 2}, {4, 4}}, 4, 4},
		{"lcm width", [][2]int{{4, 2}, {6, 3}}, 12, 6},
		{"taller input pads others", [][2]int{{2, 1}, {2, 4}}, 2, 4},
		{"single", [][2]int{{3, 5}}, 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts []*Texture
			for _, s := range tt.sizes {
				ts = append(ts, createPatternTexture(s[0], s[1]))
			}
			w, h, out, err := Reconcile(ts...)
			if err != nil {
				t.Fatalf("Reconcile failed: %v", err)
			}
			if w != tt.wantWidth || h != tt.wantHeight {
				t.Errorf("size = %dx%d, want %dx%d", w, h, tt.wantWidth, tt.wantHeight)
			}
			for i, o := range out {
				if o.Width() != w || o.Height() != h {
					t.Errorf("out[%d] size = %dx%d, want %dx%d", i, o.Width(), o.Height(), w, h)
				}
			}
		})
	}
}

func TestReconcileNearestBlocks(t *testing.T) {
	small := createPatternTexture(2, 2)
	_, _, out, err := Reconcile(small, Solid(4, 4, color.NRGBA{}))
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	scaled := out[0]
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got, want := scaled.At(x, y), small.At(x/2, y/2); got != want {
				t.Errorf("At(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestReconcilePadsTransparent(t *testing.T) {
	short := Solid(2, 1, color.NRGBA{255, 0, 0, 255})
	_, _, out, err := Reconcile(short, Solid(2, 3, color.NRGBA{}))
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if got := out[0].At(1, 0); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("At(1,0) = %v, want red", got)
	}
	if got := out[0].At(1, 2); got.A != 0 {
		t.Errorf("At(1,2) = %v, want transparent padding", got)
	}
}

func TestReconcileErrors(t *testing.T) {
	tests := []struct {
		name string
		ts   []*Texture
	}{
		{"no textures", nil},
		{"zero area", []*Texture{Solid(0, 3, color.NRGBA{}), Solid(2, 2, color.NRGBA{})}},
		{"nil texture", []*Texture{nil}},
		{"width too large", []*Texture{Solid(8191, 1, color.NRGBA{}), Solid(8190, 1, color.NRGBA{})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Reconcile(tt.ts...)
			if !errors.Is(err, ErrDimensionMismatch) {
				t.Errorf("err = %v, want ErrDimensionMismatch", err)
			}
		})
	}
}

func TestOptionError(t *testing.T) {
	err := &OptionError{Option: "uniformity", Value: 2.0, Reason: "must be within [0, 1]"}
	if !errors.Is(err, ErrInvalidOption) {
		t.Error("OptionError should match ErrInvalidOption")
	}
	if err.Error() != "invalid option uniformity=2: must be within [0, 1]" {
		t.Errorf("Error() = %q", err.Error())
	}
}
