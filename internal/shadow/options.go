package shadow

import (
	"math"

	"github.com/ironsheep/texture-mcp/internal/palette"
	"github.com/ironsheep/texture-mcp/internal/texture"
)

// Options configures Spread.
type Options struct {
	// ExtendPaletteSize is the target size of the background palette.
	ExtendPaletteSize int

	// HighlightStrength is the sample offset applied on the lit side.
	HighlightStrength float64

	// ShadowStrength is the sample offset applied on the shadowed side.
	ShadowStrength float64

	// Uniformity blends each shaded pixel's base sample between its own
	// sample (0) and the background's mean sample (1).
	Uniformity float64
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		ExtendPaletteSize: 6,
		HighlightStrength: 72,
		ShadowStrength:    72,
		Uniformity:        1.0,
	}
}

// Validate reports the first out-of-range option.
func (o Options) Validate() error {
	if o.ExtendPaletteSize < 0 || o.ExtendPaletteSize > palette.MaxExtendSize {
		return &texture.OptionError{Option: "extend_palette_size", Value: o.ExtendPaletteSize, Reason: "must be within [0, 64]"}
	}
	if !nonNegative(o.HighlightStrength) {
		return &texture.OptionError{Option: "highlight_strength", Value: o.HighlightStrength, Reason: "must be finite and non-negative"}
	}
	if !nonNegative(o.ShadowStrength) {
		return &texture.OptionError{Option: "shadow_strength", Value: o.ShadowStrength, Reason: "must be finite and non-negative"}
	}
	if !(o.Uniformity >= 0 && o.Uniformity <= 1) {
		return &texture.OptionError{Option: "uniformity", Value: o.Uniformity, Reason: "must be within [0, 1]"}
	}
	return nil
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}
