package transfer

import (
	"math"

	"github.com/ironsheep/texture-mcp/internal/palette"
	"github.com/ironsheep/texture-mcp/internal/texture"
)

// DiffOptions configures BuildDiff.
type DiffOptions struct {
	// ExtendPaletteSize is the target size of the background palette.
	ExtendPaletteSize int

	// TrimTrailing removes overlay pixels and mapping entries that are not
	// connected to a solid overlay pixel.
	TrimTrailing bool

	// ForceNeighbors records an unchanged mapping entry for every opaque
	// pixel next to a solid overlay pixel.
	ForceNeighbors bool

	// CloseCutoff scales the background palette's mean step into the ΔE
	// threshold above which a changed pixel is always foreground.
	CloseCutoff float64
}

// DefaultDiffOptions returns the documented defaults.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{
		ExtendPaletteSize: 6,
		TrimTrailing:      true,
		ForceNeighbors:    true,
		CloseCutoff:       2,
	}
}

// Validate reports the first out-of-range option.
func (o DiffOptions) Validate() error {
	if o.ExtendPaletteSize < 0 || o.ExtendPaletteSize > palette.MaxExtendSize {
		return &texture.OptionError{Option: "extend_palette_size", Value: o.ExtendPaletteSize, Reason: "must be within [0, 64]"}
	}
	if o.CloseCutoff < 0 || math.IsNaN(o.CloseCutoff) || math.IsInf(o.CloseCutoff, 0) {
		return &texture.OptionError{Option: "close_cutoff", Value: o.CloseCutoff, Reason: "must be finite and non-negative"}
	}
	return nil
}

// ApplyOptions configures Apply.
type ApplyOptions struct {
	// FillHoles shifts new-background colors that the diff's palette does
	// not contain through a palette extracted from the new background.
	FillHoles bool
}

// DefaultApplyOptions returns the documented defaults.
func DefaultApplyOptions() ApplyOptions {
	return ApplyOptions{FillHoles: true}
}

// Options configures ForegroundTransfer.
type Options struct {
	DiffOptions
	ApplyOptions
}

// DefaultOptions returns the documented defaults for both phases.
func DefaultOptions() Options {
	return Options{
		DiffOptions:  DefaultDiffOptions(),
		ApplyOptions: DefaultApplyOptions(),
	}
}
