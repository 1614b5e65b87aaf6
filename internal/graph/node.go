package graph

import (
	"github.com/ironsheep/texture-mcp/internal/mask"
	"github.com/ironsheep/texture-mcp/internal/shadow"
	"github.com/ironsheep/texture-mcp/internal/transfer"
)

// Node is one source in a Graph. Only the fields of its Kind are set.
type Node struct {
	Kind Kind

	// Name is the "sources" key the node was declared under, if any.
	Name string

	// Inputs are node indices in the order documented for Kind.
	Inputs []int

	// Path is the texture file of a KindTexture node.
	Path string

	Transfer transfer.Options
	Spread   shadow.Options
	Cutoff   mask.CutoffOptions
}

// transferSource is the JSON form of a foreground_transfer source.
type transferSource struct {
	Background        rawSource `json:"background"`
	Full              rawSource `json:"full"`
	NewBackground     rawSource `json:"new_background"`
	TrimTrailing      *bool     `json:"trim_trailing"`
	ForceNeighbors    *bool     `json:"force_neighbors"`
	FillHoles         *bool     `json:"fill_holes"`
	ExtendPaletteSize *int      `json:"extend_palette_size"`
	CloseCutoff       *float64  `json:"close_cutoff"`
}

func (s *transferSource) options() transfer.Options {
	opts := transfer.DefaultOptions()
	if s.TrimTrailing != nil {
		opts.TrimTrailing = *s.TrimTrailing
	}
	if s.ForceNeighbors != nil {
		opts.ForceNeighbors = *s.ForceNeighbors
	}
	if s.FillHoles != nil {
		opts.FillHoles = *s.FillHoles
	}
	if s.ExtendPaletteSize != nil {
		opts.ExtendPaletteSize = *s.ExtendPaletteSize
	}
	if s.CloseCutoff != nil {
		opts.CloseCutoff = *s.CloseCutoff
	}
	return opts
}

// maskSource is the JSON form of a mask source.
type maskSource struct {
	Mask  rawSource `json:"mask"`
	Input rawSource `json:"input"`
}

// spreadSource is the JSON form of a palette_spread source.
type spreadSource struct {
	Background        rawSource `json:"background"`
	Foreground        rawSource `json:"foreground"`
	ExtendPaletteSize *int      `json:"extend_palette_size"`
	HighlightStrength *float64  `json:"highlight_strength"`
	ShadowStrength    *float64  `json:"shadow_strength"`
	Uniformity        *float64  `json:"uniformity"`
}

func (s *spreadSource) options() shadow.Options {
	opts := shadow.DefaultOptions()
	if s.ExtendPaletteSize != nil {
		opts.ExtendPaletteSize = *s.ExtendPaletteSize
	}
	if s.HighlightStrength != nil {
		opts.HighlightStrength = *s.HighlightStrength
	}
	if s.ShadowStrength != nil {
		opts.ShadowStrength = *s.ShadowStrength
	}
	if s.Uniformity != nil {
		opts.Uniformity = *s.Uniformity
	}
	return opts
}

// listSource is the JSON form of the overlay and mask/add sources.
type listSource struct {
	Sources []rawSource `json:"sources"`
}

// invertSource is the JSON form of a mask/invert source.
type invertSource struct {
	Source rawSource `json:"source"`
}

// cutoffSource is the JSON form of a mask/cutoff source.
type cutoffSource struct {
	Source  rawSource `json:"source"`
	Channel string    `json:"channel"`
	Cutoff  *float64  `json:"cutoff"`
}

func (s *cutoffSource) options() (mask.CutoffOptions, error) {
	opts := mask.DefaultCutoffOptions()
	var err error
	if opts.Channel, err = mask.ParseChannel(s.Channel); err != nil {
		return opts, err
	}
	if s.Cutoff != nil {
		opts.Threshold = *s.Cutoff
	}
	return opts, opts.Validate()
}

// textureSource is the JSON form of a texture source.
type textureSource struct {
	Path string `json:"path"`
}
