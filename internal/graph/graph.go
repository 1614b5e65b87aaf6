// Package graph parses JSON source documents into an acyclic graph of
// texture sources and evaluates it.
//
// A document names reusable sources and the files to produce:
//
//	{
//	  "sources": {
//	    "stone": {"type": "texture", "path": "stone.png"}
//	  },
//	  "outputs": {
//	    "mossy_stone.png": {
//	      "type": "minecraft:foreground_transfer",
//	      "background": {"type": "texture", "path": "cobble.png"},
//	      "full": {"type": "texture", "path": "mossy_cobble.png"},
//	      "new_background": "stone"
//	    }
//	  }
//	}
//
// Besides the sources above, "overlay" and "mask/add" combine a "sources"
// list, "mask/invert" inverts a "source", and "mask/cutoff" thresholds one
// "channel" of a "source" at "cutoff".
//
// Wherever a source is expected, a document may give either an inline
// source object or the name of an entry in "sources". A type may carry a
// namespace prefix before a colon, which is ignored.
//
// Every reference is resolved to a node index during Parse, so a Graph is
// known to be well-formed and acyclic before anything is evaluated.
package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSource reports a malformed source: an unknown type, a
	// missing field, an unknown reference, or an out-of-range option.
	ErrInvalidSource = errors.New("invalid source")

	// ErrCycle reports named sources that refer to each other in a loop.
	ErrCycle = errors.New("source cycle")
)

// Kind identifies the operation a node performs.
type Kind int

const (
	// KindTexture loads a texture file.
	KindTexture Kind = iota

	// KindForegroundTransfer moves a foreground onto a new background.
	// Inputs: background, full, new_background.
	KindForegroundTransfer

	// KindMask multiplies alpha channels. Inputs: mask, input.
	KindMask

	// KindPaletteSpread shades a background around a foreground.
	// Inputs: background, foreground.
	KindPaletteSpread

	// KindOverlay stacks its sources bottom to top. Inputs: sources.
	KindOverlay

	// KindInvert inverts every channel. Inputs: source.
	KindInvert

	// KindCutoff thresholds one channel into a mask. Inputs: source.
	KindCutoff

	// KindAdd sums its sources channel by channel. Inputs: sources.
	KindAdd
)

// kinds is the closed set of source types a document may use.
var kinds = map[string]Kind{
	"texture":             KindTexture,
	"foreground_transfer": KindForegroundTransfer,
	"mask":                KindMask,
	"palette_spread":      KindPaletteSpread,
	"overlay":             KindOverlay,
	"mask/invert":         KindInvert,
	"mask/cutoff":         KindCutoff,
	"mask/add":            KindAdd,

	// Short forms of the mask family.
	"invert": KindInvert,
	"cutoff": KindCutoff,
	"add":    KindAdd,
}

func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "texture"
	case KindForegroundTransfer:
		return "foreground_transfer"
	case KindMask:
		return "mask"
	case KindPaletteSpread:
		return "palette_spread"
	case KindOverlay:
		return "overlay"
	case KindInvert:
		return "mask/invert"
	case KindCutoff:
		return "mask/cutoff"
	case KindAdd:
		return "mask/add"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Output is a file to produce from a node.
type Output struct {
	Name string
	Node int
}

// Graph is a parsed document. Every node's inputs have smaller indices
// than the node itself.
type Graph struct {
	Nodes   []Node
	Outputs []Output
}
