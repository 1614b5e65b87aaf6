// Package texture provides the immutable pixel grid shared by every texture
// source, together with the color math and size reconciliation the
// compositing operations build on.
//
// A Texture is a width×height grid of straight (non-premultiplied) RGBA
// pixels with 8-bit channels. All coordinates are 0-based with (0,0) at the
// top-left corner, X increasing rightward and Y increasing downward.
//
// # Immutability
//
// Textures are never mutated after construction. FromImage and Decode copy
// their input, Generate fills a fresh grid, and Image returns a copy. A
// Texture may therefore be shared freely between goroutines and between
// nodes of a source graph.
//
// # Color Metrics
//
// Two distances are used throughout the engine:
//   - DistanceRGB: Euclidean distance over 8-bit R, G, B (0 to ~441.67).
//     Used for fuzzy palette membership.
//   - DistanceLab: CIE76 ΔE in L*a*b* space (0 to ~100+). Used wherever a
//     perceptual tolerance is applied.
//
// # Size Reconciliation
//
// Operations over several inputs call Reconcile, which scales every input
// with nearest-neighbor sampling to a common width (the least common multiple
// of the input widths) and pads to the tallest aspect-scaled height with
// transparent pixels. Zero-area inputs fail with ErrDimensionMismatch.
//
// # Caching
//
// TextureCache provides path-keyed, concurrency-safe loading of textures
// from disk for the source graph and the server.
package texture
