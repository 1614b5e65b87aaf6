// Package palette extracts ordered, fuzzy-deduplicated color palettes from
// textures and provides the index arithmetic the compositing sources use to
// move between palette shades.
//
// # Ordering
//
// A Palette keeps two orders:
//   - Insertion order: natural entries in first-seen order (row-major over
//     each input texture in turn), followed by synthesized entries in the
//     order Extend created them.
//   - Ramp order: the same entries sorted by relative luminance, darkest
//     first. Ties keep insertion order. Index, Sample, and ColorAtSample all
//     address the ramp.
//
// # Equality
//
// Two colors belong to the same palette entry when their RGB Euclidean
// distance is at most the palette cutoff (DefaultCutoff unless New is given
// another). Alpha never participates, and fully transparent pixels are never
// extracted. The first color seen for a class is its representative and is
// stored opaque.
//
// # Sample Numbers
//
// A sample number in [0, 255] addresses the ramp proportionally, so that
// palettes of different sizes can exchange shades: entry i of n is centered
// on sample (i+0.5)*256/n and sample s selects entry floor(s*n/256).
package palette
