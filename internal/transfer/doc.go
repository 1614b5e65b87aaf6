// Package transfer moves a foreground drawn over one background onto
// another background.
//
// The work happens in two phases. BuildDiff compares a background with a
// "full" image (the same background with something drawn on it) and splits
// the difference into an Overlay of foreground pixels and a Mapping of
// palette shifts, such as a shadow that darkens background shades by one
// step. Apply replays a Diff onto a new background: mapped pixels move along
// the palette ramp by the recorded shift and overlay pixels are composited
// on top.
//
// Palette indices in a Diff always refer to the luminance ramp of the
// background palette stored in the Diff.
//
// # Limitations
//
// Replaying a diff onto its own background reproduces the full image except
// where TrimTrailing removed an overlay pixel or mapping entry, or where
// FillHoles shifted a color. On any other background a translucent overlay
// pixel is the closest blend found, not an exact one.
package transfer
