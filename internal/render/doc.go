// Package render draws images in a terminal with a contrast filter applied.
//
// The contrast filter follows the CSS contrast() function: a percentage of
// 100 leaves the image unchanged, 0 yields flat gray and 200 doubles the
// distance of every channel from mid-gray.
//
//   - [Contrast]: apply the filter to an image
//   - [Fit]: scale an image into a cell grid, preserving aspect
//   - [Magnify]: zoomed lens around a probe point
//   - [HalfBlocks] / [Braille]: terminal encodings
//
// # Modes
//
//	blocks  - two truecolor pixels per cell using the upper half block
//	braille - 2x4 dithered monochrome dots per cell
package render
