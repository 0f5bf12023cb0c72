// Package pixel implements the color models and pixel images used by screen buffers and the
// display surfaces they are presented to.
//
// All types are compatible with Go's native [color.Color] and [image.Image] / [draw.Image]
// interfaces, so they can be used with [image/draw] and [golang.org/x/image/draw].
package pixel
