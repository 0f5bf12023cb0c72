// Package screen implements an off-screen raster buffer for embedded displays.
//
// A [Buffer] owns a padded 24-bit pixel buffer laid out like a device independent bitmap: rows
// are aligned to 4 pixels and stored bottom-up. Buffers are created from explicit dimensions, a
// fill color, raw RGB bytes or an existing image, filtered in place (smoothing and quantization)
// and finally presented, unscaled or stretched, to a [Surface] such as an in-memory image, a
// Linux framebuffer or an SPI/I²C display panel.
//
// Buffers are not safe for concurrent use; callers must serialize access to a Buffer.
package screen

import "errors"

// Errors
var (
	ErrSize             = errors.New("screen: invalid buffer size")
	ErrShortData        = errors.New("screen: raw RGB data too short")
	ErrEmpty            = errors.New("screen: buffer has no backing storage")
	ErrNoDrawingContext = errors.New("screen: no drawing context acquired")
	ErrNoContext        = errors.New("screen: unable to obtain a compatible rendering context")
)
