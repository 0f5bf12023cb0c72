// Package panel contains drivers for small SPI and I²C display panels that a screen.Buffer can be
// presented to.
//
// Every driver keeps a frame buffer in the panel's native pixel format. Presenting a buffer
// draws into that frame buffer and closing the rendering context sends the touched area to the
// controller.
package panel

import (
	"errors"
	"image"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/screen"
)

// Errors
var (
	ErrResetPin = errors.New("panel: reset GPIO pin is invalid")
	ErrDCPin    = errors.New("panel: data/command (DC) GPIO pin is invalid")
	ErrClosed   = errors.New("panel: display is closed")
)

// sleep is replaced in tests.
var sleep = time.Sleep

// Rotation defines pixel rotation.
type Rotation uint8

// Supported rotations.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r % 4 {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// Config is the panel configuration. Zero values select the driver defaults.
type Config struct {
	// Width of the display in pixels.
	Width int

	// Height of the display in pixels.
	Height int

	// Rotation of the display.
	Rotation Rotation

	// Backlight pin, driven high while the display is shown.
	Backlight gpio.PinOut
}

// flushContext draws into a panel's frame buffer and flushes the dirty area on Close.
type flushContext struct {
	screen.ImageContext
	flush func(image.Rectangle) error
}

func (c *flushContext) Close() error {
	if c.Dirty.Empty() {
		return nil
	}
	return c.flush(c.Dirty)
}

func reset(c Conn) (err error) {
	if err = c.Reset(gpio.High); err != nil {
		return
	}
	sleep(100 * time.Millisecond)
	if err = c.Reset(gpio.Low); err != nil {
		return
	}
	sleep(100 * time.Millisecond)
	return c.Reset(gpio.High)
}

func setBacklight(pin gpio.PinOut, on bool) error {
	if pin == nil || pin == gpio.INVALID {
		return nil
	}
	return pin.Out(gpio.Level(on))
}

var _ screen.Context = (*flushContext)(nil)
