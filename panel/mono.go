package panel

import (
	"image"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/screen"
	"github.com/BeatGlow/screen/pixel"
)

// SSD1xxx commands, shared by the SH1106.
const (
	ssd1xxxSetLowColumn          = 0x00
	ssd1xxxSetHighColumn         = 0x10
	ssd1xxxSetMemoryMode         = 0x20
	ssd1xxxSetColumnAddr         = 0x21
	ssd1xxxSetPageAddr           = 0x22
	ssd1xxxSetStartLine          = 0x40
	ssd1xxxSetContrast           = 0x81
	ssd1xxxSetChargePump         = 0x8D
	ssd1xxxSetRemap              = 0xA0
	ssd1xxxSetSegmentRemap       = 0xA1
	ssd1xxxSetDisplayAllOnResume = 0xA4
	ssd1xxxSetNormalDisplay      = 0xA6
	ssd1xxxSetMultiplexRatio     = 0xA8
	ssd1xxxSetDisplayOff         = 0xAE
	ssd1xxxSetDisplayOn          = 0xAF
	ssd1xxxSetPageStart          = 0xB0
	ssd1xxxSetComScanInc         = 0xC0
	ssd1xxxSetComScanDec         = 0xC8
	ssd1xxxSetDisplayOffset      = 0xD3
	ssd1xxxSetDisplayClockDiv    = 0xD5
	ssd1xxxSetPrecharge          = 0xD9
	ssd1xxxSetComPins            = 0xDA
	ssd1xxxSetVCOMDeselect       = 0xDB
)

// mono is the common part of the monochrome OLED drivers: a page organised frame buffer whose
// dirty area is sent by the driver's send function.
type mono struct {
	c         Conn
	img       *pixel.MonoVerticalLSBImage
	backlight gpio.PinOut
	halted    bool
	closed    bool
	send      func(image.Rectangle) error
}

// Bounds is the display area.
func (d *mono) Bounds() image.Rectangle {
	return d.img.Bounds()
}

// Image is the frame buffer mirrored to the panel.
func (d *mono) Image() *pixel.MonoVerticalLSBImage {
	return d.img
}

func (d *mono) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if !d.halted {
		if err := d.Show(false); err != nil {
			screen.Logger().Warn("panel: switching display off failed", "conn", d.c.String(), "err", err)
			_ = d.c.Close()
			return err
		}
	}
	return d.c.Close()
}

// command sends every byte in command mode, parameters included.
func (d *mono) command(commands ...byte) error {
	for _, b := range commands {
		if err := d.c.Command(b); err != nil {
			return err
		}
	}
	return nil
}

// Show toggles the display on or off.
func (d *mono) Show(show bool) error {
	command := byte(ssd1xxxSetDisplayOff)
	if show {
		command = ssd1xxxSetDisplayOn
	}
	if err := d.command(command); err != nil {
		return err
	}
	d.halted = !show
	return setBacklight(d.backlight, show)
}

// SetContrast adjusts the contrast level.
func (d *mono) SetContrast(level uint8) error {
	return d.command(ssd1xxxSetContrast, level)
}

func (d *mono) flush(r image.Rectangle) error {
	if d.closed {
		return ErrClosed
	}
	if r = r.Intersect(d.img.Bounds()); r.Empty() {
		return nil
	}
	return d.send(r)
}

// Refresh redraws the whole display from the frame buffer.
func (d *mono) Refresh() error {
	return d.flush(d.img.Bounds())
}

// Begin returns a context drawing into the frame buffer. Closing it sends the touched pages.
func (d *mono) Begin() (screen.Context, error) {
	if d.closed {
		return nil, ErrClosed
	}
	return &flushContext{
		ImageContext: screen.ImageContext{Dst: d.img},
		flush:        d.flush,
	}, nil
}

// pages returns the first and last page touched by r.
func pages(r image.Rectangle) (first, last int) {
	return r.Min.Y / 8, (r.Max.Y - 1) / 8
}
