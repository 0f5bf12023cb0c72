package panel

import (
	"encoding/binary"
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/screen"
	"github.com/BeatGlow/screen/internal/spidev"
	"github.com/BeatGlow/screen/pixel"
)

const (
	st7789DefaultWidth  = 240
	st7789DefaultHeight = 240

	// Controller RAM size in the unrotated orientation.
	st7789RAMWidth  = 240
	st7789RAMHeight = 320

	st7789SpeedHz = 40_000_000
)

// Registers (from st7789.pdf).
const (
	st7789SWRESET   = 0x01
	st7789SLPOUT    = 0x11 // Sleep Out
	st7789INVON     = 0x21 // Display Inversion On
	st7789DISPOFF   = 0x28 // Display Off
	st7789DISPON    = 0x29 // Display On
	st7789CASET     = 0x2A // Column Address Set
	st7789RASET     = 0x2B // Row Address Set
	st7789RAMWR     = 0x2C // Memory Write
	st7789MADCTL    = 0x36 // Memory Data Access Control
	st7789COLMOD    = 0x3A // Interface Pixel Format
	st7789PORCTRL   = 0xB2 // Porch Setting
	st7789GCTRL     = 0xB7 // Gate Control
	st7789VCOMS     = 0xBB // VCOM Setting
	st7789LCMCTRL   = 0xC0 // LCM Control
	st7789VDVVRHEN  = 0xC2 // VDV and VRH Command Enable
	st7789VRHS      = 0xC3 // VRH Set
	st7789VDVSET    = 0xC4 // VDV Set
	st7789VCMOFSET  = 0xC5 // VCOM Offset Set
	st7789FRCTR2    = 0xC6 // Frame Rate Control in Normal Mode
	st7789PWCTRL1   = 0xD0 // Power Control 1
	st7789PVGAMCTRL = 0xE0 // Positive Voltage Gamma Control
	st7789NVGAMCTRL = 0xE1 // Negative Voltage Gamma Control
)

// Memory Data Access Control (MADCTL) bit fields.
const (
	_                           byte = 1 << iota // D0: reserved
	_                                            // D1: reserved
	st7789DisplayDataLatchOrder                  // D2: MH
	st7789RGBOrder                               // D3: RGB
	st7789LineAddressOrder                       // D4: ML
	st7789PageColumnOrder                        // D5: MV
	st7789ColumnAddressOrder                     // D6: MX
	st7789PageAddressOrder                       // D7: MY
)

// ST7789 drives a 16-bit color TFT panel. It is a [screen.Surface]; presenting to it updates only
// the panel window that was drawn to.
type ST7789 struct {
	c         Conn
	img       *pixel.CRGB16Image
	backlight gpio.PinOut
	colOffset int
	rowOffset int
	rotation  Rotation
	closed    bool
}

// NewST7789 resets and initialises the panel. Width and height are in the configured rotation and
// default to 240×240.
func NewST7789(c Conn, config *Config) (*ST7789, error) {
	if config == nil {
		config = new(Config)
	}
	if spi, ok := c.(SPI); ok {
		spi.SetDataLow(false)
		if err := spi.SetMode(spidev.Mode3); err != nil {
			return nil, err
		}
		if err := spi.SetMaxSpeed(st7789SpeedHz); err != nil {
			return nil, err
		}
	}

	d := &ST7789{c: c, backlight: config.Backlight}
	if err := d.init(config); err != nil {
		return nil, err
	}
	screen.Logger().Info("panel: initialised", "panel", d.String(), "conn", c.String(), "rotation", d.rotation.String())
	return d, nil
}

func (d *ST7789) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("ST7789 %dx%d", bounds.Dx(), bounds.Dy())
}

// Bounds is the display area.
func (d *ST7789) Bounds() image.Rectangle {
	return d.img.Bounds()
}

// Image is the frame buffer mirrored to the panel.
func (d *ST7789) Image() *pixel.CRGB16Image {
	return d.img
}

func (d *ST7789) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if err := d.Show(false); err != nil {
		screen.Logger().Warn("panel: switching display off failed", "conn", d.c.String(), "err", err)
		_ = d.c.Close()
		return err
	}
	return d.c.Close()
}

// command sends a command and its arguments as data.
func (d *ST7789) command(command byte, data ...byte) (err error) {
	if err = d.c.Command(command); err != nil {
		return
	}
	if len(data) > 0 {
		err = d.c.Data(data...)
	}
	return
}

func (d *ST7789) commands(commands [][]byte) (err error) {
	for _, command := range commands {
		if err = d.command(command[0], command[1:]...); err != nil {
			return
		}
	}
	return
}

func checkST7789Size(w, h int, rotation Rotation) error {
	maxW, maxH := st7789RAMWidth, st7789RAMHeight
	if rotation == Rotate90 || rotation == Rotate270 {
		maxW, maxH = maxH, maxW
	}
	if w <= 0 || h <= 0 || w > maxW || h > maxH {
		return fmt.Errorf("panel: ST7789 invalid size %dx%d, maximum size is %dx%d at %s rotation", w, h, maxW, maxH, rotation)
	}
	return nil
}

func (d *ST7789) init(config *Config) (err error) {
	w, h := config.Width, config.Height
	if w == 0 {
		w = st7789DefaultWidth
	}
	if h == 0 {
		h = st7789DefaultHeight
	}
	rotation := config.Rotation & 3
	if err = checkST7789Size(w, h, rotation); err != nil {
		return
	}

	d.img = pixel.NewCRGB16Image(w, h)
	d.img.Order = binary.BigEndian

	if err = reset(d.c); err != nil {
		return
	}
	sleep(10 * time.Millisecond)
	if err = d.command(st7789SWRESET); err != nil {
		return
	}
	sleep(150 * time.Millisecond)
	if err = d.command(st7789SLPOUT); err != nil {
		return
	}
	sleep(150 * time.Millisecond)

	if err = d.commands([][]byte{
		{st7789COLMOD, 0x05}, // Interface Pixel Format: 16-bit/pixel (RGB 5-6-5-bit input)
		{st7789PORCTRL, 0x0C, 0x0C, 0x00, 0x33, 0x33}, // Porch Setting: default
		{st7789GCTRL, 0x35},         // Gate Control: 13.26V / -10.43V (default)
		{st7789VCOMS, 0x1A},         // VCOM Setting: 0.75V
		{st7789LCMCTRL, 0x2C},       // LCM Control: default
		{st7789VDVVRHEN, 0x01},      // VDV and VRH Command Enable: default
		{st7789VRHS, 0x0B},          // VRH Set
		{st7789VDVSET, 0x20},        // VDV Set: default (0V)
		{st7789VCMOFSET, 0x20},      // VCOM Offset Set: default (0V)
		{st7789FRCTR2, 0x0F},        // Frame Rate Control in Normal Mode: 60Hz (default)
		{st7789PWCTRL1, 0xA4, 0xA1}, // Power Control 1: default
		{st7789INVON},
		{st7789PVGAMCTRL, 0x00, 0x19, 0x1E, 0x0A, 0x09, 0x15, 0x3D, 0x44, 0x51, 0x12, 0x03, 0x00, 0x3F, 0x3F},
		{st7789NVGAMCTRL, 0x00, 0x18, 0x1E, 0x0A, 0x09, 0x25, 0x3F, 0x43, 0x52, 0x33, 0x03, 0x00, 0x3F, 0x3F},
	}); err != nil {
		return
	}
	if err = d.SetRotation(rotation); err != nil {
		return
	}
	if err = d.Refresh(); err != nil {
		return
	}
	return d.Show(true)
}

// Show toggles the display and its backlight on or off.
func (d *ST7789) Show(show bool) error {
	command := byte(st7789DISPOFF)
	if show {
		command = st7789DISPON
	}
	if err := d.command(command); err != nil {
		return err
	}
	return setBacklight(d.backlight, show)
}

// SetRotation changes the scan direction. The frame buffer keeps its size, so the rotation has to
// fit the panel at that size.
func (d *ST7789) SetRotation(rotation Rotation) error {
	rotation &= 3
	bounds := d.img.Bounds()
	if err := checkST7789Size(bounds.Dx(), bounds.Dy(), rotation); err != nil {
		return err
	}

	var madctl byte
	switch rotation {
	case NoRotation:
		madctl = 0
	case Rotate90:
		madctl = st7789ColumnAddressOrder | st7789PageColumnOrder
	case Rotate180:
		madctl = st7789ColumnAddressOrder | st7789PageAddressOrder
	case Rotate270:
		madctl = st7789PageAddressOrder | st7789PageColumnOrder
	}

	// Mirrored scan directions start at the far end of the controller RAM.
	ramW, ramH := st7789RAMWidth, st7789RAMHeight
	if rotation == Rotate90 || rotation == Rotate270 {
		ramW, ramH = ramH, ramW
	}
	d.colOffset, d.rowOffset = 0, 0
	switch rotation {
	case Rotate180:
		d.colOffset, d.rowOffset = ramW-bounds.Dx(), ramH-bounds.Dy()
	case Rotate270:
		d.colOffset = ramW - bounds.Dx()
	}

	d.rotation = rotation
	return d.command(st7789MADCTL, madctl)
}

// setWindow selects the RAM area written by the next RAMWR, r.Max is exclusive.
func (d *ST7789) setWindow(r image.Rectangle) error {
	var (
		x0 = r.Min.X + d.colOffset
		x1 = r.Max.X - 1 + d.colOffset
		y0 = r.Min.Y + d.rowOffset
		y1 = r.Max.Y - 1 + d.rowOffset
	)
	return d.commands([][]byte{
		{st7789CASET, byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)}, // Column address
		{st7789RASET, byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)}, // Row address
		{st7789RAMWR}, // Write to RAM
	})
}

func (d *ST7789) flush(r image.Rectangle) error {
	if d.closed {
		return ErrClosed
	}
	if r = r.Intersect(d.img.Bounds()); r.Empty() {
		return nil
	}
	if err := d.setWindow(r); err != nil {
		return err
	}

	var data []byte
	if r.Dx() == d.img.Rect.Dx() {
		data = d.img.Pix[d.img.PixOffset(r.Min.X, r.Min.Y):d.img.PixOffset(r.Min.X, r.Max.Y)]
	} else {
		data = make([]byte, 0, r.Dx()*r.Dy()*2)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			data = append(data, d.img.Pix[d.img.PixOffset(r.Min.X, y):d.img.PixOffset(r.Max.X, y)]...)
		}
	}
	screen.Logger().Debug("panel: ST7789 flush", "rect", r, "bytes", len(data))
	return d.c.Data(data...)
}

// Refresh redraws the whole display from the frame buffer.
func (d *ST7789) Refresh() error {
	return d.flush(d.img.Bounds())
}

// Begin returns a context drawing into the frame buffer. Closing it sends the drawn window.
func (d *ST7789) Begin() (screen.Context, error) {
	if d.closed {
		return nil, ErrClosed
	}
	return &flushContext{
		ImageContext: screen.ImageContext{Dst: d.img},
		flush:        d.flush,
	}, nil
}

var _ screen.Surface = (*ST7789)(nil)
