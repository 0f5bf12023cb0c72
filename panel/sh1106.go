package panel

import (
	"fmt"
	"image"

	"github.com/BeatGlow/screen"
	"github.com/BeatGlow/screen/pixel"
)

const (
	sh1106DefaultWidth  = 128
	sh1106DefaultHeight = 64

	// The SH1106 has 132 columns of RAM, a 128 pixel panel is centered on them.
	sh1106ColumnOffset = 2
)

// SH1106 drives a Sino Wealth SH1106 monochrome OLED panel. It only supports page addressing,
// so every touched page is sent separately.
type SH1106 struct {
	mono
}

// NewSH1106 initialises the panel. Supported sizes are 128x32, the default 128x64 and 128x128.
func NewSH1106(c Conn, config *Config) (*SH1106, error) {
	if config == nil {
		config = new(Config)
	}
	w, h := config.Width, config.Height
	if w == 0 {
		w = sh1106DefaultWidth
	}
	if h == 0 {
		h = sh1106DefaultHeight
	}

	var multiplexRatio, displayOffset byte
	switch {
	case w == 128 && h == 32:
		multiplexRatio, displayOffset = 0x1f, 0x0f
	case w == 128 && h == 64:
		multiplexRatio, displayOffset = 0x3f, 0x00
	case w == 128 && h == 128:
		multiplexRatio, displayOffset = 0x7f, 0x02
	default:
		return nil, fmt.Errorf("panel: SH1106 unsupported size %dx%d", w, h)
	}

	d := &SH1106{
		mono: mono{
			c:         c,
			img:       pixel.NewMonoVerticalLSBImage(w, h),
			backlight: config.Backlight,
		},
	}
	d.send = d.sendPages
	if err := d.init(multiplexRatio, displayOffset, config.Rotation); err != nil {
		return nil, err
	}
	screen.Logger().Info("panel: initialised", "panel", d.String(), "conn", c.String())
	return d, nil
}

func (d *SH1106) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("SH1106 OLED %dx%d", bounds.Dx(), bounds.Dy())
}

func (d *SH1106) init(multiplexRatio, displayOffset byte, rotation Rotation) (err error) {
	if err = reset(d.c); err != nil {
		return
	}
	if err = d.command(
		ssd1xxxSetDisplayOff,
		ssd1xxxSetDisplayClockDiv, 0x80,
		ssd1xxxSetMultiplexRatio, multiplexRatio,
		ssd1xxxSetDisplayOffset, displayOffset,
		ssd1xxxSetStartLine,
		ssd1xxxSetChargePump, 0x14,
		ssd1xxxSetComPins, 0x12,
		ssd1xxxSetPrecharge, 0x22,
		ssd1xxxSetVCOMDeselect, 0x20,
		ssd1xxxSetDisplayAllOnResume,
		ssd1xxxSetNormalDisplay,
	); err != nil {
		return
	}
	if err = d.SetRotation(rotation); err != nil {
		return
	}
	if err = d.SetContrast(0x7F); err != nil {
		return
	}
	if err = d.Refresh(); err != nil {
		return
	}
	return d.Show(true)
}

// SetRotation flips the panel by reversing the segment and COM scan directions.
func (d *SH1106) SetRotation(rotation Rotation) error {
	return setMonoRotation(&d.mono, "SH1106", rotation)
}

// sendPages addresses and sends every page touched by r, limited to the columns of r.
func (d *SH1106) sendPages(r image.Rectangle) error {
	page0, page1 := pages(r)
	col := sh1106ColumnOffset + r.Min.X
	for page := page0; page <= page1; page++ {
		if err := d.command(
			ssd1xxxSetPageStart|byte(page&0x0f),
			ssd1xxxSetLowColumn|byte(col&0x0f),
			ssd1xxxSetHighColumn|byte(col>>4),
		); err != nil {
			return err
		}
		if err := d.c.Data(d.img.Page(page)[r.Min.X:r.Max.X]...); err != nil {
			return err
		}
	}
	screen.Logger().Debug("panel: SH1106 flush", "rect", r, "pages", page1-page0+1)
	return nil
}

var _ screen.Surface = (*SH1106)(nil)
