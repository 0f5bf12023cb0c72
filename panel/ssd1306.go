package panel

import (
	"fmt"
	"image"

	"github.com/BeatGlow/screen"
	"github.com/BeatGlow/screen/pixel"
)

const (
	ssd1306DefaultWidth  = 128
	ssd1306DefaultHeight = 64
)

type ssd1306Geometry struct {
	width, height   int
	displayClockDiv byte
	comPins         byte
	colStart        byte
}

var ssd1306Sizes = []ssd1306Geometry{
	{64, 32, 0x80, 0x12, 32},
	{64, 48, 0x80, 0x12, 32},
	{96, 16, 0x60, 0x02, 0},
	{128, 32, 0x80, 0x02, 0},
	{128, 64, 0x80, 0x12, 0},
}

// SSD1306 drives a monochrome OLED panel. It is a [screen.Surface]; pixels are lit when their
// luma reaches half intensity.
type SSD1306 struct {
	mono
	colStart int
}

// NewSSD1306 initialises the panel. Supported sizes are 64x32, 64x48, 96x16, 128x32 and the
// default 128x64. Only [NoRotation] and [Rotate180] are supported.
func NewSSD1306(c Conn, config *Config) (*SSD1306, error) {
	if config == nil {
		config = new(Config)
	}
	w, h := config.Width, config.Height
	if w == 0 {
		w = ssd1306DefaultWidth
	}
	if h == 0 {
		h = ssd1306DefaultHeight
	}

	var geom *ssd1306Geometry
	for i := range ssd1306Sizes {
		if ssd1306Sizes[i].width == w && ssd1306Sizes[i].height == h {
			geom = &ssd1306Sizes[i]
			break
		}
	}
	if geom == nil {
		return nil, fmt.Errorf("panel: SSD1306 unsupported size %dx%d", w, h)
	}

	d := &SSD1306{
		mono: mono{
			c:         c,
			img:       pixel.NewMonoVerticalLSBImage(w, h),
			backlight: config.Backlight,
		},
		colStart: int(geom.colStart),
	}
	d.send = d.sendWindow
	if err := d.init(geom, config.Rotation); err != nil {
		return nil, err
	}
	screen.Logger().Info("panel: initialised", "panel", d.String(), "conn", c.String())
	return d, nil
}

func (d *SSD1306) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("SSD1306 OLED %dx%d", bounds.Dx(), bounds.Dy())
}

func (d *SSD1306) init(geom *ssd1306Geometry, rotation Rotation) (err error) {
	if err = reset(d.c); err != nil {
		return
	}
	if err = d.command(
		ssd1xxxSetDisplayOff,
		ssd1xxxSetDisplayClockDiv, geom.displayClockDiv,
		ssd1xxxSetMultiplexRatio, byte(geom.height-1),
		ssd1xxxSetDisplayOffset, 0x00,
		ssd1xxxSetStartLine,
		ssd1xxxSetChargePump, 0x14,
		ssd1xxxSetMemoryMode, 0x00, // horizontal addressing
		ssd1xxxSetComPins, geom.comPins,
		ssd1xxxSetPrecharge, 0xF1,
		ssd1xxxSetVCOMDeselect, 0x40,
		ssd1xxxSetDisplayAllOnResume,
		ssd1xxxSetNormalDisplay,
	); err != nil {
		return
	}
	if err = d.SetRotation(rotation); err != nil {
		return
	}
	if err = d.SetContrast(0xCF); err != nil {
		return
	}
	if err = d.Refresh(); err != nil {
		return
	}
	return d.Show(true)
}

// SetRotation flips the panel by reversing the segment and COM scan directions.
func (d *SSD1306) SetRotation(rotation Rotation) error {
	return setMonoRotation(&d.mono, "SSD1306", rotation)
}

func setMonoRotation(d *mono, name string, rotation Rotation) error {
	switch rotation & 3 {
	case NoRotation:
		return d.command(ssd1xxxSetSegmentRemap, ssd1xxxSetComScanDec)
	case Rotate180:
		return d.command(ssd1xxxSetRemap, ssd1xxxSetComScanInc)
	default:
		return fmt.Errorf("panel: %s does not support %s rotation", name, rotation)
	}
}

// sendWindow sends the pages touched by r, limited to the columns of r, in one horizontal
// addressing window.
func (d *SSD1306) sendWindow(r image.Rectangle) error {
	var (
		page0, page1 = pages(r)
		col0         = d.colStart + r.Min.X
		col1         = d.colStart + r.Max.X - 1
	)
	if err := d.command(
		ssd1xxxSetColumnAddr, byte(col0), byte(col1),
		ssd1xxxSetPageAddr, byte(page0), byte(page1),
	); err != nil {
		return err
	}

	data := make([]byte, 0, (page1-page0+1)*r.Dx())
	for page := page0; page <= page1; page++ {
		data = append(data, d.img.Page(page)[r.Min.X:r.Max.X]...)
	}
	screen.Logger().Debug("panel: SSD1306 flush", "rect", r, "bytes", len(data))
	return d.c.Data(data...)
}

var _ screen.Surface = (*SSD1306)(nil)
