package screen

import (
	"image"
	"image/color"

	"github.com/BeatGlow/screen/draw"
	"github.com/BeatGlow/screen/pixel"
)

// Canvas is a drawing context selected onto the pixels of a Buffer, addressed in display
// coordinates (y grows downwards). It is obtained with [Buffer.AcquireDrawingContext].
//
// Once released, a Canvas has empty bounds and ignores writes.
type Canvas struct {
	img *pixel.RGBImage
}

func (c *Canvas) ColorModel() color.Model {
	return pixel.RGBModel
}

func (c *Canvas) Bounds() image.Rectangle {
	if c.img == nil {
		return image.Rectangle{}
	}
	return c.img.Rect
}

func (c *Canvas) At(x, y int) color.Color {
	if c.img == nil {
		return color.Transparent
	}
	return c.img.At(x, y)
}

func (c *Canvas) Set(x, y int, v color.Color) {
	if c.img != nil {
		c.img.Set(x, y, v)
	}
}

// Released reports whether the canvas was released by its buffer.
func (c *Canvas) Released() bool {
	return c.img == nil
}

var _ draw.Image = (*Canvas)(nil)
