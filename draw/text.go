package draw

import (
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	defaultFontOnce sync.Once
	defaultFont     *truetype.Font
	defaultFontErr  error
)

// DefaultFont returns the parsed Go Regular font.
func DefaultFont() (*truetype.Font, error) {
	defaultFontOnce.Do(func() {
		defaultFont, defaultFontErr = truetype.Parse(goregular.TTF)
	})
	return defaultFont, defaultFontErr
}

// TextDrawer renders strings with a TrueType font. Sizes are in pixels.
type TextDrawer struct {
	Font    *truetype.Font
	Size    float64
	Hinting font.Hinting
}

// NewTextDrawer returns a TextDrawer for the default font.
func NewTextDrawer(size float64) (*TextDrawer, error) {
	f, err := DefaultFont()
	if err != nil {
		return nil, err
	}
	return &TextDrawer{
		Font:    f,
		Size:    size,
		Hinting: font.HintingFull,
	}, nil
}

// Text draws s with the top-left corner of its line box at pt. It returns the point where the
// next string on the same line would start.
func (d *TextDrawer) Text(dst Image, pt image.Point, s string, c color.Color) (image.Point, error) {
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(d.Font)
	ctx.SetFontSize(d.Size)
	ctx.SetHinting(d.Hinting)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)
	ctx.SetSrc(image.NewUniform(c))

	baseline := freetype.Pt(pt.X, pt.Y+ctx.PointToFixed(d.Size).Round())
	end, err := ctx.DrawString(s, baseline)
	if err != nil {
		return pt, err
	}
	return image.Pt(end.X.Round(), pt.Y), nil
}

// Measure returns the advance width of s in pixels.
func (d *TextDrawer) Measure(s string) int {
	face := truetype.NewFace(d.Font, &truetype.Options{
		Size:    d.Size,
		DPI:     72,
		Hinting: d.Hinting,
	})
	defer face.Close()
	return font.MeasureString(face, s).Round()
}

// Text draws s in the default font at size pixels.
func Text(dst Image, pt image.Point, s string, size float64, c color.Color) error {
	d, err := NewTextDrawer(size)
	if err != nil {
		return err
	}
	_, err = d.Text(dst, pt, s, c)
	return err
}
