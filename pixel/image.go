package pixel

import (
	"encoding/binary"
	"image"
	"image/color"

	"github.com/BeatGlow/screen/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// CorrectedWidth rounds a width in pixels up to the next multiple of 4, the row alignment of
// device independent bitmaps.
func CorrectedWidth(w int) int {
	return ((w + 3) / 4) * 4
}

// RGBImage is a 24-bit image with rows padded to [CorrectedWidth] pixels.
//
// Rows are stored bottom-up: Pix row 0 holds the bottom scanline of the image, so the pixel at
// (x, y) lives in row Rect.Max.Y-1-y. Columns between Rect.Dx() and Stride are padding.
type RGBImage struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []RGB

	// Stride is the Pix stride (in pixels) between vertically adjacent rows.
	Stride int
}

// NewRGBImage allocates a padded bottom-up image of w×h pixels.
func NewRGBImage(w, h int) *RGBImage {
	stride := CorrectedWidth(w)
	return &RGBImage{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]RGB, stride*h),
		Stride: stride,
	}
}

func (p *RGBImage) Bounds() image.Rectangle {
	return p.Rect
}

func (p *RGBImage) ColorModel() color.Model {
	return RGBModel
}

// PixOffset returns the index of the pixel at (x, y) in Pix.
func (p *RGBImage) PixOffset(x, y int) int {
	return (p.Rect.Max.Y-1-y)*p.Stride + (x - p.Rect.Min.X)
}

// Row returns the storage row, including padding. Row 0 is the bottom scanline.
func (p *RGBImage) Row(row int) []RGB {
	off := row * p.Stride
	return p.Pix[off : off+p.Stride]
}

func (p *RGBImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return p.Pix[p.PixOffset(x, y)]
}

// RGBAt returns the color at (x, y), or black outside the image.
func (p *RGBImage) RGBAt(x, y int) RGB {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return RGB{}
	}
	return p.Pix[p.PixOffset(x, y)]
}

func (p *RGBImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = ToRGB(c)
}

// SetRGB sets the pixel at (x, y) without going through the color model.
func (p *RGBImage) SetRGB(x, y int, c RGB) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = c
}

func (p *RGBImage) Clear() {
	clear(p.Pix)
}

// Fill sets every pixel, padding included, to c.
func (p *RGBImage) Fill(c color.Color) {
	v := ToRGB(c)
	for i := range p.Pix {
		p.Pix[i] = v
	}
}

// Buffer holds the pixel values of the packed image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	clear(p.Pix)
}

func makeBuffer(w, h, stride, size int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, size),
		Stride: stride,
	}
}

// MonoVerticalLSBImage is a 1-bit per pixel monochrome image organised in pages of 8 rows, the
// least significant bit being the top row of a page.
//
// This is the memory layout of SSD1xxx OLED controllers.
type MonoVerticalLSBImage struct {
	Buffer
}

func NewMonoVerticalLSBImage(w, h int) *MonoVerticalLSBImage {
	pages := (h + 7) / 8
	return &MonoVerticalLSBImage{
		Buffer: makeBuffer(w, h, w, pages*w),
	}
}

func (p *MonoVerticalLSBImage) ColorModel() color.Model {
	return MonoModel
}

func (p *MonoVerticalLSBImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return Mono{On: p.Pix[y/8*p.Stride+x]&(1<<uint(y&7)) != 0}
}

func (p *MonoVerticalLSBImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	var (
		pos = y/8*p.Stride + x
		bit = byte(1) << uint(y&7)
	)
	if monoModel(c).(Mono).On {
		p.Pix[pos] |= bit
	} else {
		p.Pix[pos] &^= bit
	}
}

func (p *MonoVerticalLSBImage) Fill(c color.Color) {
	var value byte
	if monoModel(c).(Mono).On {
		value = 0xff
	}
	for i := range p.Pix {
		p.Pix[i] = value
	}
}

// Page returns the bytes of one 8-row page.
func (p *MonoVerticalLSBImage) Page(page int) []byte {
	off := page * p.Stride
	return p.Pix[off : off+p.Stride]
}

// CRGB16Image is a 16-bits per pixel 5-6-5-bit RGB image.
type CRGB16Image struct {
	Buffer
	Order binary.ByteOrder
}

func NewCRGB16Image(w, h int) *CRGB16Image {
	return &CRGB16Image{
		Buffer: makeBuffer(w, h, w*2, w*2*h),
		Order:  binary.BigEndian,
	}
}

func (p *CRGB16Image) ColorModel() color.Model {
	return CRGB16Model
}

func (p *CRGB16Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func (p *CRGB16Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return CRGB16{p.Order.Uint16(p.Pix[p.PixOffset(x, y):])}
}

func (p *CRGB16Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.Order.PutUint16(p.Pix[p.PixOffset(x, y):], crgb16Model(c).(CRGB16).V)
}

func (p *CRGB16Image) Fill(c color.Color) {
	var v [2]byte
	p.Order.PutUint16(v[:], crgb16Model(c).(CRGB16).V)
	for i, l := 0, len(p.Pix); i+1 < l; i += 2 {
		p.Pix[i], p.Pix[i+1] = v[0], v[1]
	}
}

// BGRX32Image is a 32-bits per pixel image in blue, green, red, unused byte order, the common
// layout of 32 bpp Linux framebuffers.
type BGRX32Image struct {
	Buffer
}

func NewBGRX32Image(w, h int) *BGRX32Image {
	return &BGRX32Image{
		Buffer: makeBuffer(w, h, w*4, w*4*h),
	}
}

func (p *BGRX32Image) ColorModel() color.Model {
	return BGRX32Model
}

func (p *BGRX32Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

func (p *BGRX32Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	i := p.PixOffset(x, y)
	return BGRX32{B: p.Pix[i], G: p.Pix[i+1], R: p.Pix[i+2]}
}

func (p *BGRX32Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	v := bgrx32Model(c).(BGRX32)
	i := p.PixOffset(x, y)
	p.Pix[i], p.Pix[i+1], p.Pix[i+2], p.Pix[i+3] = v.B, v.G, v.R, 0xff
}

func (p *BGRX32Image) Fill(c color.Color) {
	v := bgrx32Model(c).(BGRX32)
	for i, l := 0, len(p.Pix); i+3 < l; i += 4 {
		p.Pix[i], p.Pix[i+1], p.Pix[i+2], p.Pix[i+3] = v.B, v.G, v.R, 0xff
	}
}

// Interface checks.
var (
	_ Image = (*RGBImage)(nil)
	_ Image = (*MonoVerticalLSBImage)(nil)
	_ Image = (*CRGB16Image)(nil)
	_ Image = (*BGRX32Image)(nil)
)
