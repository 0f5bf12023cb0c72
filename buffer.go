package screen

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/BeatGlow/screen/pixel"
)

// Buffer is an off-screen 24-bit raster buffer.
//
// Pixels are stored in rows of [CorrectedWidth] pixels, bottom row first, so the pixel shown at
// display coordinate (x, y) lives in storage row Height()-1-y. Filters and the Pixel accessors
// work in storage coordinates, drawing and presentation in display coordinates.
//
// The zero Buffer is empty; one of the Create methods allocates its storage. Re-creating a
// buffer always discards the previous storage.
type Buffer struct {
	width   int
	height  int
	stride  int
	img     *pixel.RGBImage
	scratch []pixel.RGB
	canvas  *Canvas
}

// CorrectedWidth returns the padded row length in pixels for a buffer width w: the smallest
// multiple of 4 not below w.
func CorrectedWidth(w int) int {
	return pixel.CorrectedWidth(w)
}

func checkSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrSize, w, h)
	}
	return nil
}

// alloc tears down the current storage and allocates fresh pixels and scratch for w×h.
func (b *Buffer) alloc(w, h int) {
	b.free()
	b.img = pixel.NewRGBImage(w, h)
	b.scratch = make([]pixel.RGB, len(b.img.Pix))
	b.width = w
	b.height = h
	b.stride = b.img.Stride
	Logger().Debug("screen: buffer allocated", "width", w, "height", h, "stride", b.stride)
}

func (b *Buffer) free() {
	b.ReleaseDrawingContext()
	b.img = nil
	b.scratch = nil
	b.width, b.height, b.stride = 0, 0, 0
}

// Create allocates a w×h buffer. Callers must not rely on the initial pixel content.
func (b *Buffer) Create(w, h int) error {
	if err := checkSize(w, h); err != nil {
		return err
	}
	b.alloc(w, h)
	return nil
}

// CreateFilled allocates a w×h buffer and sets every visible pixel to c. Padding columns are
// left as allocated.
func (b *Buffer) CreateFilled(w, h int, c color.Color) error {
	if err := checkSize(w, h); err != nil {
		return err
	}
	b.alloc(w, h)

	v := pixel.ToRGB(c)
	for row := 0; row < h; row++ {
		line := b.img.Row(row)[:w]
		for x := range line {
			line[x] = v
		}
	}
	return nil
}

// CreateRGB allocates a w×h buffer from raw pixel data: w*h*3 bytes of tightly packed R, G, B
// triplets, rows top to bottom, without padding or header. Source row y ends up in storage row
// h-1-y, which is the top-down orientation on presentation.
func (b *Buffer) CreateRGB(data []byte, w, h int) error {
	if err := checkSize(w, h); err != nil {
		return err
	}
	if need := w * h * 3; len(data) < need {
		return fmt.Errorf("%w: have %d bytes, need %d for %dx%d", ErrShortData, len(data), need, w, h)
	}
	b.alloc(w, h)

	src := 0
	for y := 0; y < h; y++ {
		line := b.img.Row(h - 1 - y)
		for x := 0; x < w; x++ {
			line[x] = pixel.RGB{R: data[src], G: data[src+1], B: data[src+2]}
			src += 3
		}
	}
	return nil
}

// CreateFromImage allocates a buffer the size of src and copies src into it.
func (b *Buffer) CreateFromImage(src image.Image) error {
	r := src.Bounds()
	if err := b.Create(r.Dx(), r.Dy()); err != nil {
		return err
	}
	xdraw.Copy(b.img, image.Point{}, src, r, xdraw.Src, nil)
	return nil
}

// CreateFromRegion re-creates the buffer at the size of r and copies that region of src into it
// through the buffer's drawing context. A drawing context must be acquired beforehand; it is
// rebound to the new storage and stays acquired.
func (b *Buffer) CreateFromRegion(src image.Image, r image.Rectangle) error {
	if b.canvas == nil {
		return ErrNoDrawingContext
	}
	r = r.Canon()
	if err := b.Create(r.Dx(), r.Dy()); err != nil {
		return err
	}
	c, err := b.AcquireDrawingContext()
	if err != nil {
		return err
	}
	xdraw.Copy(c, image.Point{}, src, r, xdraw.Src, nil)
	return nil
}

// Detach moves the backing image out of the buffer, which becomes empty. The caller owns the
// returned image; it is nil for an empty buffer.
func (b *Buffer) Detach() *pixel.RGBImage {
	img := b.img
	b.free()
	return img
}

// BitmapFromRGB converts raw RGB data (see [Buffer.CreateRGB]) to a standalone bottom-up image.
func BitmapFromRGB(data []byte, w, h int) (*pixel.RGBImage, error) {
	var b Buffer
	if err := b.CreateRGB(data, w, h); err != nil {
		return nil, err
	}
	return b.Detach(), nil
}

// Close releases the drawing context and the pixel storage. The buffer may be created again
// afterwards.
func (b *Buffer) Close() error {
	b.free()
	return nil
}

// AcquireDrawingContext returns a canvas drawing straight into the buffer's pixels. The canvas
// is created on first use and returned again until it is released, either explicitly or by any
// Create, Present or Close call.
func (b *Buffer) AcquireDrawingContext() (*Canvas, error) {
	if b.img == nil {
		return nil, ErrEmpty
	}
	if b.canvas == nil {
		b.canvas = &Canvas{img: b.img}
	}
	return b.canvas, nil
}

// ReleaseDrawingContext releases the canvas, if any.
func (b *Buffer) ReleaseDrawingContext() {
	if b.canvas != nil {
		b.canvas.img = nil
		b.canvas = nil
	}
}

// Width is the logical width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height is the logical height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Stride is the padded row length in pixels.
func (b *Buffer) Stride() int {
	return b.stride
}

// Bounds is the visible area, in display coordinates.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Empty reports whether the buffer has no storage.
func (b *Buffer) Empty() bool {
	return b.img == nil
}

// Image returns the backing image, nil for an empty buffer. The image is owned by the buffer.
func (b *Buffer) Image() *pixel.RGBImage {
	return b.img
}

// Pix returns the backing pixels, Stride()*Height() entries with the bottom row first.
func (b *Buffer) Pix() []pixel.RGB {
	if b.img == nil {
		return nil
	}
	return b.img.Pix
}

// Pixel returns the pixel at column x of storage row row, padding included. Coordinates out of
// range return black.
func (b *Buffer) Pixel(x, row int) pixel.RGB {
	if !b.inStorage(x, row) {
		return pixel.RGB{}
	}
	return b.img.Pix[row*b.stride+x]
}

// SetPixel sets the pixel at column x of storage row row; coordinates out of range are ignored.
func (b *Buffer) SetPixel(x, row int, c pixel.RGB) {
	if b.inStorage(x, row) {
		b.img.Pix[row*b.stride+x] = c
	}
}

func (b *Buffer) inStorage(x, row int) bool {
	return b.img != nil && x >= 0 && x < b.stride && row >= 0 && row < b.height
}
